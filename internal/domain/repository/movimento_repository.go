package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
)

// FiltroMovimentos para listagem com filtros opcionais (vazio = não filtra).
type FiltroMovimentos struct {
	ProdutoID string
	Classe    string
	RefTipo   string
	RefID     string
	Limit     int
}

// MovimentoRepository é o port do log de movimentações. O log é
// append-mostly: Create e MarcarStatus são as únicas escritas; nenhum
// movimento é apagado ou tem quantidade alterada.
type MovimentoRepository interface {
	Create(ctx context.Context, m *entity.Movimento) error
	GetByID(ctx context.Context, id string) (*entity.Movimento, error)
	Listar(ctx context.Context, f FiltroMovimentos) ([]*entity.Movimento, error)

	// ListarPorReferencia devolve os movimentos da referência; status vazio
	// não filtra, reversao seleciona compensatórios ou diretos.
	ListarPorReferencia(ctx context.Context, ref domain.Referencia, status string, reversao bool) ([]*entity.Movimento, error)
	// UltimoPorReferencia devolve o movimento de maior ref_seq (nil se não há).
	UltimoPorReferencia(ctx context.Context, ref domain.Referencia, reversao bool) (*entity.Movimento, error)
	// ProximaRefSeq devolve max(ref_seq)+1 para a referência (1 se não há).
	ProximaRefSeq(ctx context.Context, ref domain.Referencia) (int64, error)
	// MarcarStatus troca o status do movimento (APLICADO → REVERTIDO).
	MarcarStatus(ctx context.Context, id, status string) error
	// SomaDeltas soma a variação assinada de todos os movimentos do produto
	// (base da recomputação de saldo).
	SomaDeltas(ctx context.Context, produtoID string) (decimal.Decimal, error)
}
