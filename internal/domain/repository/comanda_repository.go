package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
)

// ComandaRepository é o port de comandas e seus itens (reservas abertas).
type ComandaRepository interface {
	Create(ctx context.Context, c *entity.Comanda) error
	GetByID(ctx context.Context, id string) (*entity.Comanda, error)
	Atualizar(ctx context.Context, c *entity.Comanda) error

	CriarItem(ctx context.Context, item *entity.ComandaItem) error
	AtualizarItem(ctx context.Context, item *entity.ComandaItem) error
	GetItem(ctx context.Context, itemID string) (*entity.ComandaItem, error)
	// GetItemPendente devolve o item pendente da comanda para o produto
	// (nil se não existe). Base do merge ao adicionar de novo.
	GetItemPendente(ctx context.Context, comandaID, produtoID string) (*entity.ComandaItem, error)
	ListarItens(ctx context.Context, comandaID, status string) ([]*entity.ComandaItem, error)

	// SomaPendentes soma as quantidades pendentes do produto em todas as
	// comandas abertas; SomaPendentesDaComanda restringe a uma comanda.
	SomaPendentes(ctx context.Context, produtoID string) (decimal.Decimal, error)
	SomaPendentesDaComanda(ctx context.Context, produtoID, comandaID string) (decimal.Decimal, error)
	// AtualizarStatusItens move todos os itens da comanda de um status para
	// outro (pendente→faturado no fechamento, pendente→liberado no cancelamento).
	AtualizarStatusItens(ctx context.Context, comandaID, de, para string) error
}
