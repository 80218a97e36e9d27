package estoque

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/logger"
)

// Projetor mantém o saldo materializado (produtos.estoque_atual) coerente com
// o log de movimentações. O ledger usa AplicarDelta em cada mutação; a
// recomputação existe para reparar o resíduo de uma falha parcial (movimento
// gravado, saldo não atualizado), que não interrompe a operação de negócio.
type Projetor struct {
	produtoRepo repository.ProdutoRepository
	movRepo     repository.MovimentoRepository
	log         *logger.Logger
}

// NewProjetor constrói o projetor de saldos.
func NewProjetor(produtoRepo repository.ProdutoRepository, movRepo repository.MovimentoRepository, log *logger.Logger) *Projetor {
	return &Projetor{produtoRepo: produtoRepo, movRepo: movRepo, log: log}
}

// AplicarDelta soma a variação assinada ao saldo materializado.
func (p *Projetor) AplicarDelta(ctx context.Context, produtoID string, delta decimal.Decimal) error {
	if err := p.produtoRepo.AjustarEstoque(ctx, produtoID, delta); err != nil {
		return fmt.Errorf("ajustar estoque de %s: %w", produtoID, err)
	}
	return nil
}

// Divergencia descreve um produto cujo saldo materializado não bate com a
// soma dos movimentos.
type Divergencia struct {
	ProdutoID string
	Nome      string
	Cacheado  decimal.Decimal
	Recontado decimal.Decimal
	Corrigido bool
}

// Recomputar reconta o saldo do produto a partir do log e corrige o campo
// materializado se divergir. Devolve nil quando já estava consistente.
func (p *Projetor) Recomputar(ctx context.Context, produtoID string) (*Divergencia, error) {
	produto, err := p.produtoRepo.GetByID(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	if produto == nil {
		return nil, domain.ErrNotFound
	}

	soma, err := p.movRepo.SomaDeltas(ctx, produtoID)
	if err != nil {
		return nil, fmt.Errorf("somar movimentos de %s: %w", produtoID, err)
	}
	if produto.EstoqueAtual.Equal(soma) {
		return nil, nil
	}

	div := &Divergencia{
		ProdutoID: produto.ID,
		Nome:      produto.Nome,
		Cacheado:  produto.EstoqueAtual,
		Recontado: soma,
	}
	if err := p.produtoRepo.DefinirEstoque(ctx, produtoID, soma); err != nil {
		return div, fmt.Errorf("corrigir estoque de %s: %w", produtoID, err)
	}
	div.Corrigido = true
	p.log.Warn().
		Str("produto_id", produto.ID).
		Str("cacheado", div.Cacheado.String()).
		Str("recontado", soma.String()).
		Msg("saldo divergente corrigido na reconciliação")
	return div, nil
}

// Reconciliacao resume uma passada de RecomputarTodos: quantos produtos
// controlados foram verificados e quais divergiram.
type Reconciliacao struct {
	Verificados  int
	Divergencias []*Divergencia
}

// RecomputarTodos reconcilia todos os produtos ativos com controle de
// estoque e devolve o resumo com as divergências encontradas.
func (p *Projetor) RecomputarTodos(ctx context.Context) (*Reconciliacao, error) {
	produtos, err := p.produtoRepo.ListAtivos(ctx)
	if err != nil {
		return nil, err
	}
	rec := &Reconciliacao{}
	for _, produto := range produtos {
		if !produto.ControlaEstoque {
			continue
		}
		div, err := p.Recomputar(ctx, produto.ID)
		if err != nil {
			return rec, err
		}
		rec.Verificados++
		if div != nil {
			rec.Divergencias = append(rec.Divergencias, div)
		}
	}
	return rec, nil
}
