package estoque

import (
	"context"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// Consultas agrupa as leituras de estoque: extrato de movimentações e
// relatório de reposição.
type Consultas struct {
	produtoRepo repository.ProdutoRepository
	movRepo     repository.MovimentoRepository
}

// NewConsultas constrói as consultas de estoque.
func NewConsultas(produtoRepo repository.ProdutoRepository, movRepo repository.MovimentoRepository) *Consultas {
	return &Consultas{produtoRepo: produtoRepo, movRepo: movRepo}
}

// Extrato devolve o log de movimentações com os filtros informados.
func (c *Consultas) Extrato(ctx context.Context, f repository.FiltroMovimentos) ([]*entity.Movimento, error) {
	return c.movRepo.Listar(ctx, f)
}

// EstoqueBaixo lista os produtos ativos com saldo igual ou abaixo do mínimo.
// Produtos sem controle de estoque ficam de fora.
func (c *Consultas) EstoqueBaixo(ctx context.Context) ([]*entity.Produto, error) {
	produtos, err := c.produtoRepo.ListAtivos(ctx)
	if err != nil {
		return nil, err
	}
	var baixos []*entity.Produto
	for _, p := range produtos {
		if p.AbaixoDoMinimo() {
			baixos = append(baixos, p)
		}
	}
	return baixos, nil
}
