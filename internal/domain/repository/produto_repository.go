package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
)

// ProdutoRepository é o port de persistência de produtos.
// AjustarEstoque e DefinirEstoque são de uso exclusivo do ledger/projetor;
// nenhum outro componente escreve estoque_atual.
type ProdutoRepository interface {
	Create(ctx context.Context, p *entity.Produto) error
	GetByID(ctx context.Context, id string) (*entity.Produto, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Produto, error)
	ListAtivos(ctx context.Context) ([]*entity.Produto, error)

	// AjustarEstoque soma delta (pode ser negativo) ao saldo materializado.
	AjustarEstoque(ctx context.Context, produtoID string, delta decimal.Decimal) error
	// DefinirEstoque grava o saldo recomputado (reconciliação).
	DefinirEstoque(ctx context.Context, produtoID string, quantidade decimal.Decimal) error
	AtualizarCusto(ctx context.Context, produtoID string, custo decimal.Decimal) error
}
