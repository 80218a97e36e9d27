package repository

import (
	"context"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
)

// VendaRepository é o port das vendas (documentos de saída).
type VendaRepository interface {
	Create(ctx context.Context, v *entity.Venda) error
	GetByID(ctx context.Context, id string) (*entity.Venda, error)
	Atualizar(ctx context.Context, v *entity.Venda) error
}
