package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

var _ repository.VendaRepository = (*VendaRepo)(nil)

// VendaRepo implementação de VendaRepository sobre PostgreSQL (usável com
// pool ou tx).
type VendaRepo struct {
	q Querier
}

// NewVendaRepository constrói o adaptador de vendas.
func NewVendaRepository(q Querier) *VendaRepo {
	return &VendaRepo{q: q}
}

// Create persiste uma venda nova.
func (r *VendaRepo) Create(ctx context.Context, v *entity.Venda) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	query := `
		INSERT INTO vendas (id, comanda_id, valor_total, forma_pagamento, status_fiscal,
			numero_nfce, chave_acesso, protocolo, motivo_rejeicao, usuario_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ComandaID, v.ValorTotal, v.FormaPagamento, v.StatusFiscal,
		v.NumeroNFCe, v.ChaveAcesso, v.Protocolo, v.MotivoRejeicao, v.UsuarioID,
		v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create venda: %w", err)
	}
	return nil
}

// GetByID obtém uma venda por ID (nil se não existe).
func (r *VendaRepo) GetByID(ctx context.Context, id string) (*entity.Venda, error) {
	query := `
		SELECT id, comanda_id, valor_total, forma_pagamento, status_fiscal,
			numero_nfce, chave_acesso, protocolo, motivo_rejeicao, usuario_id, created_at, updated_at
		FROM vendas WHERE id = $1`
	var v entity.Venda
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.ComandaID, &v.ValorTotal, &v.FormaPagamento, &v.StatusFiscal,
		&v.NumeroNFCe, &v.ChaveAcesso, &v.Protocolo, &v.MotivoRejeicao, &v.UsuarioID,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venda: %w", err)
	}
	return &v, nil
}

// Atualizar grava o resultado fiscal da venda.
func (r *VendaRepo) Atualizar(ctx context.Context, v *entity.Venda) error {
	query := `
		UPDATE vendas
		SET status_fiscal = $2, numero_nfce = $3, chave_acesso = $4,
			protocolo = $5, motivo_rejeicao = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		v.ID, v.StatusFiscal, v.NumeroNFCe, v.ChaveAcesso,
		v.Protocolo, v.MotivoRejeicao, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("atualizar venda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
