package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

var _ repository.ComandaRepository = (*ComandaRepo)(nil)

// ComandaRepo implementação de ComandaRepository sobre PostgreSQL (usável
// com pool ou tx).
type ComandaRepo struct {
	q Querier
}

// NewComandaRepository constrói o adaptador de comandas.
func NewComandaRepository(q Querier) *ComandaRepo {
	return &ComandaRepo{q: q}
}

// Create persiste uma comanda nova. Número repetido entre comandas abertas
// vira ErrDuplicate (índice parcial único em numero WHERE status = 'aberta').
func (r *ComandaRepo) Create(ctx context.Context, c *entity.Comanda) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO comandas (id, numero, cliente, status, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Numero, c.Cliente, c.Status, c.UsuarioID, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create comanda: %w", err)
	}
	return nil
}

// GetByID obtém uma comanda por ID (nil se não existe).
func (r *ComandaRepo) GetByID(ctx context.Context, id string) (*entity.Comanda, error) {
	query := `
		SELECT id, numero, cliente, status, usuario_id, created_at, fechada_em
		FROM comandas WHERE id = $1`
	var c entity.Comanda
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Numero, &c.Cliente, &c.Status, &c.UsuarioID, &c.CreatedAt, &c.FechadaEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comanda: %w", err)
	}
	return &c, nil
}

// Atualizar grava status e fechamento da comanda.
func (r *ComandaRepo) Atualizar(ctx context.Context, c *entity.Comanda) error {
	query := `UPDATE comandas SET cliente = $2, status = $3, fechada_em = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Cliente, c.Status, c.FechadaEm)
	if err != nil {
		return fmt.Errorf("atualizar comanda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CriarItem persiste um item de comanda.
func (r *ComandaRepo) CriarItem(ctx context.Context, item *entity.ComandaItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO comanda_itens (id, comanda_id, produto_id, quantidade, preco_unit, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.ComandaID, item.ProdutoID, item.Quantidade,
		item.PrecoUnit, item.Status, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("criar item: %w", err)
	}
	return nil
}

// AtualizarItem grava quantidade, preço e status de um item.
func (r *ComandaRepo) AtualizarItem(ctx context.Context, item *entity.ComandaItem) error {
	query := `
		UPDATE comanda_itens
		SET quantidade = $2, preco_unit = $3, status = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Quantidade, item.PrecoUnit, item.Status, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("atualizar item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetItem obtém um item por ID (nil se não existe).
func (r *ComandaRepo) GetItem(ctx context.Context, itemID string) (*entity.ComandaItem, error) {
	query := `
		SELECT id, comanda_id, produto_id, quantidade, preco_unit, status, created_at, updated_at
		FROM comanda_itens WHERE id = $1`
	i, err := scanComandaItem(r.q.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return i, nil
}

// GetItemPendente devolve o item pendente da comanda para o produto (nil se
// não existe). É a base do merge ao adicionar o mesmo produto de novo.
func (r *ComandaRepo) GetItemPendente(ctx context.Context, comandaID, produtoID string) (*entity.ComandaItem, error) {
	query := `
		SELECT id, comanda_id, produto_id, quantidade, preco_unit, status, created_at, updated_at
		FROM comanda_itens
		WHERE comanda_id = $1 AND produto_id = $2 AND status = $3
		LIMIT 1`
	i, err := scanComandaItem(r.q.QueryRow(ctx, query, comandaID, produtoID, entity.ItemPendente))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item pendente: %w", err)
	}
	return i, nil
}

// ListarItens lista os itens da comanda; status vazio não filtra.
func (r *ComandaRepo) ListarItens(ctx context.Context, comandaID, status string) ([]*entity.ComandaItem, error) {
	query := `
		SELECT id, comanda_id, produto_id, quantidade, preco_unit, status, created_at, updated_at
		FROM comanda_itens WHERE comanda_id = $1`
	args := []any{comandaID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY created_at"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar itens: %w", err)
	}
	defer rows.Close()
	var list []*entity.ComandaItem
	for rows.Next() {
		i, err := scanComandaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// SomaPendentes soma as quantidades pendentes do produto em todas as
// comandas abertas.
func (r *ComandaRepo) SomaPendentes(ctx context.Context, produtoID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(i.quantidade), 0)
		FROM comanda_itens i
		JOIN comandas c ON c.id = i.comanda_id
		WHERE i.produto_id = $1 AND i.status = $2 AND c.status = $3`
	var soma decimal.Decimal
	err := r.q.QueryRow(ctx, query, produtoID, entity.ItemPendente, entity.ComandaAberta).Scan(&soma)
	if err != nil {
		return decimal.Zero, fmt.Errorf("soma pendentes: %w", err)
	}
	return soma, nil
}

// SomaPendentesDaComanda restringe a soma a uma comanda específica.
func (r *ComandaRepo) SomaPendentesDaComanda(ctx context.Context, produtoID, comandaID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantidade), 0)
		FROM comanda_itens
		WHERE produto_id = $1 AND comanda_id = $2 AND status = $3`
	var soma decimal.Decimal
	err := r.q.QueryRow(ctx, query, produtoID, comandaID, entity.ItemPendente).Scan(&soma)
	if err != nil {
		return decimal.Zero, fmt.Errorf("soma pendentes da comanda: %w", err)
	}
	return soma, nil
}

// AtualizarStatusItens move todos os itens da comanda de um status para outro.
func (r *ComandaRepo) AtualizarStatusItens(ctx context.Context, comandaID, de, para string) error {
	query := `UPDATE comanda_itens SET status = $3, updated_at = now() WHERE comanda_id = $1 AND status = $2`
	if _, err := r.q.Exec(ctx, query, comandaID, de, para); err != nil {
		return fmt.Errorf("atualizar status itens: %w", err)
	}
	return nil
}

func scanComandaItem(row pgxScanner) (*entity.ComandaItem, error) {
	var i entity.ComandaItem
	err := row.Scan(
		&i.ID, &i.ComandaID, &i.ProdutoID, &i.Quantidade,
		&i.PrecoUnit, &i.Status, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
