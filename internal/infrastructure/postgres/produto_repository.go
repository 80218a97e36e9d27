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

var _ repository.ProdutoRepository = (*ProdutoRepo)(nil)

const colunasProduto = `
	id, codigo, nome, unidade, estoque_atual, estoque_minimo,
	preco_venda, preco_custo, controla_estoque,
	ncm, cfop, origem, cst_icms, cst_pis, cst_cofins, cest,
	ativo, created_at, updated_at`

// ProdutoRepo implementação de ProdutoRepository sobre PostgreSQL (usável
// com pool ou tx).
type ProdutoRepo struct {
	q Querier
}

// NewProdutoRepository constrói o adaptador de produtos. Passar pool ou tx (Querier).
func NewProdutoRepository(q Querier) *ProdutoRepo {
	return &ProdutoRepo{q: q}
}

// Create persiste um produto novo. Código duplicado vira ErrDuplicate.
func (r *ProdutoRepo) Create(ctx context.Context, p *entity.Produto) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO produtos (id, codigo, nome, unidade, estoque_atual, estoque_minimo,
			preco_venda, preco_custo, controla_estoque,
			ncm, cfop, origem, cst_icms, cst_pis, cst_cofins, cest,
			ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	var ncm, cfop, origem, cstICMS, cstPIS, cstCOFINS, cest *string
	if p.PerfilFiscal != nil {
		ncm, cfop, origem = &p.PerfilFiscal.NCM, &p.PerfilFiscal.CFOP, &p.PerfilFiscal.Origem
		cstICMS, cstPIS, cstCOFINS = &p.PerfilFiscal.CSTICMS, &p.PerfilFiscal.CSTPIS, &p.PerfilFiscal.CSTCOFINS
		if p.PerfilFiscal.CEST != "" {
			cest = &p.PerfilFiscal.CEST
		}
	}
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Codigo, p.Nome, p.Unidade, p.EstoqueAtual, p.EstoqueMinimo,
		p.PrecoVenda, p.PrecoCusto, p.ControlaEstoque,
		ncm, cfop, origem, cstICMS, cstPIS, cstCOFINS, cest,
		p.Ativo, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create produto: %w", err)
	}
	return nil
}

// GetByID obtém um produto por ID (nil se não existe).
func (r *ProdutoRepo) GetByID(ctx context.Context, id string) (*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE id = $1`
	p, err := scanProduto(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get produto: %w", err)
	}
	return p, nil
}

// GetByIDs obtém vários produtos de uma vez (ordem não garantida).
func (r *ProdutoRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Produto, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get produtos por ids: %w", err)
	}
	defer rows.Close()
	var list []*entity.Produto
	for rows.Next() {
		p, err := scanProduto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListAtivos lista os produtos ativos ordenados por nome.
func (r *ProdutoRepo) ListAtivos(ctx context.Context) ([]*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE ativo ORDER BY nome`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar produtos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Produto
	for rows.Next() {
		p, err := scanProduto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// AjustarEstoque soma delta (pode ser negativo) ao saldo materializado.
func (r *ProdutoRepo) AjustarEstoque(ctx context.Context, produtoID string, delta decimal.Decimal) error {
	query := `UPDATE produtos SET estoque_atual = estoque_atual + $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, produtoID, delta)
	if err != nil {
		return fmt.Errorf("ajustar estoque: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DefinirEstoque grava o saldo recomputado (uso da reconciliação).
func (r *ProdutoRepo) DefinirEstoque(ctx context.Context, produtoID string, quantidade decimal.Decimal) error {
	query := `UPDATE produtos SET estoque_atual = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, produtoID, quantidade)
	if err != nil {
		return fmt.Errorf("definir estoque: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AtualizarCusto grava o preço de custo mais recente (entrada por compra).
func (r *ProdutoRepo) AtualizarCusto(ctx context.Context, produtoID string, custo decimal.Decimal) error {
	query := `UPDATE produtos SET preco_custo = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, produtoID, custo)
	if err != nil {
		return fmt.Errorf("atualizar custo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// pgxScanner abstrai pgx.Row e pgx.Rows para reutilizar scanProduto.
type pgxScanner interface {
	Scan(dest ...any) error
}

func scanProduto(row pgxScanner) (*entity.Produto, error) {
	var p entity.Produto
	var ncm, cfop, origem, cstICMS, cstPIS, cstCOFINS, cest *string
	err := row.Scan(
		&p.ID, &p.Codigo, &p.Nome, &p.Unidade, &p.EstoqueAtual, &p.EstoqueMinimo,
		&p.PrecoVenda, &p.PrecoCusto, &p.ControlaEstoque,
		&ncm, &cfop, &origem, &cstICMS, &cstPIS, &cstCOFINS, &cest,
		&p.Ativo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ncm != nil {
		perfil := entity.PerfilFiscal{NCM: *ncm}
		if cfop != nil {
			perfil.CFOP = *cfop
		}
		if origem != nil {
			perfil.Origem = *origem
		}
		if cstICMS != nil {
			perfil.CSTICMS = *cstICMS
		}
		if cstPIS != nil {
			perfil.CSTPIS = *cstPIS
		}
		if cstCOFINS != nil {
			perfil.CSTCOFINS = *cstCOFINS
		}
		if cest != nil {
			perfil.CEST = *cest
		}
		p.PerfilFiscal = &perfil
	}
	return &p, nil
}
