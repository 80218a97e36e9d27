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

var _ repository.MovimentoRepository = (*MovimentoRepo)(nil)

const colunasMovimento = `
	id, produto_id, direcao, quantidade, classe, status,
	ref_tipo, ref_id, ref_seq, reversao, reverte_id,
	custo_unit, motivo, usuario_id, created_at`

// MovimentoRepo implementação de MovimentoRepository sobre PostgreSQL
// (usável com pool ou tx). A tabela é append-mostly: INSERT e o UPDATE de
// status são as únicas escritas.
type MovimentoRepo struct {
	q Querier
}

// NewMovimentoRepository constrói o adaptador do log de movimentações.
func NewMovimentoRepository(q Querier) *MovimentoRepo {
	return &MovimentoRepo{q: q}
}

// Create persiste um movimento no log.
func (r *MovimentoRepo) Create(ctx context.Context, m *entity.Movimento) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO estoque_movimentacoes (id, produto_id, direcao, quantidade, classe, status,
			ref_tipo, ref_id, ref_seq, reversao, reverte_id, custo_unit, motivo, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	reverteID := (*string)(nil)
	if m.ReverteID != "" {
		reverteID = &m.ReverteID
	}
	usuarioID := (*string)(nil)
	if m.UsuarioID != "" {
		usuarioID = &m.UsuarioID
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProdutoID, m.Direcao, m.Quantidade, m.Classe, m.Status,
		m.Referencia.Tipo, m.Referencia.ID, m.RefSeq, m.Reversao, reverteID,
		m.CustoUnit, m.Motivo, usuarioID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movimento: %w", err)
	}
	return nil
}

// GetByID obtém um movimento por ID (nil se não existe).
func (r *MovimentoRepo) GetByID(ctx context.Context, id string) (*entity.Movimento, error) {
	query := `SELECT ` + colunasMovimento + ` FROM estoque_movimentacoes WHERE id = $1`
	m, err := scanMovimento(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimento: %w", err)
	}
	return m, nil
}

// Listar devolve o extrato com filtros opcionais, do mais recente ao mais antigo.
func (r *MovimentoRepo) Listar(ctx context.Context, f repository.FiltroMovimentos) ([]*entity.Movimento, error) {
	query := `SELECT ` + colunasMovimento + ` FROM estoque_movimentacoes WHERE 1=1`
	var args []any
	pos := 1
	if f.ProdutoID != "" {
		query += fmt.Sprintf(" AND produto_id = $%d", pos)
		args = append(args, f.ProdutoID)
		pos++
	}
	if f.Classe != "" {
		query += fmt.Sprintf(" AND classe = $%d", pos)
		args = append(args, f.Classe)
		pos++
	}
	if f.RefTipo != "" {
		query += fmt.Sprintf(" AND ref_tipo = $%d", pos)
		args = append(args, f.RefTipo)
		pos++
	}
	if f.RefID != "" {
		query += fmt.Sprintf(" AND ref_id = $%d", pos)
		args = append(args, f.RefID)
		pos++
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar movimentos: %w", err)
	}
	defer rows.Close()
	return collectMovimentos(rows)
}

// ListarPorReferencia devolve os movimentos de uma referência em ordem de
// ref_seq. Status vazio não filtra; reversao escolhe entre compensatórios e
// diretos.
func (r *MovimentoRepo) ListarPorReferencia(ctx context.Context, ref domain.Referencia, status string, reversao bool) ([]*entity.Movimento, error) {
	query := `SELECT ` + colunasMovimento + `
		FROM estoque_movimentacoes
		WHERE ref_tipo = $1 AND ref_id = $2 AND reversao = $3`
	args := []any{ref.Tipo, ref.ID, reversao}
	if status != "" {
		query += " AND status = $4"
		args = append(args, status)
	}
	query += " ORDER BY ref_seq"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar por referencia: %w", err)
	}
	defer rows.Close()
	return collectMovimentos(rows)
}

// UltimoPorReferencia devolve o movimento de maior ref_seq (nil se não há).
func (r *MovimentoRepo) UltimoPorReferencia(ctx context.Context, ref domain.Referencia, reversao bool) (*entity.Movimento, error) {
	query := `SELECT ` + colunasMovimento + `
		FROM estoque_movimentacoes
		WHERE ref_tipo = $1 AND ref_id = $2 AND reversao = $3
		ORDER BY ref_seq DESC LIMIT 1`
	m, err := scanMovimento(r.q.QueryRow(ctx, query, ref.Tipo, ref.ID, reversao))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ultimo por referencia: %w", err)
	}
	return m, nil
}

// ProximaRefSeq devolve max(ref_seq)+1 da referência (1 quando não há nada).
func (r *MovimentoRepo) ProximaRefSeq(ctx context.Context, ref domain.Referencia) (int64, error) {
	query := `
		SELECT COALESCE(MAX(ref_seq), 0) + 1
		FROM estoque_movimentacoes WHERE ref_tipo = $1 AND ref_id = $2`
	var seq int64
	if err := r.q.QueryRow(ctx, query, ref.Tipo, ref.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("proxima ref_seq: %w", err)
	}
	return seq, nil
}

// MarcarStatus troca o status do movimento (APLICADO → REVERTIDO). Única
// mutação permitida na tabela; quantidade e efeito nunca mudam.
func (r *MovimentoRepo) MarcarStatus(ctx context.Context, id, status string) error {
	query := `UPDATE estoque_movimentacoes SET status = $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("marcar status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SomaDeltas soma a variação assinada de todos os movimentos do produto.
// Diretos e compensatórios entram juntos: o líquido é o saldo correto
// independente do status de cada um.
func (r *MovimentoRepo) SomaDeltas(ctx context.Context, produtoID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direcao = 'SAIDA' THEN -quantidade ELSE quantidade END), 0)
		FROM estoque_movimentacoes WHERE produto_id = $1`
	var soma decimal.Decimal
	if err := r.q.QueryRow(ctx, query, produtoID).Scan(&soma); err != nil {
		return decimal.Zero, fmt.Errorf("soma deltas: %w", err)
	}
	return soma, nil
}

func scanMovimento(row pgxScanner) (*entity.Movimento, error) {
	var m entity.Movimento
	var reverteID, usuarioID *string
	err := row.Scan(
		&m.ID, &m.ProdutoID, &m.Direcao, &m.Quantidade, &m.Classe, &m.Status,
		&m.Referencia.Tipo, &m.Referencia.ID, &m.RefSeq, &m.Reversao, &reverteID,
		&m.CustoUnit, &m.Motivo, &usuarioID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reverteID != nil {
		m.ReverteID = *reverteID
	}
	if usuarioID != nil {
		m.UsuarioID = *usuarioID
	}
	return &m, nil
}

func collectMovimentos(rows pgx.Rows) ([]*entity.Movimento, error) {
	var list []*entity.Movimento
	for rows.Next() {
		m, err := scanMovimento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimento: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
