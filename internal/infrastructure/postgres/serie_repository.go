package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

var _ repository.SerieRepository = (*SerieRepo)(nil)

// SerieRepo implementação de SerieRepository sobre PostgreSQL. O contador
// fica numa linha de series_fiscais e só muda pelo update condicional de
// CompareAndSwap; não há SELECT FOR UPDATE nem lock de aplicação.
type SerieRepo struct {
	q Querier
}

// NewSerieRepository constrói o adaptador de séries fiscais.
func NewSerieRepository(q Querier) *SerieRepo {
	return &SerieRepo{q: q}
}

// Create registra uma série nova com seu primeiro número.
func (r *SerieRepo) Create(ctx context.Context, s *entity.SerieFiscal) error {
	query := `INSERT INTO series_fiscais (serie, proximo_numero, updated_at) VALUES ($1, $2, now())`
	_, err := r.q.Exec(ctx, query, s.Serie, s.ProximoNumero)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create serie: %w", err)
	}
	return nil
}

// Get obtém o contador corrente da série (nil se a série não existe).
func (r *SerieRepo) Get(ctx context.Context, serie string) (*entity.SerieFiscal, error) {
	query := `SELECT serie, proximo_numero, updated_at FROM series_fiscais WHERE serie = $1`
	var s entity.SerieFiscal
	err := r.q.QueryRow(ctx, query, serie).Scan(&s.Serie, &s.ProximoNumero, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serie: %w", err)
	}
	return &s, nil
}

// CompareAndSwap troca proximo_numero de esperado para novo numa única
// instrução. Zero linhas afetadas significa que outro handler mexeu no
// contador primeiro: corrida perdida, o chamador decide se tenta de novo.
func (r *SerieRepo) CompareAndSwap(ctx context.Context, serie string, esperado, novo int64) (bool, error) {
	query := `
		UPDATE series_fiscais SET proximo_numero = $3, updated_at = now()
		WHERE serie = $1 AND proximo_numero = $2`
	tag, err := r.q.Exec(ctx, query, serie, esperado, novo)
	if err != nil {
		return false, fmt.Errorf("cas serie: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
