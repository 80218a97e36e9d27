package repository

import (
	"context"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
)

// SerieRepository é o port do contador de numeração fiscal. O contador vive
// em uma linha do banco e só muda via CompareAndSwap: "set proximo = novo
// where proximo = esperado". Zero linhas afetadas significa corrida perdida.
type SerieRepository interface {
	Create(ctx context.Context, s *entity.SerieFiscal) error
	Get(ctx context.Context, serie string) (*entity.SerieFiscal, error)
	// CompareAndSwap devolve true se a troca condicional afetou a linha.
	CompareAndSwap(ctx context.Context, serie string, esperado, novo int64) (bool, error)
}
