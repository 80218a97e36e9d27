package fiscal

import (
	"context"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/logger"
)

// Tentativas de CAS antes de declarar conflito de concorrência.
const maxTentativasReserva = 5

// AlocadorSequencia entrega o próximo número de uma série fiscal logo antes
// de uma ação externa que pode falhar. Dois chamadores concorrentes nunca
// recebem o mesmo número: o contador é uma linha do banco avançada por
// update condicional, não um contador em memória. Handlers independentes
// precisam concordar sem lock compartilhado.
type AlocadorSequencia struct {
	serieRepo repository.SerieRepository
	log       *logger.Logger
}

// NewAlocadorSequencia constrói o alocador.
func NewAlocadorSequencia(serieRepo repository.SerieRepository, log *logger.Logger) *AlocadorSequencia {
	return &AlocadorSequencia{serieRepo: serieRepo, log: log}
}

// ReservarProximo lê o contador N e tenta "proximo = N+1 where proximo = N".
// Zero linhas afetadas é corrida perdida: relê e tenta de novo, nunca segue
// com N defasado. Esgotar as tentativas aborta o fluxo de emissão inteiro
// com ConflitoConcorrenciaError, antes de qualquer chamada externa.
func (a *AlocadorSequencia) ReservarProximo(ctx context.Context, serie string) (int64, error) {
	for tentativa := 1; tentativa <= maxTentativasReserva; tentativa++ {
		s, err := a.serieRepo.Get(ctx, serie)
		if err != nil {
			return 0, err
		}
		if s == nil {
			return 0, domain.ErrSerieDesconhecida
		}
		n := s.ProximoNumero
		ok, err := a.serieRepo.CompareAndSwap(ctx, serie, n, n+1)
		if err != nil {
			return 0, err
		}
		if ok {
			return n, nil
		}
		a.log.Debug().Str("serie", serie).Int64("numero", n).Int("tentativa", tentativa).
			Msg("corrida perdida no contador da série, relendo")
	}
	return 0, &domain.ConflitoConcorrenciaError{Serie: serie, Tentativas: maxTentativasReserva}
}

// Devolver recoloca um número consumido por uma tentativa que falhou: só
// volta o contador para n se ele ainda está em n+1 (ninguém avançou desde a
// reserva). Se alguém avançou, o número fica pulado para sempre: lacuna é
// custo aceito, duplicata não é. Falha aqui é logada e engolida: o erro de
// uma compensação não pode mascarar a falha original que a disparou.
//
// Devolve true quando o número voltou ao contador.
func (a *AlocadorSequencia) Devolver(ctx context.Context, serie string, numero int64) bool {
	ok, err := a.serieRepo.CompareAndSwap(ctx, serie, numero+1, numero)
	if err != nil {
		a.log.Error().Err(err).Str("serie", serie).Int64("numero", numero).
			Msg("falha ao devolver número da série; número fica pulado")
		return false
	}
	if !ok {
		a.log.Warn().Str("serie", serie).Int64("numero", numero).
			Msg("contador já avançou; número fica pulado")
		return false
	}
	return true
}
