package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound          = errors.New("recurso não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("não autorizado")
	ErrForbidden         = errors.New("acesso negado")
	ErrConflict          = errors.New("conflito com o estado atual")
	ErrComandaFechada    = errors.New("comanda não está aberta")
	ErrSerieDesconhecida = errors.New("série fiscal não cadastrada")
)

// EstoqueInsuficienteError indica saída (ou crescimento de reserva) acima do
// saldo disponível. Carrega o déficit exato; nunca se ajusta para zero.
type EstoqueInsuficienteError struct {
	ProdutoID   string
	ProdutoNome string
	Solicitado  decimal.Decimal
	Disponivel  decimal.Decimal
}

func (e *EstoqueInsuficienteError) Error() string {
	return fmt.Sprintf("estoque insuficiente para %s: solicitado %s, disponível %s, faltam %s",
		e.ProdutoNome, e.Solicitado, e.Disponivel, e.Faltam())
}

// Faltam devolve o déficit (solicitado − disponível).
func (e *EstoqueInsuficienteError) Faltam() decimal.Decimal {
	return e.Solicitado.Sub(e.Disponivel)
}

// ItemDeficit é um produto que impediria uma reversão.
type ItemDeficit struct {
	ProdutoID   string
	ProdutoNome string
	Necessario  decimal.Decimal
	Disponivel  decimal.Decimal
}

// EstoqueInsuficienteReversaoError: a reversão deixaria saldo negativo em um
// ou mais produtos. A validação cobre todos os produtos antes de qualquer
// escrita, então o erro sai itemizado e nada foi gravado.
type EstoqueInsuficienteReversaoError struct {
	Referencia Referencia
	Itens      []ItemDeficit
}

func (e *EstoqueInsuficienteReversaoError) Error() string {
	linhas := make([]string, 0, len(e.Itens))
	for _, it := range e.Itens {
		faltam := it.Necessario.Sub(it.Disponivel)
		linhas = append(linhas, fmt.Sprintf("%s: necessário %s, disponível %s, faltam %s",
			it.ProdutoNome, it.Necessario, it.Disponivel, faltam))
	}
	return fmt.Sprintf("não é possível reverter %s/%s, os produtos já foram vendidos: %s",
		e.Referencia.Tipo, e.Referencia.ID, strings.Join(linhas, "; "))
}

// ConflitoConcorrenciaError: o update condicional do contador de série perdeu
// a corrida em todas as tentativas. O fluxo de emissão deve abortar inteiro.
type ConflitoConcorrenciaError struct {
	Serie      string
	Tentativas int
}

func (e *ConflitoConcorrenciaError) Error() string {
	return fmt.Sprintf("conflito de concorrência na série %s após %d tentativas", e.Serie, e.Tentativas)
}

// RejeicaoFiscalError: o gateway recusou o documento (status rejeitado).
// Para fins de devolução do número é tratado igual a erro de transporte.
type RejeicaoFiscalError struct {
	CodigoStatus string
	Motivo       string
}

func (e *RejeicaoFiscalError) Error() string {
	return fmt.Sprintf("NFC-e rejeitada: [%s] %s", e.CodigoStatus, e.Motivo)
}
