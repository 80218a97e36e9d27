package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto representa um item do catálogo da distribuidora.
// EstoqueAtual é o saldo materializado: derivado das movimentações e escrito
// somente pelo ledger de estoque (nunca atualizar direto na tabela).
type Produto struct {
	ID              string
	Codigo          string
	Nome            string
	Unidade         string // UN, CX, KG, L, M, FD
	EstoqueAtual    decimal.Decimal
	EstoqueMinimo   decimal.Decimal
	PrecoVenda      decimal.Decimal
	PrecoCusto      decimal.Decimal
	ControlaEstoque bool
	PerfilFiscal    *PerfilFiscal // nil = usar PerfilFiscalPadrao
	Ativo           bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AbaixoDoMinimo indica se o produto entra no relatório de reposição.
func (p *Produto) AbaixoDoMinimo() bool {
	return p.ControlaEstoque && p.EstoqueAtual.LessThanOrEqual(p.EstoqueMinimo)
}
