package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status da comanda.
const (
	ComandaAberta    = "aberta"
	ComandaFechada   = "fechada"
	ComandaCancelada = "cancelada"
)

// Status de um item de comanda. Enquanto "pendente" o item é uma reserva
// consultiva de estoque; "faturado" após virar SAIDA_VENDA no fechamento;
// "liberado" quando a comanda é cancelada sem faturar.
const (
	ItemPendente = "pendente"
	ItemLiberado = "liberado"
	ItemFaturado = "faturado"
)

// Comanda é um contexto de venda aberto (mesa, cliente no balcão).
type Comanda struct {
	ID         string
	Numero     int64
	Cliente    string
	Status     string
	UsuarioID  string
	CreatedAt  time.Time
	FechadaEm  *time.Time
}

// ComandaItem é uma reserva tentativa e não comprometida de quantidade,
// atrelada à comanda aberta. O invariante Σ pendentes ≤ estoque_atual é
// garantido pelo agregador de reservas, não por constraint do banco.
type ComandaItem struct {
	ID         string
	ComandaID  string
	ProdutoID  string
	Quantidade decimal.Decimal
	PrecoUnit  decimal.Decimal
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Subtotal do item (quantidade × preço unitário).
func (i *ComandaItem) Subtotal() decimal.Decimal {
	return i.Quantidade.Mul(i.PrecoUnit)
}
