package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status fiscal de uma venda.
const (
	FiscalPendente   = "PENDENTE"
	FiscalEmitida    = "EMITIDA_NFCE"
	FiscalRejeitada  = "REJEITADA"
	FiscalErro       = "ERRO_EMISSAO"
)

// Venda é o documento de saída gerado no fechamento de uma comanda (ou no
// PDV). Guarda o resultado da emissão NFC-e para rastreabilidade.
type Venda struct {
	ID             string
	ComandaID      string
	ValorTotal     decimal.Decimal
	FormaPagamento string
	StatusFiscal   string
	NumeroNFCe     *int64
	ChaveAcesso    string
	Protocolo      string
	MotivoRejeicao string
	UsuarioID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
