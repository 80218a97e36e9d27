package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendaResponse venda com o estado fiscal corrente.
type VendaResponse struct {
	ID             string          `json:"id"`
	ComandaID      string          `json:"comanda_id"`
	ValorTotal     decimal.Decimal `json:"valor_total"`
	FormaPagamento string          `json:"forma_pagamento"`
	StatusFiscal   string          `json:"status_fiscal"`
	NumeroNFCe     *int64          `json:"numero_nfce,omitempty"`
	ChaveAcesso    string          `json:"chave_acesso,omitempty"`
	Protocolo      string          `json:"protocolo,omitempty"`
	MotivoRejeicao string          `json:"motivo_rejeicao,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
