package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AbrirComandaRequest body para POST /api/comandas.
type AbrirComandaRequest struct {
	Numero  int64  `json:"numero"`
	Cliente string `json:"cliente,omitempty"`
}

// AdicionarItemRequest body para POST /api/comandas/:id/itens.
type AdicionarItemRequest struct {
	ProdutoID  string          `json:"produto_id"`
	Quantidade decimal.Decimal `json:"quantidade"`
}

// AtualizarItemRequest body para PUT /api/comandas/:id/itens/:itemId.
type AtualizarItemRequest struct {
	Quantidade decimal.Decimal `json:"quantidade"`
}

// FecharComandaRequest body para POST /api/comandas/:id/fechar.
type FecharComandaRequest struct {
	FormaPagamento string `json:"forma_pagamento"`
}

// ComandaItemResponse item de comanda nas respostas.
type ComandaItemResponse struct {
	ID         string          `json:"id"`
	ProdutoID  string          `json:"produto_id"`
	Quantidade decimal.Decimal `json:"quantidade"`
	PrecoUnit  decimal.Decimal `json:"preco_unit"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Status     string          `json:"status"`
}

// ComandaResponse comanda com seus itens.
type ComandaResponse struct {
	ID        string                `json:"id"`
	Numero    int64                 `json:"numero"`
	Cliente   string                `json:"cliente,omitempty"`
	Status    string                `json:"status"`
	Itens     []ComandaItemResponse `json:"itens,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	FechadaEm *time.Time            `json:"fechada_em,omitempty"`
}

// DisponibilidadeResponse saldo disponível de um produto considerando as
// reservas pendentes de todas as comandas abertas.
type DisponibilidadeResponse struct {
	ProdutoID       string          `json:"produto_id"`
	ControlaEstoque bool            `json:"controla_estoque"`
	Disponivel      decimal.Decimal `json:"disponivel"`
}
