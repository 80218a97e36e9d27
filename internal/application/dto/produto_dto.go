package dto

import "github.com/shopspring/decimal"

// CriarProdutoRequest body para POST /api/produtos.
type CriarProdutoRequest struct {
	Codigo          string           `json:"codigo"`
	Nome            string           `json:"nome"`
	Unidade         string           `json:"unidade"`
	EstoqueMinimo   decimal.Decimal  `json:"estoque_minimo"`
	PrecoVenda      decimal.Decimal  `json:"preco_venda"`
	PrecoCusto      *decimal.Decimal `json:"preco_custo,omitempty"`
	ControlaEstoque *bool            `json:"controla_estoque,omitempty"`
}

// ProdutoResponse produto nas respostas.
type ProdutoResponse struct {
	ID              string          `json:"id"`
	Codigo          string          `json:"codigo"`
	Nome            string          `json:"nome"`
	Unidade         string          `json:"unidade"`
	EstoqueAtual    decimal.Decimal `json:"estoque_atual"`
	EstoqueMinimo   decimal.Decimal `json:"estoque_minimo"`
	PrecoVenda      decimal.Decimal `json:"preco_venda"`
	PrecoCusto      decimal.Decimal `json:"preco_custo"`
	ControlaEstoque bool            `json:"controla_estoque"`
	Ativo           bool            `json:"ativo"`
}
