package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovimentoRequest body para POST /api/estoque/movimentos.
type MovimentoRequest struct {
	ProdutoID string           `json:"produto_id"`
	Classe    string           `json:"classe"`
	Quantidade decimal.Decimal `json:"quantidade"`
	CustoUnit *decimal.Decimal `json:"custo_unit,omitempty"`
	Motivo    string           `json:"motivo,omitempty"`
	RefTipo   string           `json:"ref_tipo"`
	RefID     string           `json:"ref_id"`
}

// MovimentoResponse um movimento do extrato.
type MovimentoResponse struct {
	ID         string           `json:"id"`
	ProdutoID  string           `json:"produto_id"`
	Direcao    string           `json:"direcao"`
	Classe     string           `json:"classe"`
	Status     string           `json:"status"`
	Quantidade decimal.Decimal  `json:"quantidade"`
	CustoUnit  *decimal.Decimal `json:"custo_unit,omitempty"`
	Motivo     string           `json:"motivo,omitempty"`
	RefTipo    string           `json:"ref_tipo"`
	RefID      string           `json:"ref_id"`
	Reversao   bool             `json:"reversao"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ItemLoteRequest uma linha de entrada/saída em lote.
type ItemLoteRequest struct {
	ProdutoID  string           `json:"produto_id"`
	Quantidade decimal.Decimal  `json:"quantidade"`
	CustoUnit  *decimal.Decimal `json:"custo_unit,omitempty"`
}

// EntradaCompraRequest body para POST /api/pedidos-compra/:id/entrada.
type EntradaCompraRequest struct {
	Itens []ItemLoteRequest `json:"itens"`
}

// LoteResponse resultado de uma aplicação em lote. Em replay de uma
// referência já processada, ItensProcessados vem 0 e JaProcessado true.
type LoteResponse struct {
	ItensProcessados int                 `json:"itens_processados"`
	JaProcessado     bool                `json:"ja_processado"`
	Movimentos       []MovimentoResponse `json:"movimentos,omitempty"`
}

// ReversaoResponse resultado de uma reversão de referência.
type ReversaoResponse struct {
	ItensRevertidos int                 `json:"itens_revertidos"`
	JaRevertido     bool                `json:"ja_revertido"`
	Movimentos      []MovimentoResponse `json:"movimentos,omitempty"`
}

// DivergenciaResponse produto cujo saldo cacheado divergiu da recontagem.
type DivergenciaResponse struct {
	ProdutoID string          `json:"produto_id"`
	Nome      string          `json:"nome"`
	Cacheado  decimal.Decimal `json:"cacheado"`
	Recontado decimal.Decimal `json:"recontado"`
	Corrigido bool            `json:"corrigido"`
}

// ReconciliacaoResponse resultado de POST /api/estoque/reconciliar.
type ReconciliacaoResponse struct {
	ProdutosVerificados int                   `json:"produtos_verificados"`
	Divergencias        []DivergenciaResponse `json:"divergencias"`
}

// EstoqueBaixoResponse linha do relatório de estoque abaixo do mínimo.
type EstoqueBaixoResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Codigo        string          `json:"codigo"`
	Nome          string          `json:"nome"`
	EstoqueAtual  decimal.Decimal `json:"estoque_atual"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo"`
}
