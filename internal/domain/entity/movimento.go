package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
)

// Direções de movimentação.
const (
	DirecaoEntrada = "ENTRADA"
	DirecaoSaida   = "SAIDA"
)

// Classes de movimentação (enum fechado). TODA movimentação de estoque passa
// pelo ledger com uma dessas classes; nada escreve estoque_atual por fora.
const (
	ClasseEntradaCompra    = "ENTRADA_COMPRA"    // entrada por pedido de compra
	ClasseSaidaVenda       = "SAIDA_VENDA"       // saída por venda (comanda ou PDV)
	ClasseEntradaDevolucao = "ENTRADA_DEVOLUCAO" // devolução de cliente
	ClasseSaidaDevolucao   = "SAIDA_DEVOLUCAO"   // devolução para fornecedor
	ClasseEntradaAjuste    = "ENTRADA_AJUSTE"    // ajuste manual positivo
	ClasseSaidaAjuste      = "SAIDA_AJUSTE"      // ajuste manual negativo
	ClasseSaidaPerda       = "SAIDA_PERDA"       // perdas, avarias, quebras
	ClasseTransferencia    = "TRANSFERENCIA"     // entre depósitos
)

// Status de um movimento. Fonte primária do estado do evento; a inferência
// por última-entrada × última-reversão vira só checagem de consistência.
const (
	MovimentoAplicado  = "APLICADO"
	MovimentoRevertido = "REVERTIDO"
)

// DirecaoDaClasse devolve a direção implícita de uma classe de movimento.
func DirecaoDaClasse(classe string) (string, bool) {
	switch classe {
	case ClasseEntradaCompra, ClasseEntradaDevolucao, ClasseEntradaAjuste:
		return DirecaoEntrada, true
	case ClasseSaidaVenda, ClasseSaidaDevolucao, ClasseSaidaAjuste, ClasseSaidaPerda:
		return DirecaoSaida, true
	}
	return "", false
}

// ClasseValida informa se a string é uma classe do enum fechado.
func ClasseValida(classe string) bool {
	switch classe {
	case ClasseEntradaCompra, ClasseSaidaVenda, ClasseEntradaDevolucao,
		ClasseSaidaDevolucao, ClasseEntradaAjuste, ClasseSaidaAjuste,
		ClasseSaidaPerda, ClasseTransferencia:
		return true
	}
	return false
}

// Movimento é um registro imutável do ledger: uma variação assinada de
// quantidade contra um produto, com motivo e referência ao documento de
// origem. Nunca é apagado; o efeito é desfeito por um movimento compensatório
// (Reversao=true, ReverteID apontando para o original) e o original recebe
// status REVERTIDO.
type Movimento struct {
	ID         string
	ProdutoID  string
	Direcao    string // ENTRADA | SAIDA
	Quantidade decimal.Decimal // sempre > 0; o sinal vem da direção
	Classe     string
	Status     string // APLICADO | REVERTIDO
	Referencia domain.Referencia
	RefSeq     int64 // sequência monotônica por referência; ordena replay sem depender de relógio
	Reversao   bool
	ReverteID  string
	CustoUnit  decimal.Decimal
	Motivo     string
	UsuarioID  string
	CreatedAt  time.Time
}

// Delta devolve a variação assinada que o movimento aplica ao saldo.
func (m *Movimento) Delta() decimal.Decimal {
	if m.Direcao == DirecaoSaida {
		return m.Quantidade.Neg()
	}
	return m.Quantidade
}
