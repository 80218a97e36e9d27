package domain

// Tipos de documento de origem de uma movimentação.
const (
	RefPedidoCompra = "PEDIDO_COMPRA"
	RefComanda      = "COMANDA"
	RefVenda        = "VENDA"
	RefAjusteManual = "AJUSTE_MANUAL"
)

// Referencia identifica o documento de negócio que originou um movimento.
// Serve para rastreabilidade e para a detecção de replay; não é FK no banco.
type Referencia struct {
	Tipo string
	ID   string
}

func (r Referencia) Vazia() bool { return r.Tipo == "" || r.ID == "" }
