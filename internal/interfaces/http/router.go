package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/comanda"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/estoque"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/fiscal"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	Ledger      *estoque.Ledger
	Projetor    *estoque.Projetor
	Consultas   *estoque.Consultas
	ComandaUC   *comanda.UseCase
	Reservas    *comanda.AgregadorReservas
	Emissor     *fiscal.Emissor
	ComandaRepo repository.ComandaRepository
	ProdutoRepo repository.ProdutoRepository
	VendaRepo   repository.VendaRepository
	JWTSecret   string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Produtos
	produtos := protected.Group("/produtos")
	produtoHandler := NewProdutoHandler(deps.ProdutoRepo)
	produtos.Post("/", produtoHandler.Create)
	produtos.Get("/", produtoHandler.List)
	produtos.Get("/:id", produtoHandler.GetByID)

	// Estoque (ledger, extrato, reconciliação)
	estoqueGroup := protected.Group("/estoque")
	estoqueHandler := NewEstoqueHandler(deps.Ledger, deps.Projetor, deps.Consultas)
	comandaHandler := NewComandaHandler(deps.ComandaUC, deps.Reservas, deps.ComandaRepo)
	estoqueGroup.Post("/movimentos", estoqueHandler.RegistrarMovimento)
	estoqueGroup.Get("/movimentos", estoqueHandler.ListarMovimentos)
	estoqueGroup.Get("/disponibilidade", comandaHandler.Disponibilidade)
	estoqueGroup.Get("/relatorio-minimo", estoqueHandler.RelatorioEstoqueBaixo)
	// Reconciliação mexe em saldo: restrita a admin/gerente.
	estoqueGroup.Post("/reconciliar", RequireRole("admin", "gerente"), estoqueHandler.Reconciliar)

	// Pedidos de compra (entrada idempotente e reversão)
	pedidos := protected.Group("/pedidos-compra")
	pedidos.Post("/:id/entrada", estoqueHandler.EntradaCompra)
	pedidos.Post("/:id/reversao", RequireRole("admin", "gerente"), estoqueHandler.ReverterCompra)

	// Comandas
	comandas := protected.Group("/comandas")
	comandas.Post("/", comandaHandler.Abrir)
	comandas.Get("/:id", comandaHandler.GetByID)
	comandas.Post("/:id/itens", comandaHandler.AdicionarItem)
	comandas.Put("/:id/itens/:itemId", comandaHandler.AtualizarItem)
	comandas.Post("/:id/fechar", comandaHandler.Fechar)
	comandas.Post("/:id/cancelar", comandaHandler.Cancelar)

	// Vendas e emissão fiscal
	vendas := protected.Group("/vendas")
	fiscalHandler := NewFiscalHandler(deps.Emissor, deps.VendaRepo)
	vendas.Get("/:id", fiscalHandler.GetVenda)
	vendas.Post("/:id/nfce", fiscalHandler.EmitirNFCe)
}
