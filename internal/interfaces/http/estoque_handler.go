package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/dto"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/estoque"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// EstoqueHandler atende as rotas de movimentação e reconciliação (protegidas).
type EstoqueHandler struct {
	ledger    *estoque.Ledger
	projetor  *estoque.Projetor
	consultas *estoque.Consultas
}

// NewEstoqueHandler constrói o handler.
func NewEstoqueHandler(ledger *estoque.Ledger, projetor *estoque.Projetor, consultas *estoque.Consultas) *EstoqueHandler {
	return &EstoqueHandler{ledger: ledger, projetor: projetor, consultas: consultas}
}

// RegistrarMovimento godoc
// @Summary      Registrar movimentação avulsa de estoque
// @Tags         estoque
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovimentoRequest  true  "produto_id, classe, quantidade, ref_tipo, ref_id"
// @Success      201   {object}  dto.MovimentoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/estoque/movimentos [post]
func (h *EstoqueHandler) RegistrarMovimento(c *fiber.Ctx) error {
	var in dto.MovimentoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	input := estoque.MovimentoInput{
		ProdutoID:  in.ProdutoID,
		Classe:     in.Classe,
		Quantidade: in.Quantidade,
		Motivo:     in.Motivo,
		Referencia: domain.Referencia{Tipo: in.RefTipo, ID: in.RefID},
		UsuarioID:  GetUserID(c),
	}
	if in.CustoUnit != nil {
		input.CustoUnit = *in.CustoUnit
	}
	mov, err := h.ledger.Aplicar(c.Context(), input)
	if err != nil {
		return responderErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movimentoParaDTO(mov))
}

// ListarMovimentos godoc
// @Summary      Extrato de movimentações
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        produto_id  query  string  false  "Filtrar por produto"
// @Param        classe      query  string  false  "Filtrar por classe"
// @Param        ref_tipo    query  string  false  "Filtrar por tipo de referência"
// @Param        ref_id      query  string  false  "Filtrar por ID de referência"
// @Success      200  {array}  dto.MovimentoResponse
// @Router       /api/estoque/movimentos [get]
func (h *EstoqueHandler) ListarMovimentos(c *fiber.Ctx) error {
	filtro := repository.FiltroMovimentos{
		ProdutoID: c.Query("produto_id"),
		Classe:    c.Query("classe"),
		RefTipo:   c.Query("ref_tipo"),
		RefID:     c.Query("ref_id"),
		Limit:     c.QueryInt("limit"),
	}
	movs, err := h.consultas.Extrato(c.Context(), filtro)
	if err != nil {
		return responderErro(c, err)
	}
	out := make([]dto.MovimentoResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, movimentoParaDTO(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movimentos": out})
}

// EntradaCompra godoc
// @Summary      Entrada de estoque por pedido de compra (idempotente)
// @Description  Reaplicar o mesmo pedido não duplica: a resposta volta com
//
//	itens_processados=0 e ja_processado=true.
//
// @Tags         estoque
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID do pedido de compra"
// @Param        body  body  dto.EntradaCompraRequest true  "itens do pedido"
// @Success      200   {object}  dto.LoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pedidos-compra/{id}/entrada [post]
func (h *EstoqueHandler) EntradaCompra(c *fiber.Ctx) error {
	pedidoID := c.Params("id")
	var in dto.EntradaCompraRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	itens := make([]estoque.ItemLote, 0, len(in.Itens))
	for _, item := range in.Itens {
		lote := estoque.ItemLote{ProdutoID: item.ProdutoID, Quantidade: item.Quantidade}
		if item.CustoUnit != nil {
			lote.CustoUnit = *item.CustoUnit
		}
		itens = append(itens, lote)
	}
	ref := domain.Referencia{Tipo: domain.RefPedidoCompra, ID: pedidoID}
	res, err := h.ledger.AplicarLoteIdempotente(c.Context(), ref, entity.ClasseEntradaCompra, itens, GetUserID(c))
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(loteParaDTO(res))
}

// ReverterCompra godoc
// @Summary      Reverter a entrada de um pedido de compra
// @Description  Grava movimentos compensatórios para cada item aplicado.
//
//	Falha itemizada (409) se algum produto já foi vendido; nesse
//	caso nada é gravado. Segunda chamada é no-op.
//
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do pedido de compra"
// @Success      200  {object}  dto.ReversaoResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pedidos-compra/{id}/reversao [post]
func (h *EstoqueHandler) ReverterCompra(c *fiber.Ctx) error {
	ref := domain.Referencia{Tipo: domain.RefPedidoCompra, ID: c.Params("id")}
	res, err := h.ledger.Reverter(c.Context(), ref, GetUserID(c))
	if err != nil {
		return responderErro(c, err)
	}
	// Zero itens revertidos significa que não havia movimento aplicado na
	// referência (já revertida ou nunca aplicada).
	out := dto.ReversaoResponse{
		ItensRevertidos: res.ItensProcessados,
		JaRevertido:     res.ItensProcessados == 0,
	}
	for _, m := range res.Movimentos {
		out.Movimentos = append(out.Movimentos, movimentoParaDTO(m))
	}
	return c.JSON(out)
}

// Reconciliar godoc
// @Summary      Recontar saldos a partir do log de movimentações
// @Description  Corrige o resíduo de falhas parciais (movimento gravado com
//
//	saldo desatualizado) recomputando cada produto controlado.
//
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconciliacaoResponse
// @Router       /api/estoque/reconciliar [post]
func (h *EstoqueHandler) Reconciliar(c *fiber.Ctx) error {
	rec, err := h.projetor.RecomputarTodos(c.Context())
	if err != nil {
		return responderErro(c, err)
	}
	out := dto.ReconciliacaoResponse{
		ProdutosVerificados: rec.Verificados,
		Divergencias:        []dto.DivergenciaResponse{},
	}
	for _, d := range rec.Divergencias {
		out.Divergencias = append(out.Divergencias, dto.DivergenciaResponse{
			ProdutoID: d.ProdutoID,
			Nome:      d.Nome,
			Cacheado:  d.Cacheado,
			Recontado: d.Recontado,
			Corrigido: d.Corrigido,
		})
	}
	return c.JSON(out)
}

// RelatorioEstoqueBaixo godoc
// @Summary      Produtos com saldo igual ou abaixo do mínimo
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.EstoqueBaixoResponse
// @Router       /api/estoque/relatorio-minimo [get]
func (h *EstoqueHandler) RelatorioEstoqueBaixo(c *fiber.Ctx) error {
	produtos, err := h.consultas.EstoqueBaixo(c.Context())
	if err != nil {
		return responderErro(c, err)
	}
	out := make([]dto.EstoqueBaixoResponse, 0, len(produtos))
	for _, p := range produtos {
		out = append(out, dto.EstoqueBaixoResponse{
			ProdutoID:     p.ID,
			Codigo:        p.Codigo,
			Nome:          p.Nome,
			EstoqueAtual:  p.EstoqueAtual,
			EstoqueMinimo: p.EstoqueMinimo,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "produtos": out})
}

func movimentoParaDTO(m *entity.Movimento) dto.MovimentoResponse {
	out := dto.MovimentoResponse{
		ID:         m.ID,
		ProdutoID:  m.ProdutoID,
		Direcao:    m.Direcao,
		Classe:     m.Classe,
		Status:     m.Status,
		Quantidade: m.Quantidade,
		Motivo:     m.Motivo,
		RefTipo:    m.Referencia.Tipo,
		RefID:      m.Referencia.ID,
		Reversao:   m.Reversao,
		CreatedAt:  m.CreatedAt,
	}
	if !m.CustoUnit.IsZero() {
		custo := m.CustoUnit
		out.CustoUnit = &custo
	}
	return out
}

func loteParaDTO(res *estoque.ResultadoLote) dto.LoteResponse {
	out := dto.LoteResponse{
		ItensProcessados: res.ItensProcessados,
		JaProcessado:     res.JaProcessado,
	}
	for _, m := range res.Movimentos {
		out.Movimentos = append(out.Movimentos, movimentoParaDTO(m))
	}
	return out
}
