package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/comanda"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/dto"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// ComandaHandler atende o ciclo da comanda (protegido).
type ComandaHandler struct {
	uc          *comanda.UseCase
	reservas    *comanda.AgregadorReservas
	comandaRepo repository.ComandaRepository
}

// NewComandaHandler constrói o handler.
func NewComandaHandler(uc *comanda.UseCase, reservas *comanda.AgregadorReservas, comandaRepo repository.ComandaRepository) *ComandaHandler {
	return &ComandaHandler{uc: uc, reservas: reservas, comandaRepo: comandaRepo}
}

// Abrir godoc
// @Summary      Abrir comanda
// @Tags         comandas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AbrirComandaRequest  true  "numero, cliente"
// @Success      201   {object}  dto.ComandaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/comandas [post]
func (h *ComandaHandler) Abrir(c *fiber.Ctx) error {
	var in dto.AbrirComandaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	cmd, err := h.uc.Abrir(c.Context(), in.Numero, in.Cliente, GetUserID(c))
	if err != nil {
		return responderErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comandaParaDTO(cmd, nil))
}

// GetByID godoc
// @Summary      Consultar comanda com itens
// @Tags         comandas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID da comanda"
// @Success      200  {object}  dto.ComandaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/comandas/{id} [get]
func (h *ComandaHandler) GetByID(c *fiber.Ctx) error {
	cmd, err := h.comandaRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	if cmd == nil {
		return responderErro(c, domain.ErrNotFound)
	}
	itens, err := h.comandaRepo.ListarItens(c.Context(), cmd.ID, "")
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(comandaParaDTO(cmd, itens))
}

// AdicionarItem godoc
// @Summary      Adicionar item à comanda (reserva consultiva)
// @Description  Adicionar o mesmo produto de novo soma na linha pendente
//
//	existente. A quantidade total precisa caber no disponível
//	(saldo menos reservas pendentes das outras comandas).
//
// @Tags         comandas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID da comanda"
// @Param        body  body  dto.AdicionarItemRequest true  "produto_id, quantidade"
// @Success      201   {object}  dto.ComandaItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/comandas/{id}/itens [post]
func (h *ComandaHandler) AdicionarItem(c *fiber.Ctx) error {
	var in dto.AdicionarItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	item, err := h.uc.AdicionarItem(c.Context(), c.Params("id"), in.ProdutoID, in.Quantidade, GetUserID(c))
	if err != nil {
		return responderErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(itemParaDTO(item))
}

// AtualizarItem godoc
// @Summary      Atualizar quantidade de um item pendente
// @Tags         comandas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                   true  "ID da comanda"
// @Param        itemId  path  string                   true  "ID do item"
// @Param        body    body  dto.AtualizarItemRequest true  "quantidade"
// @Success      200     {object}  dto.ComandaItemResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/comandas/{id}/itens/{itemId} [put]
func (h *ComandaHandler) AtualizarItem(c *fiber.Ctx) error {
	var in dto.AtualizarItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	item, err := h.uc.AtualizarQuantidade(c.Context(), c.Params("id"), c.Params("itemId"), in.Quantidade)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(itemParaDTO(item))
}

// Fechar godoc
// @Summary      Fechar comanda (baixa de estoque + venda)
// @Description  Revalida o saldo contra o estado corrente no fechamento; a
//
//	reserva da comanda é consultiva e não garante a baixa.
//
// @Tags         comandas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID da comanda"
// @Param        body  body  dto.FecharComandaRequest  true  "forma_pagamento"
// @Success      200   {object}  dto.VendaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/comandas/{id}/fechar [post]
func (h *ComandaHandler) Fechar(c *fiber.Ctx) error {
	var in dto.FecharComandaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	venda, err := h.uc.Fechar(c.Context(), c.Params("id"), in.FormaPagamento, GetUserID(c))
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(vendaParaDTO(venda))
}

// Cancelar godoc
// @Summary      Cancelar comanda (libera as reservas)
// @Tags         comandas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID da comanda"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/comandas/{id}/cancelar [post]
func (h *ComandaHandler) Cancelar(c *fiber.Ctx) error {
	if err := h.uc.Cancelar(c.Context(), c.Params("id")); err != nil {
		return responderErro(c, err)
	}
	return c.JSON(fiber.Map{"message": "comanda cancelada"})
}

// Disponibilidade godoc
// @Summary      Saldo disponível de um produto para novas reservas
// @Tags         comandas
// @Security     Bearer
// @Produce      json
// @Param        produtoId  query  string  true   "ID do produto"
// @Param        comanda_id query  string  false  "Comanda cuja reserva própria não conta contra si"
// @Success      200  {object}  dto.DisponibilidadeResponse
// @Router       /api/estoque/disponibilidade [get]
func (h *ComandaHandler) Disponibilidade(c *fiber.Ctx) error {
	produtoID := c.Query("produto_id")
	if produtoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "produto_id obrigatório"})
	}
	disp, err := h.reservas.DisponivelPara(c.Context(), produtoID, c.Query("comanda_id"))
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(dto.DisponibilidadeResponse{
		ProdutoID:       disp.ProdutoID,
		ControlaEstoque: disp.ControlaEstoque,
		Disponivel:      disp.Disponivel,
	})
}

func comandaParaDTO(cmd *entity.Comanda, itens []*entity.ComandaItem) dto.ComandaResponse {
	out := dto.ComandaResponse{
		ID:        cmd.ID,
		Numero:    cmd.Numero,
		Cliente:   cmd.Cliente,
		Status:    cmd.Status,
		CreatedAt: cmd.CreatedAt,
		FechadaEm: cmd.FechadaEm,
	}
	for _, item := range itens {
		out.Itens = append(out.Itens, itemParaDTO(item))
	}
	return out
}

func itemParaDTO(item *entity.ComandaItem) dto.ComandaItemResponse {
	return dto.ComandaItemResponse{
		ID:         item.ID,
		ProdutoID:  item.ProdutoID,
		Quantidade: item.Quantidade,
		PrecoUnit:  item.PrecoUnit,
		Subtotal:   item.Subtotal(),
		Status:     item.Status,
	}
}

func vendaParaDTO(v *entity.Venda) dto.VendaResponse {
	return dto.VendaResponse{
		ID:             v.ID,
		ComandaID:      v.ComandaID,
		ValorTotal:     v.ValorTotal,
		FormaPagamento: v.FormaPagamento,
		StatusFiscal:   v.StatusFiscal,
		NumeroNFCe:     v.NumeroNFCe,
		ChaveAcesso:    v.ChaveAcesso,
		Protocolo:      v.Protocolo,
		MotivoRejeicao: v.MotivoRejeicao,
		CreatedAt:      v.CreatedAt,
	}
}
