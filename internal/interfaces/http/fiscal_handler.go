package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/fiscal"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// FiscalHandler atende a emissão e consulta de documentos fiscais (protegido).
type FiscalHandler struct {
	emissor   *fiscal.Emissor
	vendaRepo repository.VendaRepository
}

// NewFiscalHandler constrói o handler.
func NewFiscalHandler(emissor *fiscal.Emissor, vendaRepo repository.VendaRepository) *FiscalHandler {
	return &FiscalHandler{emissor: emissor, vendaRepo: vendaRepo}
}

// EmitirNFCe godoc
// @Summary      Emitir NFC-e de uma venda
// @Description  Reserva o próximo número da série e submete ao provedor.
//
//	Rejeição ou falha de transporte devolve o número reservado
//	antes de o erro subir.
//
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID da venda"
// @Success      200  {object}  dto.VendaResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/nfce [post]
func (h *FiscalHandler) EmitirNFCe(c *fiber.Ctx) error {
	venda, err := h.emissor.EmitirNFCe(c.Context(), c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(vendaParaDTO(venda))
}

// GetVenda godoc
// @Summary      Consultar venda e seu estado fiscal
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID da venda"
// @Success      200  {object}  dto.VendaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id} [get]
func (h *FiscalHandler) GetVenda(c *fiber.Ctx) error {
	venda, err := h.vendaRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	if venda == nil {
		return responderErro(c, domain.ErrNotFound)
	}
	return c.JSON(vendaParaDTO(venda))
}
