package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/dto"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// ProdutoHandler atende o cadastro de produtos (protegido).
type ProdutoHandler struct {
	produtoRepo repository.ProdutoRepository
}

// NewProdutoHandler constrói o handler.
func NewProdutoHandler(produtoRepo repository.ProdutoRepository) *ProdutoHandler {
	return &ProdutoHandler{produtoRepo: produtoRepo}
}

// Create godoc
// @Summary      Cadastrar produto
// @Tags         produtos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CriarProdutoRequest  true  "codigo, nome, unidade, preco_venda"
// @Success      201   {object}  dto.ProdutoResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/produtos [post]
func (h *ProdutoHandler) Create(c *fiber.Ctx) error {
	var in dto.CriarProdutoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.Codigo == "" || in.Nome == "" || !in.PrecoVenda.GreaterThan(decimal.Zero) {
		return responderErro(c, domain.ErrInvalidInput)
	}
	if in.Unidade == "" {
		in.Unidade = "UN"
	}
	agora := time.Now()
	p := &entity.Produto{
		ID:              uuid.New().String(),
		Codigo:          in.Codigo,
		Nome:            in.Nome,
		Unidade:         in.Unidade,
		EstoqueMinimo:   in.EstoqueMinimo,
		PrecoVenda:      in.PrecoVenda,
		ControlaEstoque: true,
		Ativo:           true,
		CreatedAt:       agora,
		UpdatedAt:       agora,
	}
	if in.PrecoCusto != nil {
		p.PrecoCusto = *in.PrecoCusto
	}
	if in.ControlaEstoque != nil {
		p.ControlaEstoque = *in.ControlaEstoque
	}
	if err := h.produtoRepo.Create(c.Context(), p); err != nil {
		return responderErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(produtoParaDTO(p))
}

// List godoc
// @Summary      Listar produtos ativos
// @Tags         produtos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProdutoResponse
// @Router       /api/produtos [get]
func (h *ProdutoHandler) List(c *fiber.Ctx) error {
	produtos, err := h.produtoRepo.ListAtivos(c.Context())
	if err != nil {
		return responderErro(c, err)
	}
	out := make([]dto.ProdutoResponse, 0, len(produtos))
	for _, p := range produtos {
		out = append(out, produtoParaDTO(p))
	}
	return c.JSON(fiber.Map{"total": len(out), "produtos": out})
}

// GetByID godoc
// @Summary      Consultar produto
// @Tags         produtos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do produto"
// @Success      200  {object}  dto.ProdutoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/produtos/{id} [get]
func (h *ProdutoHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.produtoRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	if p == nil {
		return responderErro(c, domain.ErrNotFound)
	}
	return c.JSON(produtoParaDTO(p))
}

func produtoParaDTO(p *entity.Produto) dto.ProdutoResponse {
	return dto.ProdutoResponse{
		ID:              p.ID,
		Codigo:          p.Codigo,
		Nome:            p.Nome,
		Unidade:         p.Unidade,
		EstoqueAtual:    p.EstoqueAtual,
		EstoqueMinimo:   p.EstoqueMinimo,
		PrecoVenda:      p.PrecoVenda,
		PrecoCusto:      p.PrecoCusto,
		ControlaEstoque: p.ControlaEstoque,
		Ativo:           p.Ativo,
	}
}
