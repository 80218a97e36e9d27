package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/dto"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
)

// responderErro traduz erros de domínio para status HTTP. Erros tipados
// carregam o detalhe itemizado no corpo; o resto vira 500 genérico.
func responderErro(c *fiber.Ctx, err error) error {
	var estoque *domain.EstoqueInsuficienteError
	if errors.As(err, &estoque) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "ESTOQUE_INSUFICIENTE",
			Message: estoque.Error(),
			Detalhe: fiber.Map{
				"produto_id": estoque.ProdutoID,
				"solicitado": estoque.Solicitado,
				"disponivel": estoque.Disponivel,
				"faltam":     estoque.Faltam(),
			},
		})
	}

	var reversao *domain.EstoqueInsuficienteReversaoError
	if errors.As(err, &reversao) {
		itens := make([]fiber.Map, 0, len(reversao.Itens))
		for _, it := range reversao.Itens {
			itens = append(itens, fiber.Map{
				"produto_id": it.ProdutoID,
				"produto":    it.ProdutoNome,
				"necessario": it.Necessario,
				"disponivel": it.Disponivel,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "REVERSAO_BLOQUEADA",
			Message: reversao.Error(),
			Detalhe: itens,
		})
	}

	var conflito *domain.ConflitoConcorrenciaError
	if errors.As(err, &conflito) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CONFLITO_CONCORRENCIA",
			Message: conflito.Error(),
		})
	}

	var rejeicao *domain.RejeicaoFiscalError
	if errors.As(err, &rejeicao) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "REJEICAO_FISCAL",
			Message: rejeicao.Error(),
			Detalhe: fiber.Map{"codigo_status": rejeicao.CodigoStatus, "motivo": rejeicao.Motivo},
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrComandaFechada), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrSerieDesconhecida):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "SERIE_DESCONHECIDA", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
