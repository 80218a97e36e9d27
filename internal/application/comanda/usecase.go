package comanda

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/estoque"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/logger"
)

// UseCase cobre o ciclo da comanda: abrir, adicionar/crescer item (reserva
// consultiva), fechar (baixa de estoque + venda) e cancelar (liberação).
type UseCase struct {
	comandaRepo repository.ComandaRepository
	produtoRepo repository.ProdutoRepository
	vendaRepo   repository.VendaRepository
	reservas    *AgregadorReservas
	ledger      *estoque.Ledger
	clock       domain.Clock
	log         *logger.Logger
}

// NewUseCase constrói o caso de uso de comandas.
func NewUseCase(
	comandaRepo repository.ComandaRepository,
	produtoRepo repository.ProdutoRepository,
	vendaRepo repository.VendaRepository,
	reservas *AgregadorReservas,
	ledger *estoque.Ledger,
	clock domain.Clock,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		comandaRepo: comandaRepo,
		produtoRepo: produtoRepo,
		vendaRepo:   vendaRepo,
		reservas:    reservas,
		ledger:      ledger,
		clock:       clock,
		log:         log,
	}
}

// Abrir cria uma comanda vazia.
func (uc *UseCase) Abrir(ctx context.Context, numero int64, cliente, usuarioID string) (*entity.Comanda, error) {
	c := &entity.Comanda{
		ID:        uuid.New().String(),
		Numero:    numero,
		Cliente:   cliente,
		Status:    entity.ComandaAberta,
		UsuarioID: usuarioID,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.comandaRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AdicionarItem adiciona quantidade de um produto à comanda. Se já existe
// item pendente do produto, a quantidade cresce no item existente. A
// validação considera o que esta comanda já reservou mais o que as demais
// comandas têm pendente.
func (uc *UseCase) AdicionarItem(ctx context.Context, comandaID, produtoID string, quantidade decimal.Decimal, usuarioID string) (*entity.ComandaItem, error) {
	if !quantidade.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	c, produto, err := uc.comandaAberta(ctx, comandaID, produtoID)
	if err != nil {
		return nil, err
	}

	existente, err := uc.comandaRepo.GetItemPendente(ctx, c.ID, produto.ID)
	if err != nil {
		return nil, err
	}
	total := quantidade
	if existente != nil {
		total = existente.Quantidade.Add(quantidade)
	}
	if err := uc.reservas.ValidarQuantidade(ctx, produto, c.ID, total); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if existente != nil {
		existente.Quantidade = total
		existente.UpdatedAt = now
		if err := uc.comandaRepo.AtualizarItem(ctx, existente); err != nil {
			return nil, err
		}
		return existente, nil
	}
	item := &entity.ComandaItem{
		ID:         uuid.New().String(),
		ComandaID:  c.ID,
		ProdutoID:  produto.ID,
		Quantidade: quantidade,
		PrecoUnit:  produto.PrecoVenda,
		Status:     entity.ItemPendente,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.comandaRepo.CriarItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AtualizarQuantidade define a nova quantidade de um item pendente, validando
// contra o disponível (que soma de volta a reserva atual do próprio item).
func (uc *UseCase) AtualizarQuantidade(ctx context.Context, comandaID, itemID string, quantidade decimal.Decimal) (*entity.ComandaItem, error) {
	if !quantidade.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.comandaRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.ComandaID != comandaID {
		return nil, domain.ErrNotFound
	}
	if item.Status != entity.ItemPendente {
		return nil, domain.ErrConflict
	}
	produto, err := uc.produtoRepo.GetByID(ctx, item.ProdutoID)
	if err != nil {
		return nil, err
	}
	if produto == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.reservas.ValidarQuantidade(ctx, produto, comandaID, quantidade); err != nil {
		return nil, err
	}

	item.Quantidade = quantidade
	item.UpdatedAt = uc.clock.Now()
	if err := uc.comandaRepo.AtualizarItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Fechar fatura a comanda: os itens pendentes viram SAIDA_VENDA no ledger
// (checagem dura de saldo, que pode falhar mesmo depois das consultas
// consultivas terem passado), a venda é criada e a comanda fecha. A baixa é
// idempotente pela referência da comanda: refazer o fechamento após falha
// parcial não duplica a saída.
func (uc *UseCase) Fechar(ctx context.Context, comandaID, formaPagamento, usuarioID string) (*entity.Venda, error) {
	c, err := uc.comandaRepo.GetByID(ctx, comandaID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.Status != entity.ComandaAberta {
		return nil, domain.ErrComandaFechada
	}
	itens, err := uc.comandaRepo.ListarItens(ctx, c.ID, entity.ItemPendente)
	if err != nil {
		return nil, err
	}
	if len(itens) == 0 {
		return nil, domain.ErrInvalidInput
	}

	total := decimal.Zero
	var lote []estoque.ItemLote
	for _, item := range itens {
		total = total.Add(item.Subtotal())
		produto, err := uc.produtoRepo.GetByID(ctx, item.ProdutoID)
		if err != nil {
			return nil, err
		}
		if produto == nil {
			return nil, domain.ErrNotFound
		}
		// Produto sem controle de estoque fatura sem movimentação.
		if !produto.ControlaEstoque {
			continue
		}
		lote = append(lote, estoque.ItemLote{
			ProdutoID:  item.ProdutoID,
			Quantidade: item.Quantidade,
			CustoUnit:  produto.PrecoCusto,
		})
	}

	if len(lote) > 0 {
		ref := domain.Referencia{Tipo: domain.RefComanda, ID: c.ID}
		resultado, err := uc.ledger.AplicarLoteIdempotente(ctx, ref, entity.ClasseSaidaVenda, lote, usuarioID)
		if err != nil {
			return nil, err
		}
		if resultado.JaProcessado {
			uc.log.Warn().Str("comanda_id", c.ID).
				Msg("baixa de estoque já registrada para a comanda; seguindo fechamento")
		}
	}

	if err := uc.comandaRepo.AtualizarStatusItens(ctx, c.ID, entity.ItemPendente, entity.ItemFaturado); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	venda := &entity.Venda{
		ID:             uuid.New().String(),
		ComandaID:      c.ID,
		ValorTotal:     total,
		FormaPagamento: formaPagamento,
		StatusFiscal:   entity.FiscalPendente,
		UsuarioID:      usuarioID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.vendaRepo.Create(ctx, venda); err != nil {
		return nil, err
	}
	c.Status = entity.ComandaFechada
	c.FechadaEm = &now
	if err := uc.comandaRepo.Atualizar(ctx, c); err != nil {
		return nil, err
	}
	return venda, nil
}

// Cancelar libera os itens pendentes sem gerar movimento e cancela a
// comanda. Reserva consultiva só existe enquanto o item está pendente, então
// liberar é só mudança de status.
func (uc *UseCase) Cancelar(ctx context.Context, comandaID string) error {
	c, err := uc.comandaRepo.GetByID(ctx, comandaID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if c.Status != entity.ComandaAberta {
		return domain.ErrComandaFechada
	}
	if err := uc.comandaRepo.AtualizarStatusItens(ctx, c.ID, entity.ItemPendente, entity.ItemLiberado); err != nil {
		return err
	}
	c.Status = entity.ComandaCancelada
	if err := uc.comandaRepo.Atualizar(ctx, c); err != nil {
		return err
	}
	return nil
}

// comandaAberta carrega comanda aberta + produto ativo, com os erros padrão.
func (uc *UseCase) comandaAberta(ctx context.Context, comandaID, produtoID string) (*entity.Comanda, *entity.Produto, error) {
	c, err := uc.comandaRepo.GetByID(ctx, comandaID)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, domain.ErrNotFound
	}
	if c.Status != entity.ComandaAberta {
		return nil, nil, domain.ErrComandaFechada
	}
	produto, err := uc.produtoRepo.GetByID(ctx, produtoID)
	if err != nil {
		return nil, nil, err
	}
	if produto == nil || !produto.Ativo {
		return nil, nil, domain.ErrNotFound
	}
	return c, produto, nil
}
