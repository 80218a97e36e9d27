package comanda_test

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória dos repositórios usados pelo fluxo de comandas.
// ──────────────────────────────────────────────────────────────────────────────

type comandaRepoFake struct {
	mu       sync.Mutex
	comandas map[string]*entity.Comanda
	itens    []*entity.ComandaItem
}

var _ repository.ComandaRepository = (*comandaRepoFake)(nil)

func newComandaRepoFake() *comandaRepoFake {
	return &comandaRepoFake{comandas: make(map[string]*entity.Comanda)}
}

func (r *comandaRepoFake) Create(_ context.Context, c *entity.Comanda) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.comandas {
		if existente.Numero == c.Numero && existente.Status == entity.ComandaAberta {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.comandas[c.ID] = &cp
	return nil
}

func (r *comandaRepoFake) GetByID(_ context.Context, id string) (*entity.Comanda, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comandas[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *comandaRepoFake) Atualizar(_ context.Context, c *entity.Comanda) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comandas[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.comandas[c.ID] = &cp
	return nil
}

func (r *comandaRepoFake) CriarItem(_ context.Context, item *entity.ComandaItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.itens = append(r.itens, &cp)
	return nil
}

func (r *comandaRepoFake) AtualizarItem(_ context.Context, item *entity.ComandaItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existente := range r.itens {
		if existente.ID == item.ID {
			cp := *item
			r.itens[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *comandaRepoFake) GetItem(_ context.Context, itemID string) (*entity.ComandaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.itens {
		if item.ID == itemID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *comandaRepoFake) GetItemPendente(_ context.Context, comandaID, produtoID string) (*entity.ComandaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.itens {
		if item.ComandaID == comandaID && item.ProdutoID == produtoID && item.Status == entity.ItemPendente {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *comandaRepoFake) ListarItens(_ context.Context, comandaID, status string) ([]*entity.ComandaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ComandaItem
	for _, item := range r.itens {
		if item.ComandaID != comandaID {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *comandaRepoFake) SomaPendentes(_ context.Context, produtoID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	soma := decimal.Zero
	for _, item := range r.itens {
		if item.ProdutoID != produtoID || item.Status != entity.ItemPendente {
			continue
		}
		c, ok := r.comandas[item.ComandaID]
		if !ok || c.Status != entity.ComandaAberta {
			continue
		}
		soma = soma.Add(item.Quantidade)
	}
	return soma, nil
}

func (r *comandaRepoFake) SomaPendentesDaComanda(_ context.Context, produtoID, comandaID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	soma := decimal.Zero
	for _, item := range r.itens {
		if item.ComandaID == comandaID && item.ProdutoID == produtoID && item.Status == entity.ItemPendente {
			soma = soma.Add(item.Quantidade)
		}
	}
	return soma, nil
}

func (r *comandaRepoFake) AtualizarStatusItens(_ context.Context, comandaID, de, para string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.itens {
		if item.ComandaID == comandaID && item.Status == de {
			item.Status = para
		}
	}
	return nil
}

type vendaRepoFake struct {
	mu     sync.Mutex
	vendas map[string]*entity.Venda
}

var _ repository.VendaRepository = (*vendaRepoFake)(nil)

func newVendaRepoFake() *vendaRepoFake {
	return &vendaRepoFake{vendas: make(map[string]*entity.Venda)}
}

func (r *vendaRepoFake) Create(_ context.Context, v *entity.Venda) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.vendas[v.ID] = &cp
	return nil
}

func (r *vendaRepoFake) GetByID(_ context.Context, id string) (*entity.Venda, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendas[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *vendaRepoFake) Atualizar(_ context.Context, v *entity.Venda) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vendas[v.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *v
	r.vendas[v.ID] = &cp
	return nil
}

func (r *vendaRepoFake) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vendas)
}

type produtoRepoFake struct {
	mu       sync.Mutex
	produtos map[string]*entity.Produto
}

var _ repository.ProdutoRepository = (*produtoRepoFake)(nil)

func newProdutoRepoFake(produtos ...*entity.Produto) *produtoRepoFake {
	r := &produtoRepoFake{produtos: make(map[string]*entity.Produto)}
	for _, p := range produtos {
		cp := *p
		r.produtos[p.ID] = &cp
	}
	return r
}

func (r *produtoRepoFake) Create(_ context.Context, p *entity.Produto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *produtoRepoFake) GetByID(_ context.Context, id string) (*entity.Produto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.produtos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *produtoRepoFake) GetByIDs(_ context.Context, ids []string) ([]*entity.Produto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Produto
	vistos := make(map[string]bool)
	for _, id := range ids {
		if vistos[id] {
			continue
		}
		vistos[id] = true
		if p, ok := r.produtos[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *produtoRepoFake) ListAtivos(_ context.Context) ([]*entity.Produto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Produto
	for _, p := range r.produtos {
		if p.Ativo {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *produtoRepoFake) AjustarEstoque(_ context.Context, produtoID string, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.produtos[produtoID]
	if !ok {
		return domain.ErrNotFound
	}
	p.EstoqueAtual = p.EstoqueAtual.Add(delta)
	return nil
}

func (r *produtoRepoFake) DefinirEstoque(_ context.Context, produtoID string, quantidade decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.produtos[produtoID]
	if !ok {
		return domain.ErrNotFound
	}
	p.EstoqueAtual = quantidade
	return nil
}

func (r *produtoRepoFake) AtualizarCusto(_ context.Context, produtoID string, custo decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.produtos[produtoID]
	if !ok {
		return domain.ErrNotFound
	}
	p.PrecoCusto = custo
	return nil
}

func (r *produtoRepoFake) saldo(id string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.produtos[id].EstoqueAtual
}

type movimentoRepoFake struct {
	mu         sync.Mutex
	movimentos []*entity.Movimento
}

var _ repository.MovimentoRepository = (*movimentoRepoFake)(nil)

func newMovimentoRepoFake() *movimentoRepoFake {
	return &movimentoRepoFake{}
}

func (r *movimentoRepoFake) Create(_ context.Context, m *entity.Movimento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.movimentos = append(r.movimentos, &cp)
	return nil
}

func (r *movimentoRepoFake) GetByID(_ context.Context, id string) (*entity.Movimento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movimentos {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movimentoRepoFake) Listar(_ context.Context, _ repository.FiltroMovimentos) ([]*entity.Movimento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Movimento, 0, len(r.movimentos))
	for _, m := range r.movimentos {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *movimentoRepoFake) ListarPorReferencia(_ context.Context, ref domain.Referencia, status string, reversao bool) ([]*entity.Movimento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Movimento
	for _, m := range r.movimentos {
		if m.Referencia != ref || m.Reversao != reversao {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RefSeq < out[j].RefSeq })
	return out, nil
}

func (r *movimentoRepoFake) UltimoPorReferencia(_ context.Context, ref domain.Referencia, reversao bool) (*entity.Movimento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ultimo *entity.Movimento
	for _, m := range r.movimentos {
		if m.Referencia != ref || m.Reversao != reversao {
			continue
		}
		if ultimo == nil || m.RefSeq > ultimo.RefSeq {
			ultimo = m
		}
	}
	if ultimo == nil {
		return nil, nil
	}
	cp := *ultimo
	return &cp, nil
}

func (r *movimentoRepoFake) ProximaRefSeq(_ context.Context, ref domain.Referencia) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, m := range r.movimentos {
		if m.Referencia == ref && m.RefSeq > max {
			max = m.RefSeq
		}
	}
	return max + 1, nil
}

func (r *movimentoRepoFake) MarcarStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movimentos {
		if m.ID == id {
			m.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *movimentoRepoFake) SomaDeltas(_ context.Context, produtoID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	soma := decimal.Zero
	for _, m := range r.movimentos {
		if m.ProdutoID == produtoID {
			soma = soma.Add(m.Delta())
		}
	}
	return soma, nil
}

func (r *movimentoRepoFake) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movimentos)
}
