package estoque_test

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
// Fakes em memória dos repositórios, com a mesma semântica de nil-se-não-existe
// das implementações Postgres.
// ──────────────────────────────────────────────────────────────────────────────

type produtoRepoFake struct {
	mu       sync.Mutex
	produtos map[string]*entity.Produto
	// falhaAjuste simula a queda entre o insert do movimento e o update do
	// saldo materializado.
	falhaAjuste error
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
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *produtoRepoFake) AjustarEstoque(_ context.Context, produtoID string, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falhaAjuste != nil {
		return r.falhaAjuste
	}
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

// saldo lê o saldo materializado atual do fake (helper de asserção).
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

func (r *movimentoRepoFake) Listar(_ context.Context, f repository.FiltroMovimentos) ([]*entity.Movimento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Movimento
	for _, m := range r.movimentos {
		if f.ProdutoID != "" && m.ProdutoID != f.ProdutoID {
			continue
		}
		if f.Classe != "" && m.Classe != f.Classe {
			continue
		}
		if f.RefTipo != "" && m.Referencia.Tipo != f.RefTipo {
			continue
		}
		if f.RefID != "" && m.Referencia.ID != f.RefID {
			continue
		}
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

// total conta quantos movimentos o fake armazena (helper de asserção).
func (r *movimentoRepoFake) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movimentos)
}
