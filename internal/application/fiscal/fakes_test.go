package fiscal_test

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/fiscal"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// serieRepoFake: contador em memória com CAS protegido por mutex, espelhando
// a semântica do update condicional no banco.
// ──────────────────────────────────────────────────────────────────────────────

type serieRepoFake struct {
	mu     sync.Mutex
	series map[string]*entity.SerieFiscal
	// casSempreFalha simula corrida perdida em toda tentativa.
	casSempreFalha bool
	// falhaCAS, se não-nil, é devolvido por CompareAndSwap.
	falhaCAS error
}

var _ repository.SerieRepository = (*serieRepoFake)(nil)

func newSerieRepoFake(serie string, proximo int64) *serieRepoFake {
	return &serieRepoFake{
		series: map[string]*entity.SerieFiscal{
			serie: {Serie: serie, ProximoNumero: proximo},
		},
	}
}

func (r *serieRepoFake) Create(_ context.Context, s *entity.SerieFiscal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.series[s.Serie]; ok {
		return domain.ErrDuplicate
	}
	cp := *s
	r.series[s.Serie] = &cp
	return nil
}

func (r *serieRepoFake) Get(_ context.Context, serie string) (*entity.SerieFiscal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[serie]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *serieRepoFake) CompareAndSwap(_ context.Context, serie string, esperado, novo int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falhaCAS != nil {
		return false, r.falhaCAS
	}
	if r.casSempreFalha {
		return false, nil
	}
	s, ok := r.series[serie]
	if !ok || s.ProximoNumero != esperado {
		return false, nil
	}
	s.ProximoNumero = novo
	return true, nil
}

func (r *serieRepoFake) proximo(serie string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.series[serie].ProximoNumero
}

// ──────────────────────────────────────────────────────────────────────────────
// vendaRepoFake
// ──────────────────────────────────────────────────────────────────────────────

type vendaRepoFake struct {
	mu     sync.Mutex
	vendas map[string]*entity.Venda
	// falhaAtualizar simula o banco fora do ar na persistência do desfecho.
	falhaAtualizar error
}

var _ repository.VendaRepository = (*vendaRepoFake)(nil)

func newVendaRepoFake(vendas ...*entity.Venda) *vendaRepoFake {
	r := &vendaRepoFake{vendas: make(map[string]*entity.Venda)}
	for _, v := range vendas {
		cp := *v
		r.vendas[v.ID] = &cp
	}
	return r
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
	if r.falhaAtualizar != nil {
		return r.falhaAtualizar
	}
	if _, ok := r.vendas[v.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *v
	r.vendas[v.ID] = &cp
	return nil
}

func (r *vendaRepoFake) estado(id string) *entity.Venda {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.vendas[id]
	return &cp
}

// ──────────────────────────────────────────────────────────────────────────────
// comandaRepoFake: o emissor só usa ListarItens; o resto não é alcançado.
// ──────────────────────────────────────────────────────────────────────────────

var errNaoImplementado = errors.New("não usado pelo emissor")

type comandaRepoFake struct {
	itens map[string][]*entity.ComandaItem // por comanda
}

var _ repository.ComandaRepository = (*comandaRepoFake)(nil)

func newComandaRepoFake() *comandaRepoFake {
	return &comandaRepoFake{itens: make(map[string][]*entity.ComandaItem)}
}

func (r *comandaRepoFake) adicionarItem(item *entity.ComandaItem) {
	r.itens[item.ComandaID] = append(r.itens[item.ComandaID], item)
}

func (r *comandaRepoFake) ListarItens(_ context.Context, comandaID, status string) ([]*entity.ComandaItem, error) {
	var out []*entity.ComandaItem
	for _, item := range r.itens[comandaID] {
		if status != "" && item.Status != status {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *comandaRepoFake) Create(context.Context, *entity.Comanda) error { return errNaoImplementado }
func (r *comandaRepoFake) GetByID(context.Context, string) (*entity.Comanda, error) {
	return nil, errNaoImplementado
}
func (r *comandaRepoFake) Atualizar(context.Context, *entity.Comanda) error {
	return errNaoImplementado
}
func (r *comandaRepoFake) CriarItem(context.Context, *entity.ComandaItem) error {
	return errNaoImplementado
}
func (r *comandaRepoFake) AtualizarItem(context.Context, *entity.ComandaItem) error {
	return errNaoImplementado
}
func (r *comandaRepoFake) GetItem(context.Context, string) (*entity.ComandaItem, error) {
	return nil, errNaoImplementado
}
func (r *comandaRepoFake) GetItemPendente(context.Context, string, string) (*entity.ComandaItem, error) {
	return nil, errNaoImplementado
}
func (r *comandaRepoFake) SomaPendentes(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, errNaoImplementado
}
func (r *comandaRepoFake) SomaPendentesDaComanda(context.Context, string, string) (decimal.Decimal, error) {
	return decimal.Zero, errNaoImplementado
}
func (r *comandaRepoFake) AtualizarStatusItens(context.Context, string, string, string) error {
	return errNaoImplementado
}

// ──────────────────────────────────────────────────────────────────────────────
// produtoRepoFake: só leitura por ID.
// ──────────────────────────────────────────────────────────────────────────────

type produtoRepoFake struct {
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

func (r *produtoRepoFake) GetByID(_ context.Context, id string) (*entity.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *produtoRepoFake) Create(context.Context, *entity.Produto) error { return errNaoImplementado }
func (r *produtoRepoFake) GetByIDs(context.Context, []string) ([]*entity.Produto, error) {
	return nil, errNaoImplementado
}
func (r *produtoRepoFake) ListAtivos(context.Context) ([]*entity.Produto, error) {
	return nil, errNaoImplementado
}
func (r *produtoRepoFake) AjustarEstoque(context.Context, string, decimal.Decimal) error {
	return errNaoImplementado
}
func (r *produtoRepoFake) DefinirEstoque(context.Context, string, decimal.Decimal) error {
	return errNaoImplementado
}
func (r *produtoRepoFake) AtualizarCusto(context.Context, string, decimal.Decimal) error {
	return errNaoImplementado
}

// ──────────────────────────────────────────────────────────────────────────────
// gatewayFake: registra o documento recebido e devolve o desfecho configurado.
// ──────────────────────────────────────────────────────────────────────────────

type gatewayFake struct {
	mu        sync.Mutex
	chamadas  int
	ultimoDoc *fiscal.DocumentoNFCe
	resposta  *fiscal.Autorizacao
	erro      error
}

var _ fiscal.Gateway = (*gatewayFake)(nil)

func (g *gatewayFake) EmitirNFCe(_ context.Context, doc *fiscal.DocumentoNFCe) (*fiscal.Autorizacao, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chamadas++
	cp := *doc
	g.ultimoDoc = &cp
	if g.erro != nil {
		return nil, g.erro
	}
	return g.resposta, nil
}
