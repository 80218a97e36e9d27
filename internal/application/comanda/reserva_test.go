package comanda_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/comanda"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func produtoDeTeste(id string, saldo int64) *entity.Produto {
	return &entity.Produto{
		ID:              id,
		Codigo:          "COD-" + id,
		Nome:            "Produto " + id,
		Unidade:         "UN",
		EstoqueAtual:    decimal.NewFromInt(saldo),
		PrecoVenda:      decimal.NewFromFloat(10),
		ControlaEstoque: true,
		Ativo:           true,
	}
}

func abrirComandaDeTeste(t *testing.T, repo *comandaRepoFake, id string, numero int64) *entity.Comanda {
	t.Helper()
	c := &entity.Comanda{
		ID:        id,
		Numero:    numero,
		Status:    entity.ComandaAberta,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func reservarItem(t *testing.T, repo *comandaRepoFake, comandaID, produtoID string, qtd int64) {
	t.Helper()
	require.NoError(t, repo.CriarItem(context.Background(), &entity.ComandaItem{
		ID:         comandaID + "-" + produtoID,
		ComandaID:  comandaID,
		ProdutoID:  produtoID,
		Quantidade: decimal.NewFromInt(qtd),
		PrecoUnit:  decimal.NewFromFloat(10),
		Status:     entity.ItemPendente,
		CreatedAt:  time.Now(),
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// DisponivelPara: fórmula do disponível
// ──────────────────────────────────────────────────────────────────────────────

// Cenário base: saldo 10, comanda A reservou 4, comanda B reservou 6.
// Sem exclusão o disponível é zero; para a própria comanda a reserva dela
// volta à conta.
func TestDisponivelPara_DescontaPendentesESomaDeVoltaOsProprios(t *testing.T) {
	produtoRepo := newProdutoRepoFake(produtoDeTeste("p1", 10))
	comandaRepo := newComandaRepoFake()
	agregador := comanda.NewAgregadorReservas(produtoRepo, comandaRepo)

	abrirComandaDeTeste(t, comandaRepo, "cmd-a", 1)
	abrirComandaDeTeste(t, comandaRepo, "cmd-b", 2)
	reservarItem(t, comandaRepo, "cmd-a", "p1", 4)
	reservarItem(t, comandaRepo, "cmd-b", "p1", 6)

	geral, err := agregador.DisponivelPara(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.True(t, geral.Disponivel.IsZero(), "10 − (4+6) = 0 para quem chega de fora")

	paraA, err := agregador.DisponivelPara(context.Background(), "p1", "cmd-a")
	require.NoError(t, err)
	assert.True(t, paraA.Disponivel.Equal(decimal.NewFromInt(4)),
		"a comanda A soma de volta a própria reserva: 10 − 10 + 4 = 4")

	paraB, err := agregador.DisponivelPara(context.Background(), "p1", "cmd-b")
	require.NoError(t, err)
	assert.True(t, paraB.Disponivel.Equal(decimal.NewFromInt(6)))
}

func TestDisponivelPara_IgnoraItensDeComandasFechadas(t *testing.T) {
	produtoRepo := newProdutoRepoFake(produtoDeTeste("p1", 10))
	comandaRepo := newComandaRepoFake()
	agregador := comanda.NewAgregadorReservas(produtoRepo, comandaRepo)

	fechada := abrirComandaDeTeste(t, comandaRepo, "cmd-f", 1)
	reservarItem(t, comandaRepo, "cmd-f", "p1", 6)
	fechada.Status = entity.ComandaFechada
	require.NoError(t, comandaRepo.Atualizar(context.Background(), fechada))

	disp, err := agregador.DisponivelPara(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.True(t, disp.Disponivel.Equal(decimal.NewFromInt(10)),
		"item de comanda fechada não é reserva")
}

func TestDisponivelPara_ProdutoSemControleDeEstoque(t *testing.T) {
	servico := produtoDeTeste("srv", 0)
	servico.ControlaEstoque = false
	produtoRepo := newProdutoRepoFake(servico)
	agregador := comanda.NewAgregadorReservas(produtoRepo, newComandaRepoFake())

	disp, err := agregador.DisponivelPara(context.Background(), "srv", "")
	require.NoError(t, err)
	assert.False(t, disp.ControlaEstoque, "produto sem controle sempre reporta disponível")
}

func TestDisponivelPara_ProdutoInexistente(t *testing.T) {
	agregador := comanda.NewAgregadorReservas(newProdutoRepoFake(), newComandaRepoFake())
	_, err := agregador.DisponivelPara(context.Background(), "fantasma", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidarQuantidade
// ──────────────────────────────────────────────────────────────────────────────

func TestValidarQuantidade_ExcedenteFalhaComDeficitExato(t *testing.T) {
	produtoRepo := newProdutoRepoFake(produtoDeTeste("p1", 10))
	comandaRepo := newComandaRepoFake()
	agregador := comanda.NewAgregadorReservas(produtoRepo, comandaRepo)

	abrirComandaDeTeste(t, comandaRepo, "cmd-a", 1)
	abrirComandaDeTeste(t, comandaRepo, "cmd-b", 2)
	reservarItem(t, comandaRepo, "cmd-a", "p1", 4)
	reservarItem(t, comandaRepo, "cmd-b", "p1", 6)

	produto, err := produtoRepo.GetByID(context.Background(), "p1")
	require.NoError(t, err)

	// A comanda A pode ficar com até 4 do produto; 5 excede.
	err = agregador.ValidarQuantidade(context.Background(), produto, "cmd-a", decimal.NewFromInt(5))
	var insuf *domain.EstoqueInsuficienteError
	require.ErrorAs(t, err, &insuf)
	assert.True(t, insuf.Solicitado.Equal(decimal.NewFromInt(5)))
	assert.True(t, insuf.Disponivel.Equal(decimal.NewFromInt(4)))

	assert.NoError(t, agregador.ValidarQuantidade(context.Background(), produto, "cmd-a", decimal.NewFromInt(4)),
		"manter-se no limite da própria reserva é permitido")
}

func TestValidarQuantidade_ProdutoSemControle_SemprePassa(t *testing.T) {
	servico := produtoDeTeste("srv", 0)
	servico.ControlaEstoque = false
	agregador := comanda.NewAgregadorReservas(newProdutoRepoFake(servico), newComandaRepoFake())

	err := agregador.ValidarQuantidade(context.Background(), servico, "cmd-x", decimal.NewFromInt(1000))
	assert.NoError(t, err)
}
