package estoque_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/estoque"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/logger"
)

func semearMovimento(t *testing.T, movRepo *movimentoRepoFake, produtoID string, direcao string, qtd int64) {
	t.Helper()
	err := movRepo.Create(context.Background(), &entity.Movimento{
		ID:         produtoID + "-" + direcao + "-" + decimal.NewFromInt(qtd).String(),
		ProdutoID:  produtoID,
		Direcao:    direcao,
		Quantidade: decimal.NewFromInt(qtd),
		Classe:     entity.ClasseEntradaAjuste,
		Status:     entity.MovimentoAplicado,
		Referencia: domain.Referencia{Tipo: domain.RefAjusteManual, ID: "seed"},
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
}

func TestRecomputar_CorrigeSaldoDivergente(t *testing.T) {
	produtoRepo := newProdutoRepoFake(produtoDeTeste("p1", 5))
	movRepo := newMovimentoRepoFake()
	projetor := estoque.NewProjetor(produtoRepo, movRepo, logger.Nop())

	// O log diz 8 (entrada 10, saída 2); o saldo materializado ficou em 5.
	semearMovimento(t, movRepo, "p1", entity.DirecaoEntrada, 10)
	semearMovimento(t, movRepo, "p1", entity.DirecaoSaida, 2)

	div, err := projetor.Recomputar(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, div)

	assert.True(t, div.Cacheado.Equal(decimal.NewFromInt(5)))
	assert.True(t, div.Recontado.Equal(decimal.NewFromInt(8)))
	assert.True(t, div.Corrigido)
	assert.True(t, produtoRepo.saldo("p1").Equal(decimal.NewFromInt(8)),
		"o saldo materializado deve ser sobrescrito pela recontagem")
}

func TestRecomputar_SaldoConsistente_DevolveNil(t *testing.T) {
	produtoRepo := newProdutoRepoFake(produtoDeTeste("p1", 8))
	movRepo := newMovimentoRepoFake()
	projetor := estoque.NewProjetor(produtoRepo, movRepo, logger.Nop())

	semearMovimento(t, movRepo, "p1", entity.DirecaoEntrada, 10)
	semearMovimento(t, movRepo, "p1", entity.DirecaoSaida, 2)

	div, err := projetor.Recomputar(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, div, "saldo consistente não gera divergência")
}

// A recontagem soma TODOS os movimentos, inclusive os com status REVERTIDO:
// o efeito de um revertido é desfeito pelo compensatório no log, não pela
// exclusão do original da soma.
func TestRecomputar_SomaIncluiMovimentosRevertidos(t *testing.T) {
	produtoRepo := newProdutoRepoFake(produtoDeTeste("p1", 0))
	movRepo := newMovimentoRepoFake()
	projetor := estoque.NewProjetor(produtoRepo, movRepo, logger.Nop())

	err := movRepo.Create(context.Background(), &entity.Movimento{
		ID: "m1", ProdutoID: "p1", Direcao: entity.DirecaoEntrada,
		Quantidade: decimal.NewFromInt(10), Classe: entity.ClasseEntradaCompra,
		Status:     entity.MovimentoRevertido,
		Referencia: domain.Referencia{Tipo: domain.RefPedidoCompra, ID: "pc-1"}, RefSeq: 1,
	})
	require.NoError(t, err)
	err = movRepo.Create(context.Background(), &entity.Movimento{
		ID: "m2", ProdutoID: "p1", Direcao: entity.DirecaoSaida,
		Quantidade: decimal.NewFromInt(10), Classe: entity.ClasseSaidaAjuste,
		Status: entity.MovimentoAplicado, Reversao: true, ReverteID: "m1",
		Referencia: domain.Referencia{Tipo: domain.RefPedidoCompra, ID: "pc-1"}, RefSeq: 2,
	})
	require.NoError(t, err)

	div, err := projetor.Recomputar(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, div, "original + compensatório somam zero; saldo zero está consistente")
}

func TestRecomputarTodos_DevolveApenasDivergencias(t *testing.T) {
	consistente := produtoDeTeste("p1", 4)
	divergente := produtoDeTeste("p2", 9)
	produtoRepo := newProdutoRepoFake(consistente, divergente)
	movRepo := newMovimentoRepoFake()
	projetor := estoque.NewProjetor(produtoRepo, movRepo, logger.Nop())

	semearMovimento(t, movRepo, "p1", entity.DirecaoEntrada, 4)
	semearMovimento(t, movRepo, "p2", entity.DirecaoEntrada, 6)

	rec, err := projetor.RecomputarTodos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Verificados)
	require.Len(t, rec.Divergencias, 1)
	assert.Equal(t, "p2", rec.Divergencias[0].ProdutoID)
	assert.True(t, produtoRepo.saldo("p2").Equal(decimal.NewFromInt(6)))
}

func TestRecomputarTodos_IgnoraProdutoSemControleDeEstoque(t *testing.T) {
	servico := produtoDeTeste("srv", 0)
	servico.ControlaEstoque = false
	servico.EstoqueAtual = decimal.NewFromInt(99) // lixo herdado; não deve ser tocado
	produtoRepo := newProdutoRepoFake(servico)
	movRepo := newMovimentoRepoFake()
	projetor := estoque.NewProjetor(produtoRepo, movRepo, logger.Nop())

	rec, err := projetor.RecomputarTodos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Verificados, "produto sem controle não entra na passada")
	assert.Empty(t, rec.Divergencias)
	assert.True(t, produtoRepo.saldo("srv").Equal(decimal.NewFromInt(99)))
}

func TestRecomputar_ProdutoInexistente(t *testing.T) {
	projetor := estoque.NewProjetor(newProdutoRepoFake(), newMovimentoRepoFake(), logger.Nop())
	_, err := projetor.Recomputar(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
