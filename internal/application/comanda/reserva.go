package comanda

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
)

// AgregadorReservas responde "quanto do produto X esta comanda ainda pode
// comprometer" considerando os itens pendentes de todas as outras comandas
// abertas.
//
// A resposta vem de duas leituras independentes e sem lock (saldo e itens
// pendentes): é uma foto consultiva, não garantia sob escritores
// concorrentes. A checagem que vale é refeita no fechamento, quando o item
// vira SAIDA_VENDA de verdade e ainda pode falhar por estoque insuficiente.
// Sob alta concorrência uma sobrevenda eventual continua possível; o negócio
// aceitou essa janela em vez de um lock que o storage não oferece.
type AgregadorReservas struct {
	produtoRepo repository.ProdutoRepository
	comandaRepo repository.ComandaRepository
}

// NewAgregadorReservas constrói o agregador.
func NewAgregadorReservas(produtoRepo repository.ProdutoRepository, comandaRepo repository.ComandaRepository) *AgregadorReservas {
	return &AgregadorReservas{produtoRepo: produtoRepo, comandaRepo: comandaRepo}
}

// Disponibilidade é o resultado da consulta.
type Disponibilidade struct {
	ProdutoID       string
	ControlaEstoque bool
	// Disponivel só tem significado quando ControlaEstoque=true.
	Disponivel decimal.Decimal
}

// DisponivelPara calcula:
//
//	disponível = estoque_atual − Σ pendentes (todas as comandas)
//	           + Σ pendentes da própria comanda excluída
//
// O termo somado de volta evita que uma comanda crescendo o próprio item
// conte a reserva anterior dela mesma duas vezes. Produto sem controle de
// estoque sempre reporta disponível.
func (a *AgregadorReservas) DisponivelPara(ctx context.Context, produtoID, comandaExcluidaID string) (*Disponibilidade, error) {
	produto, err := a.produtoRepo.GetByID(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	if produto == nil {
		return nil, domain.ErrNotFound
	}
	if !produto.ControlaEstoque {
		return &Disponibilidade{ProdutoID: produtoID, ControlaEstoque: false}, nil
	}

	pendentes, err := a.comandaRepo.SomaPendentes(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	disponivel := produto.EstoqueAtual.Sub(pendentes)
	if comandaExcluidaID != "" {
		proprios, err := a.comandaRepo.SomaPendentesDaComanda(ctx, produtoID, comandaExcluidaID)
		if err != nil {
			return nil, err
		}
		disponivel = disponivel.Add(proprios)
	}
	return &Disponibilidade{
		ProdutoID:       produtoID,
		ControlaEstoque: true,
		Disponivel:      disponivel,
	}, nil
}

// ValidarQuantidade rejeita com estoque insuficiente (e déficit exato) se a
// quantidade total desejada pela comanda exceder o disponível para ela.
func (a *AgregadorReservas) ValidarQuantidade(ctx context.Context, produto *entity.Produto, comandaID string, total decimal.Decimal) error {
	if !produto.ControlaEstoque {
		return nil
	}
	disp, err := a.DisponivelPara(ctx, produto.ID, comandaID)
	if err != nil {
		return err
	}
	if total.GreaterThan(disp.Disponivel) {
		return &domain.EstoqueInsuficienteError{
			ProdutoID:   produto.ID,
			ProdutoNome: produto.Nome,
			Solicitado:  total,
			Disponivel:  disp.Disponivel,
		}
	}
	return nil
}
