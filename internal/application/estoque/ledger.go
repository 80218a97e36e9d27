package estoque

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/logger"
)

// Ledger é a fonte da verdade das variações de estoque. Toda mutação grava
// primeiro o movimento e só depois atualiza o saldo materializado: uma queda
// entre as duas escritas deixa resíduo detectável pela reconciliação do
// Projetor. A ordem inversa não é tolerada: saldo sem movimento não é
// reparável.
//
// O banco não oferece transação multi-statement ao chamador; duas chamadas
// concorrentes sobre o mesmo produto podem ler o mesmo saldo e ambas
// passarem na validação. O ledger não finge impedir isso: a duplicata
// absoluta fica proibida onde importa (contador de série, por CAS) e a venda
// refaz a checagem dura no fechamento da comanda.
type Ledger struct {
	produtoRepo repository.ProdutoRepository
	movRepo     repository.MovimentoRepository
	projetor    *Projetor
	clock       domain.Clock
	log         *logger.Logger
}

// NewLedger constrói o ledger de movimentações.
func NewLedger(
	produtoRepo repository.ProdutoRepository,
	movRepo repository.MovimentoRepository,
	projetor *Projetor,
	clock domain.Clock,
	log *logger.Logger,
) *Ledger {
	return &Ledger{
		produtoRepo: produtoRepo,
		movRepo:     movRepo,
		projetor:    projetor,
		clock:       clock,
		log:         log,
	}
}

// MovimentoInput é a entrada para aplicar um movimento avulso.
type MovimentoInput struct {
	ProdutoID  string
	Classe     string
	Quantidade decimal.Decimal
	CustoUnit  decimal.Decimal
	Motivo     string
	Referencia domain.Referencia
	UsuarioID  string
}

// ItemLote é uma linha de um movimento em lote (itens de um pedido de compra
// ou de uma comanda no fechamento).
type ItemLote struct {
	ProdutoID  string
	Quantidade decimal.Decimal
	CustoUnit  decimal.Decimal
}

// ResultadoLote resume um lote aplicado ou revertido. ItensProcessados=0 com
// JaProcessado=true significa replay detectado: nada foi gravado de novo.
type ResultadoLote struct {
	ItensProcessados int
	JaProcessado     bool
	Movimentos       []*entity.Movimento
}

// Aplicar registra um movimento avulso e atualiza o saldo. Para SAIDA o
// saldo corrente precisa cobrir a quantidade, senão falha com o déficit
// exato e zero escritas, nunca ajustando silenciosamente para zero.
func (l *Ledger) Aplicar(ctx context.Context, in MovimentoInput) (*entity.Movimento, error) {
	if !entity.ClasseValida(in.Classe) || in.Classe == entity.ClasseTransferencia {
		return nil, domain.ErrInvalidInput
	}
	direcao, ok := entity.DirecaoDaClasse(in.Classe)
	if !ok || !in.Quantidade.GreaterThan(decimal.Zero) || in.Referencia.Vazia() {
		return nil, domain.ErrInvalidInput
	}

	produto, err := l.produtoRepo.GetByID(ctx, in.ProdutoID)
	if err != nil {
		return nil, err
	}
	if produto == nil {
		return nil, domain.ErrNotFound
	}
	if !produto.ControlaEstoque {
		return nil, domain.ErrInvalidInput
	}

	if direcao == entity.DirecaoSaida && produto.EstoqueAtual.LessThan(in.Quantidade) {
		return nil, &domain.EstoqueInsuficienteError{
			ProdutoID:   produto.ID,
			ProdutoNome: produto.Nome,
			Solicitado:  in.Quantidade,
			Disponivel:  produto.EstoqueAtual,
		}
	}

	refSeq, err := l.movRepo.ProximaRefSeq(ctx, in.Referencia)
	if err != nil {
		return nil, err
	}
	mov := &entity.Movimento{
		ID:         uuid.New().String(),
		ProdutoID:  produto.ID,
		Direcao:    direcao,
		Quantidade: in.Quantidade,
		Classe:     in.Classe,
		Status:     entity.MovimentoAplicado,
		Referencia: in.Referencia,
		RefSeq:     refSeq,
		CustoUnit:  in.CustoUnit,
		Motivo:     in.Motivo,
		UsuarioID:  in.UsuarioID,
		CreatedAt:  l.clock.Now(),
	}
	if err := l.gravar(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// AplicarLoteIdempotente aplica um lote de itens sob uma única referência de
// documento, tolerando retry de usuário e reprocessamento pós-falha: se a
// última aplicação direta da referência ainda está APLICADA, o lote já foi
// processado e a chamada devolve ItensProcessados=0 sem gravar nada. Uma
// reversão posterior reabre a referência para nova aplicação.
//
// É um last-writer-wins sobre duas classes de evento por referência
// (aplicação direta × compensação), não um protocolo exactly-once geral.
func (l *Ledger) AplicarLoteIdempotente(
	ctx context.Context,
	ref domain.Referencia,
	classe string,
	itens []ItemLote,
	usuarioID string,
) (*ResultadoLote, error) {
	if ref.Vazia() || !entity.ClasseValida(classe) || classe == entity.ClasseTransferencia || len(itens) == 0 {
		return nil, domain.ErrInvalidInput
	}
	direcao, ok := entity.DirecaoDaClasse(classe)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	ja, err := l.jaProcessada(ctx, ref)
	if err != nil {
		return nil, err
	}
	if ja {
		l.log.Info().
			Str("ref_tipo", ref.Tipo).Str("ref_id", ref.ID).
			Msg("referência já processada, nenhuma ação necessária")
		return &ResultadoLote{JaProcessado: true}, nil
	}

	produtos, err := l.carregarProdutos(ctx, itens)
	if err != nil {
		return nil, err
	}

	// Validação antes de qualquer escrita: quantidades e, para saída, saldo.
	for _, item := range itens {
		produto := produtos[item.ProdutoID]
		if !item.Quantidade.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if direcao == entity.DirecaoSaida && produto.EstoqueAtual.LessThan(item.Quantidade) {
			return nil, &domain.EstoqueInsuficienteError{
				ProdutoID:   produto.ID,
				ProdutoNome: produto.Nome,
				Solicitado:  item.Quantidade,
				Disponivel:  produto.EstoqueAtual,
			}
		}
	}

	refSeq, err := l.movRepo.ProximaRefSeq(ctx, ref)
	if err != nil {
		return nil, err
	}

	resultado := &ResultadoLote{}
	now := l.clock.Now()
	for _, item := range itens {
		produto := produtos[item.ProdutoID]
		mov := &entity.Movimento{
			ID:         uuid.New().String(),
			ProdutoID:  produto.ID,
			Direcao:    direcao,
			Quantidade: item.Quantidade,
			Classe:     classe,
			Status:     entity.MovimentoAplicado,
			Referencia: ref,
			RefSeq:     refSeq,
			CustoUnit:  item.CustoUnit,
			Motivo:     fmt.Sprintf("%s %s/%s", classe, ref.Tipo, ref.ID),
			UsuarioID:  usuarioID,
			CreatedAt:  now,
		}
		refSeq++
		if err := l.gravar(ctx, mov); err != nil {
			return resultado, err
		}
		// Entrada de compra também atualiza o preço de custo do produto.
		if classe == entity.ClasseEntradaCompra && item.CustoUnit.GreaterThan(decimal.Zero) {
			if err := l.produtoRepo.AtualizarCusto(ctx, produto.ID, item.CustoUnit); err != nil {
				return resultado, err
			}
		}
		resultado.ItensProcessados++
		resultado.Movimentos = append(resultado.Movimentos, mov)
	}
	return resultado, nil
}

// Reverter compensa todos os movimentos diretos ainda aplicados da
// referência. A validação de saldo cobre todos os produtos antes de qualquer
// escrita (tudo-ou-nada na validação; as escritas em si não são atômicas).
// Com déficit em qualquer produto a chamada falha itemizada com zero
// escritas. Reverter de novo, depois de tudo revertido, é no-op.
func (l *Ledger) Reverter(ctx context.Context, ref domain.Referencia, usuarioID string) (*ResultadoLote, error) {
	if ref.Vazia() {
		return nil, domain.ErrInvalidInput
	}
	diretos, err := l.movRepo.ListarPorReferencia(ctx, ref, entity.MovimentoAplicado, false)
	if err != nil {
		return nil, err
	}
	if len(diretos) == 0 {
		l.log.Info().
			Str("ref_tipo", ref.Tipo).Str("ref_id", ref.ID).
			Msg("nenhum movimento aplicado para reverter")
		return &ResultadoLote{}, nil
	}

	ids := make([]string, 0, len(diretos))
	for _, m := range diretos {
		ids = append(ids, m.ProdutoID)
	}
	lista, err := l.produtoRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	produtos := make(map[string]*entity.Produto, len(lista))
	for _, p := range lista {
		produtos[p.ID] = p
	}

	// Reverter uma ENTRADA exige saldo: a compensação é uma SAIDA. O déficit
	// acumula por produto, já que uma referência pode ter vários movimentos
	// do mesmo item.
	necessario := make(map[string]decimal.Decimal)
	for _, m := range diretos {
		if m.Direcao == entity.DirecaoEntrada {
			necessario[m.ProdutoID] = necessario[m.ProdutoID].Add(m.Quantidade)
		}
	}
	var deficits []domain.ItemDeficit
	for produtoID, qtd := range necessario {
		produto := produtos[produtoID]
		if produto == nil {
			return nil, fmt.Errorf("produto %s do movimento não existe mais: %w", produtoID, domain.ErrNotFound)
		}
		if produto.EstoqueAtual.LessThan(qtd) {
			deficits = append(deficits, domain.ItemDeficit{
				ProdutoID:   produto.ID,
				ProdutoNome: produto.Nome,
				Necessario:  qtd,
				Disponivel:  produto.EstoqueAtual,
			})
		}
	}
	if len(deficits) > 0 {
		return nil, &domain.EstoqueInsuficienteReversaoError{Referencia: ref, Itens: deficits}
	}

	refSeq, err := l.movRepo.ProximaRefSeq(ctx, ref)
	if err != nil {
		return nil, err
	}

	resultado := &ResultadoLote{}
	now := l.clock.Now()
	for _, original := range diretos {
		comp := &entity.Movimento{
			ID:         uuid.New().String(),
			ProdutoID:  original.ProdutoID,
			Direcao:    direcaoOposta(original.Direcao),
			Quantidade: original.Quantidade,
			Classe:     classeCompensatoria(original.Direcao),
			Status:     entity.MovimentoAplicado,
			Referencia: ref,
			RefSeq:     refSeq,
			Reversao:   true,
			ReverteID:  original.ID,
			CustoUnit:  original.CustoUnit,
			Motivo:     fmt.Sprintf("Reversão de %s %s/%s", original.Classe, ref.Tipo, ref.ID),
			UsuarioID:  usuarioID,
			CreatedAt:  now,
		}
		refSeq++
		if err := l.gravar(ctx, comp); err != nil {
			return resultado, err
		}
		if err := l.movRepo.MarcarStatus(ctx, original.ID, entity.MovimentoRevertido); err != nil {
			return resultado, err
		}
		resultado.ItensProcessados++
		resultado.Movimentos = append(resultado.Movimentos, comp)
	}
	return resultado, nil
}

// gravar insere o movimento e atualiza o saldo, nesta ordem. Falha no insert
// é fatal para a chamada. Falha só na atualização de saldo NÃO é devolvida:
// o movimento é a verdade, o saldo defasado é resíduo latente que a
// reconciliação repara. Abortar aqui desfaria uma operação de negócio que
// já aconteceu.
func (l *Ledger) gravar(ctx context.Context, mov *entity.Movimento) error {
	if err := l.movRepo.Create(ctx, mov); err != nil {
		return fmt.Errorf("gravar movimento: %w", err)
	}
	if err := l.projetor.AplicarDelta(ctx, mov.ProdutoID, mov.Delta()); err != nil {
		l.log.Error().Err(err).
			Str("movimento_id", mov.ID).
			Str("produto_id", mov.ProdutoID).
			Msg("movimento gravado mas saldo não atualizado; pendente de reconciliação")
	}
	return nil
}

// jaProcessada decide se a referência já teve aplicação direta vigente.
// Fonte primária: o status do último movimento direto. A inferência por
// ordem de eventos (ref_seq da última direta × última compensação) roda como
// checagem de consistência e loga divergência em vez de decidir.
func (l *Ledger) jaProcessada(ctx context.Context, ref domain.Referencia) (bool, error) {
	ultimaDireta, err := l.movRepo.UltimoPorReferencia(ctx, ref, false)
	if err != nil {
		return false, err
	}
	if ultimaDireta == nil {
		return false, nil
	}
	porStatus := ultimaDireta.Status == entity.MovimentoAplicado

	ultimaComp, err := l.movRepo.UltimoPorReferencia(ctx, ref, true)
	if err != nil {
		return false, err
	}
	porOrdem := ultimaComp == nil || ultimaComp.RefSeq < ultimaDireta.RefSeq
	if porStatus != porOrdem {
		l.log.Warn().
			Str("ref_tipo", ref.Tipo).Str("ref_id", ref.ID).
			Bool("por_status", porStatus).Bool("por_ordem", porOrdem).
			Msg("status do movimento diverge da ordem de eventos; usando status")
	}
	return porStatus, nil
}

func (l *Ledger) carregarProdutos(ctx context.Context, itens []ItemLote) (map[string]*entity.Produto, error) {
	ids := make([]string, 0, len(itens))
	for _, item := range itens {
		ids = append(ids, item.ProdutoID)
	}
	lista, err := l.produtoRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	produtos := make(map[string]*entity.Produto, len(lista))
	for _, p := range lista {
		produtos[p.ID] = p
	}
	for _, item := range itens {
		if produtos[item.ProdutoID] == nil {
			return nil, domain.ErrNotFound
		}
	}
	return produtos, nil
}

func direcaoOposta(direcao string) string {
	if direcao == entity.DirecaoEntrada {
		return entity.DirecaoSaida
	}
	return entity.DirecaoEntrada
}

// classeCompensatoria devolve a classe do movimento que desfaz uma direção:
// entrada revertida vira saída de ajuste; saída revertida vira devolução.
func classeCompensatoria(direcaoOriginal string) string {
	if direcaoOriginal == entity.DirecaoEntrada {
		return entity.ClasseSaidaAjuste
	}
	return entity.ClasseEntradaDevolucao
}
