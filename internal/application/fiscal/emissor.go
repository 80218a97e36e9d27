package fiscal

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/entity"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain/repository"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/logger"
)

// ItemNFCe é uma linha do documento enviada ao gateway.
type ItemNFCe struct {
	Codigo        string
	Descricao     string
	Unidade       string
	Quantidade    decimal.Decimal
	ValorUnitario decimal.Decimal
	Perfil        entity.PerfilFiscal
}

// DocumentoNFCe é o documento submetido ao provedor. O cálculo das alíquotas
// é do provedor; aqui só vão os dados cadastrais e o perfil fiscal.
type DocumentoNFCe struct {
	Serie          string
	Numero         int64
	VendaID        string
	FormaPagamento string
	ValorTotal     decimal.Decimal
	Itens          []ItemNFCe
}

// Autorizacao é o retorno de uma submissão aceita pela SEFAZ.
type Autorizacao struct {
	ChaveAcesso string
	Protocolo   string
}

// Gateway é o provedor de emissão em nuvem. Rejeição da SEFAZ chega como
// *domain.RejeicaoFiscalError; qualquer outro erro é falha de transporte.
// Os dois casos disparam a devolução do número reservado.
type Gateway interface {
	EmitirNFCe(ctx context.Context, doc *DocumentoNFCe) (*Autorizacao, error)
}

// Config do emissor.
type Config struct {
	Serie   string        // série padrão dos documentos (ex: "NFCE")
	Timeout time.Duration // orçamento da chamada ao gateway
}

// Emissor orquestra a emissão: reserva o número da série, submete ao
// gateway dentro do orçamento de tempo e, em rejeição ou falha de
// transporte, devolve o número antes de propagar o erro.
type Emissor struct {
	vendaRepo   repository.VendaRepository
	comandaRepo repository.ComandaRepository
	produtoRepo repository.ProdutoRepository
	sequencia   *AlocadorSequencia
	gateway     Gateway
	cfg         Config
	log         *logger.Logger
}

// NewEmissor constrói o emissor de NFC-e.
func NewEmissor(
	vendaRepo repository.VendaRepository,
	comandaRepo repository.ComandaRepository,
	produtoRepo repository.ProdutoRepository,
	sequencia *AlocadorSequencia,
	gateway Gateway,
	cfg Config,
	log *logger.Logger,
) *Emissor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Emissor{
		vendaRepo:   vendaRepo,
		comandaRepo: comandaRepo,
		produtoRepo: produtoRepo,
		sequencia:   sequencia,
		gateway:     gateway,
		cfg:         cfg,
		log:         log,
	}
}

// EmitirNFCe emite o documento da venda. O número é reservado imediatamente
// antes da submissão; timeout do gateway conta como falha de transporte e
// também devolve o número.
func (e *Emissor) EmitirNFCe(ctx context.Context, vendaID string) (*entity.Venda, error) {
	venda, err := e.vendaRepo.GetByID(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	if venda == nil {
		return nil, domain.ErrNotFound
	}
	if venda.StatusFiscal == entity.FiscalEmitida {
		return nil, domain.ErrConflict
	}

	doc, err := e.montarDocumento(ctx, venda)
	if err != nil {
		return nil, err
	}

	numero, err := e.sequencia.ReservarProximo(ctx, e.cfg.Serie)
	if err != nil {
		// Sem número não há submissão: o fluxo aborta antes do gateway.
		return nil, err
	}
	doc.Numero = numero

	gctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	aut, err := e.gateway.EmitirNFCe(gctx, doc)
	if err != nil {
		// Rejeição e erro de transporte tratados igual: o número volta (ou
		// fica pulado) antes de o erro subir. A devolução usa o ctx do
		// chamador: o orçamento do gateway pode já ter estourado.
		e.sequencia.Devolver(ctx, e.cfg.Serie, numero)
		e.registrarFalha(ctx, venda, err)
		return nil, err
	}

	venda.NumeroNFCe = &numero
	venda.ChaveAcesso = aut.ChaveAcesso
	venda.Protocolo = aut.Protocolo
	venda.StatusFiscal = entity.FiscalEmitida
	venda.MotivoRejeicao = ""
	if err := e.vendaRepo.Atualizar(ctx, venda); err != nil {
		return nil, err
	}
	e.log.Info().Str("venda_id", venda.ID).Int64("numero", numero).
		Str("chave", aut.ChaveAcesso).Msg("NFC-e autorizada")
	return venda, nil
}

// montarDocumento materializa as linhas da venda com o perfil fiscal de cada
// produto. Produto sem perfil usa o padrão documentado, com log do fallback.
func (e *Emissor) montarDocumento(ctx context.Context, venda *entity.Venda) (*DocumentoNFCe, error) {
	itens, err := e.comandaRepo.ListarItens(ctx, venda.ComandaID, entity.ItemFaturado)
	if err != nil {
		return nil, err
	}
	if len(itens) == 0 {
		return nil, domain.ErrInvalidInput
	}
	doc := &DocumentoNFCe{
		Serie:          e.cfg.Serie,
		VendaID:        venda.ID,
		FormaPagamento: venda.FormaPagamento,
		ValorTotal:     venda.ValorTotal,
	}
	for _, item := range itens {
		produto, err := e.produtoRepo.GetByID(ctx, item.ProdutoID)
		if err != nil {
			return nil, err
		}
		if produto == nil {
			return nil, domain.ErrNotFound
		}
		perfil := entity.PerfilFiscalPadrao
		if produto.PerfilFiscal != nil {
			perfil = *produto.PerfilFiscal
		} else {
			e.log.Debug().Str("produto_id", produto.ID).
				Msg("produto sem perfil fiscal; usando perfil padrão")
		}
		doc.Itens = append(doc.Itens, ItemNFCe{
			Codigo:        produto.Codigo,
			Descricao:     produto.Nome,
			Unidade:       produto.Unidade,
			Quantidade:    item.Quantidade,
			ValorUnitario: item.PrecoUnit,
			Perfil:        perfil,
		})
	}
	return doc, nil
}

// registrarFalha persiste o desfecho da tentativa. Falha do update é logada:
// o erro original da emissão é o que deve subir ao chamador.
func (e *Emissor) registrarFalha(ctx context.Context, venda *entity.Venda, causa error) {
	var rejeicao *domain.RejeicaoFiscalError
	if errors.As(causa, &rejeicao) {
		venda.StatusFiscal = entity.FiscalRejeitada
		venda.MotivoRejeicao = rejeicao.Motivo
	} else {
		venda.StatusFiscal = entity.FiscalErro
		venda.MotivoRejeicao = causa.Error()
	}
	venda.UpdatedAt = time.Now()
	if err := e.vendaRepo.Atualizar(ctx, venda); err != nil {
		e.log.Error().Err(err).Str("venda_id", venda.ID).
			Msg("não foi possível persistir o desfecho da emissão")
	}
}
