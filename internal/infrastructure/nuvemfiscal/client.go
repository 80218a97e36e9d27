package nuvemfiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/fiscal"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/logger"
)

const (
	baseURLPadrao = "https://api.nuvemfiscal.com.br"
	authURLPadrao = "https://auth.nuvemfiscal.com.br"

	// Polling de documentos que ficam "pendente" na SEFAZ.
	intervaloConsulta = 2 * time.Second
)

// Config do cliente Nuvem Fiscal.
type Config struct {
	BaseURL      string
	AuthURL      string
	ClientID     string
	ClientSecret string
	Ambiente     string // "homologacao" | "producao"
}

var _ fiscal.Gateway = (*Client)(nil)

// Client implementa fiscal.Gateway contra a API REST da Nuvem Fiscal.
// Autentica por OAuth2 client_credentials e mantém o token em cache até
// perto da expiração.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient constrói o cliente. O timeout de rede fica por conta do context
// de cada chamada (o emissor impõe o orçamento).
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURLPadrao
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = authURLPadrao
	}
	if cfg.Ambiente == "" {
		cfg.Ambiente = "homologacao"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		log:        log,
	}
}

// EmitirNFCe submete o documento e acompanha o processamento até o desfecho.
// Rejeição da SEFAZ vira *domain.RejeicaoFiscalError; o resto é erro de
// transporte.
func (c *Client) EmitirNFCe(ctx context.Context, doc *fiscal.DocumentoNFCe) (*fiscal.Autorizacao, error) {
	pedido := montarPedido(doc, c.cfg.Ambiente)

	var resp nfceResposta
	if err := c.request(ctx, http.MethodPost, "/nfce", pedido, &resp); err != nil {
		return nil, err
	}

	// Documento aceito para processamento assíncrono: consultar até sair de
	// "pendente" ou o context estourar.
	for resp.Status == "pendente" {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("nfce %s ainda pendente: %w", resp.ID, ctx.Err())
		case <-time.After(intervaloConsulta):
		}
		if err := c.request(ctx, http.MethodGet, "/nfce/"+resp.ID, nil, &resp); err != nil {
			return nil, err
		}
	}

	return c.interpretarDesfecho(ctx, &resp)
}

func (c *Client) interpretarDesfecho(ctx context.Context, resp *nfceResposta) (*fiscal.Autorizacao, error) {
	switch resp.Status {
	case "autorizado":
		aut := &fiscal.Autorizacao{ChaveAcesso: resp.Chave}
		if resp.Autorizacao != nil {
			aut.Protocolo = resp.Autorizacao.NumeroProtocolo
		}
		// Resposta sem chave ou protocolo no JSON: extrair do XML autorizado.
		if aut.ChaveAcesso == "" || aut.Protocolo == "" {
			prot, err := c.baixarProtocolo(ctx, resp.ID)
			if err != nil {
				return nil, fmt.Errorf("nfce autorizada mas sem protocolo legível: %w", err)
			}
			aut.ChaveAcesso = prot.Chave
			aut.Protocolo = prot.Protocolo
		}
		return aut, nil
	case "rejeitado":
		rej := &domain.RejeicaoFiscalError{Motivo: "rejeitada pela SEFAZ"}
		if resp.Autorizacao != nil {
			rej.CodigoStatus = strconv.Itoa(resp.Autorizacao.CodigoStatus)
			rej.Motivo = resp.Autorizacao.MotivoStatus
		}
		return nil, rej
	default:
		return nil, fmt.Errorf("nfce %s com status inesperado %q", resp.ID, resp.Status)
	}
}

// baixarProtocolo busca o XML do documento e extrai chave e protocolo.
func (c *Client) baixarProtocolo(ctx context.Context, id string) (*Protocolo, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/nfce/"+id+"/xml", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("baixar xml: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("ler xml: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("baixar xml: HTTP %d", resp.StatusCode)
	}
	return ParseProtocolo(raw)
}

// request executa uma chamada JSON autenticada contra a API.
func (c *Client) request(ctx context.Context, method, endpoint string, body, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("criar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chamada %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("ler resposta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("nuvem fiscal [%s]: %s", apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("nuvem fiscal: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decodificar resposta: %w", err)
		}
	}
	return nil
}

// accessToken devolve o token em cache ou requisita um novo via OAuth2
// client_credentials.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"scope":         {"nfce"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL+"/oauth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("criar request de token: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("obter token: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ler token: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("obter token: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var tok tokenResposta
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", fmt.Errorf("decodificar token: %w", err)
	}
	c.token = tok.AccessToken
	// Renovar um minuto antes de expirar.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

// montarPedido converte o documento interno para o formato da API.
func montarPedido(doc *fiscal.DocumentoNFCe, ambiente string) *nfcePedido {
	serie, _ := strconv.ParseInt(strings.TrimLeft(doc.Serie, "NFCE-"), 10, 64)
	if serie == 0 {
		serie = 1
	}
	pedido := &nfcePedido{
		Referencia: "VENDA-" + doc.VendaID,
		Ambiente:   ambiente,
		InfNFe: infNFe{
			Versao: "4.00",
			Ide: ide{
				NatOp:    "VENDA",
				Mod:      65,
				Serie:    serie,
				NNF:      doc.Numero,
				DhEmi:    time.Now().Format(time.RFC3339),
				TpNF:     1,
				IndFinal: 1,
				IndPres:  1,
			},
			Pag: pagamento{DetPag: []detPag{{
				TPag: codigoPagamento(doc.FormaPagamento),
				VPag: doc.ValorTotal.StringFixed(2),
			}}},
		},
	}
	for i, item := range doc.Itens {
		pedido.InfNFe.Det = append(pedido.InfNFe.Det, det{
			NItem: i + 1,
			Prod: prod{
				CProd:   item.Codigo,
				XProd:   item.Descricao,
				NCM:     item.Perfil.NCM,
				CEST:    item.Perfil.CEST,
				CFOP:    item.Perfil.CFOP,
				UCom:    item.Unidade,
				QCom:    item.Quantidade.String(),
				VUnCom:  item.ValorUnitario.StringFixed(2),
				VProd:   item.Quantidade.Mul(item.ValorUnitario).StringFixed(2),
				UTrib:   item.Unidade,
				QTrib:   item.Quantidade.String(),
				VUnTrib: item.ValorUnitario.StringFixed(2),
				IndTot:  1,
			},
			Imposto: imposto{
				ICMS:   icms{Orig: item.Perfil.Origem, CSOSN: item.Perfil.CSTICMS},
				PIS:    tributo{CST: item.Perfil.CSTPIS},
				COFINS: tributo{CST: item.Perfil.CSTCOFINS},
			},
		})
	}
	return pedido
}

func codigoPagamento(forma string) string {
	switch strings.ToLower(forma) {
	case "dinheiro":
		return "01"
	case "credito", "cartao_credito":
		return "03"
	case "debito", "cartao_debito":
		return "04"
	case "pix":
		return "17"
	default:
		return "99"
	}
}
