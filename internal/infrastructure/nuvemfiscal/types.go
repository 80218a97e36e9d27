package nuvemfiscal

// Estruturas do payload POST /nfce. A Nuvem Fiscal usa a estrutura XML da
// SEFAZ serializada em JSON (infNFe, ide, det); os totais e alíquotas são
// calculados pelo provedor a partir das situações tributárias enviadas.

type nfcePedido struct {
	Referencia string  `json:"referencia"`
	Ambiente   string  `json:"ambiente"` // "homologacao" | "producao"
	InfNFe     infNFe  `json:"infNFe"`
}

type infNFe struct {
	Versao string    `json:"versao"`
	Ide    ide       `json:"ide"`
	Det    []det     `json:"det"`
	Pag    pagamento `json:"pag"`
}

type ide struct {
	NatOp    string `json:"natOp"`
	Mod      int    `json:"mod"` // 65 = NFC-e
	Serie    int64  `json:"serie"`
	NNF      int64  `json:"nNF"`
	DhEmi    string `json:"dhEmi"`
	TpNF     int    `json:"tpNF"`     // 1 = saída
	IndFinal int    `json:"indFinal"` // 1 = consumidor final
	IndPres  int    `json:"indPres"`  // 1 = presencial
}

type det struct {
	NItem   int     `json:"nItem"`
	Prod    prod    `json:"prod"`
	Imposto imposto `json:"imposto"`
}

type prod struct {
	CProd    string `json:"cProd"`
	XProd    string `json:"xProd"`
	NCM      string `json:"NCM"`
	CEST     string `json:"CEST,omitempty"`
	CFOP     string `json:"CFOP"`
	UCom     string `json:"uCom"`
	QCom     string `json:"qCom"`
	VUnCom   string `json:"vUnCom"`
	VProd    string `json:"vProd"`
	UTrib    string `json:"uTrib"`
	QTrib    string `json:"qTrib"`
	VUnTrib  string `json:"vUnTrib"`
	IndTot   int    `json:"indTot"`
}

type imposto struct {
	ICMS   icms   `json:"ICMS"`
	PIS    tributo `json:"PIS"`
	COFINS tributo `json:"COFINS"`
}

type icms struct {
	Orig  string `json:"orig"`
	CSOSN string `json:"CSOSN"`
}

type tributo struct {
	CST string `json:"CST"`
}

type pagamento struct {
	DetPag []detPag `json:"detPag"`
}

type detPag struct {
	TPag string `json:"tPag"` // 01 dinheiro, 03 crédito, 04 débito, 17 pix
	VPag string `json:"vPag"`
}

// nfceResposta é a resposta de POST /nfce e GET /nfce/{id}.
type nfceResposta struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"` // pendente | autorizado | rejeitado | ...
	Chave       string       `json:"chave"`
	Autorizacao *autorizacao `json:"autorizacao,omitempty"`
}

type autorizacao struct {
	NumeroProtocolo string `json:"numero_protocolo"`
	CodigoStatus    int    `json:"codigo_status"`
	MotivoStatus    string `json:"motivo_status"`
}

// apiError é o corpo de erro padrão da API ({"error": {code, message}}).
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type tokenResposta struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
