package entity

// PerfilFiscal agrupa os dados tributários de um produto usados na montagem
// da NFC-e. Capacidade opcional: produto sem perfil usa PerfilFiscalPadrao,
// e o emissor registra o fallback no log; as alíquotas em si são calculadas
// pelo provedor, não aqui.
type PerfilFiscal struct {
	NCM       string
	CFOP      string
	Origem    string
	CSTICMS   string
	CSTPIS    string
	CSTCOFINS string
	CEST      string
}

// PerfilFiscalPadrao é o perfil aplicado a produtos sem configuração fiscal
// própria. Valores do ramo predominante da distribuidora (bebidas não
// alcoólicas, NCM 2202.10.00, venda dentro do estado).
var PerfilFiscalPadrao = PerfilFiscal{
	NCM:       "22021000",
	CFOP:      "5102",
	Origem:    "0",
	CSTICMS:   "102",
	CSTPIS:    "49",
	CSTCOFINS: "49",
}
