package nuvemfiscal

import (
	"fmt"

	"github.com/beevik/etree"
)

// Protocolo é o resultado da autorização extraído do XML do documento
// (nfeProc/protNFe/infProt).
type Protocolo struct {
	Chave        string
	Protocolo    string
	CodigoStatus string
	Motivo       string
}

// ParseProtocolo extrai chave de acesso e protocolo do XML autorizado.
func ParseProtocolo(raw []byte) (*Protocolo, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}

	infProt := doc.FindElement("//infProt")
	if infProt == nil {
		return nil, fmt.Errorf("xml sem protNFe/infProt")
	}

	p := &Protocolo{
		Chave:        textoDe(infProt, "chNFe"),
		Protocolo:    textoDe(infProt, "nProt"),
		CodigoStatus: textoDe(infProt, "cStat"),
		Motivo:       textoDe(infProt, "xMotivo"),
	}
	if p.Chave == "" || p.Protocolo == "" {
		return nil, fmt.Errorf("infProt incompleto: chave=%q protocolo=%q", p.Chave, p.Protocolo)
	}
	return p, nil
}

func textoDe(el *etree.Element, filho string) string {
	if c := el.FindElement(filho); c != nil {
		return c.Text()
	}
	return ""
}
