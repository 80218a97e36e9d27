package entity

import "time"

// SerieFiscal é o contador de numeração de uma série de documentos (ex:
// "NFCE"). ProximoNumero só é mutado via update condicional (compare-and-swap
// na linha), nunca por read-modify-write solto: handlers independentes
// precisam concordar no próximo valor sem lock compartilhado.
//
// Invariante: documentos autorizados na mesma série nunca repetem número.
// Lacunas são aceitas (tentativa falha cuja devolução perdeu a corrida).
type SerieFiscal struct {
	Serie         string
	ProximoNumero int64
	UpdatedAt     time.Time
}
