package domain

import "time"

// Clock fornece o instante atual. Injetado para testes de ordenação.
type Clock interface {
	Now() time.Time
}

// SystemClock delega para time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
