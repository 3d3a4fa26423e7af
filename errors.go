package pipeit

import (
	"errors"

	"github.com/KasperOmsK/pipeit/internal/iterx"
)

// Errors reported while assembling a call. Errors returned by a target are
// never wrapped and never matched by these.
var (
	ErrNotCallable = errors.New("pipeit: target is not callable")
	ErrArity       = errors.New("pipeit: wrong number of arguments")
	ErrArgType     = errors.New("pipeit: argument type mismatch")
	ErrKeyword     = errors.New("pipeit: bad keyword arguments")

	// ErrNotIterable is returned when a SpreadAll stage receives a value it
	// cannot spread.
	ErrNotIterable = iterx.ErrNotIterable
)
