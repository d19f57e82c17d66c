package analysis

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrInsufficientData      = errors.New("insufficient data")
	ErrProvider              = errors.New("provider error")
	ErrNotFound              = errors.New("not found")
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")
)

// Error is a typed failure carrying one of the kinds above.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func InvalidParameter(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidParameter, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func InsufficientData(op string, have, need int) error {
	return &Error{
		Kind: ErrInsufficientData,
		Op:   op,
		Msg:  fmt.Sprintf("insufficient data: have %d candles, need at least %d", have, need),
	}
}

func NotFound(op, format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ProviderFailure wraps a market data failure. Errors already carrying a kind
// keep it, so a provider NotFound stays NotFound.
func ProviderFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return &Error{Kind: ErrProvider, Op: op, Msg: "market data provider failed", Err: err}
}

func EnrichmentUnavailable(op string, err error) error {
	return &Error{Kind: ErrEnrichmentUnavailable, Op: op, Err: err}
}

// KindOf returns the error kind carried by err, or nil for untyped errors.
func KindOf(err error) error {
	for _, kind := range []error{ErrInvalidParameter, ErrInsufficientData, ErrNotFound, ErrProvider, ErrEnrichmentUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
