// Package errorx provides coded errors: every API-visible failure carries a
// registered business code that maps to an HTTP status and a safe external
// message.
package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Coder describes an error code: the business code, the HTTP status it maps
// to, the external message, and an optional reference document.
type Coder interface {
	Code() int
	HTTPStatus() int
	String() string
	Reference() string
}

var (
	codeMux sync.Mutex
	codes   = map[int]Coder{}
)

type defaultCoder struct {
	code int
	http int
	msg  string
}

func (c defaultCoder) Code() int         { return c.code }
func (c defaultCoder) HTTPStatus() int   { return c.http }
func (c defaultCoder) String() string    { return c.msg }
func (c defaultCoder) Reference() string { return "" }

// unknownCoder is returned for errors carrying no registered code.
var unknownCoder = defaultCoder{code: 1, http: http.StatusInternalServerError, msg: "An internal server error occurred"}

// Register registers a Coder, overwriting any existing entry for the code.
func Register(coder Coder) {
	if coder.Code() == unknownCoder.Code() {
		panic("code `1` is reserved as the unknown error code")
	}
	codeMux.Lock()
	defer codeMux.Unlock()
	codes[coder.Code()] = coder
}

// MustRegister registers a Coder and panics if the code is already taken.
func MustRegister(coder Coder) {
	if coder.Code() == unknownCoder.Code() {
		panic("code `1` is reserved as the unknown error code")
	}
	codeMux.Lock()
	defer codeMux.Unlock()
	if _, ok := codes[coder.Code()]; ok {
		panic(fmt.Sprintf("code %d already registered", coder.Code()))
	}
	codes[coder.Code()] = coder
}

type withCode struct {
	err  error
	code int
	msg  string
}

func (w *withCode) Error() string {
	if w.err != nil {
		return fmt.Sprintf("%s: %s", w.msg, w.err.Error())
	}
	return w.msg
}

func (w *withCode) Unwrap() error { return w.err }

// WithCode creates an error with the given code.
func WithCode(code int, format string, args ...any) error {
	return &withCode{code: code, msg: fmt.Sprintf(format, args...)}
}

// WrapC wraps an error with a code and a contextual message.
func WrapC(err error, code int, format string, args ...any) error {
	return &withCode{err: err, code: code, msg: fmt.Sprintf(format, args...)}
}

// ParseCoder resolves the Coder attached to err, searching the whole unwrap
// chain. Errors without a registered code resolve to the unknown coder.
func ParseCoder(err error) Coder {
	if err == nil {
		return nil
	}
	var w *withCode
	if errors.As(err, &w) {
		if coder, ok := lookup(w.code); ok {
			return coder
		}
	}
	return unknownCoder
}

// IsCode reports whether err or any error it wraps carries the given code.
func IsCode(err error, code int) bool {
	var w *withCode
	return errors.As(err, &w) && w.code == code
}

func lookup(code int) (Coder, bool) {
	codeMux.Lock()
	defer codeMux.Unlock()
	coder, ok := codes[code]
	return coder, ok
}
