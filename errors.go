// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsoc

import (
	"github.com/pkg/errors"
)

// Kind classifies errors reported while composing and building a SoC.
//
type Kind string

// Error kinds.
//
const (
	KindConfig      Kind = "configuration"
	KindComposition Kind = "composition"
	KindToolchain   Kind = "toolchain"
)

// Error wraps an underlying error with the failed operation and its kind.
//
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + string(e.Kind) + " error"
	}
	return e.Op + ": " + e.Err.Error()
}

// Cause implements the causer interface of github.com/pkg/errors.
//
func (e *Error) Cause() error { return e.Err }

// Unwrap returns the underlying error.
//
func (e *Error) Unwrap() error { return e.Err }

// ConfigError returns a new configuration error.
//
func ConfigError(op string, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: KindConfig, Err: errors.Errorf(format, args...)}
}

// WrapKind wraps err into an *Error of the given kind. It returns nil if err
// is nil.
//
func WrapKind(err error, op string, kind Kind) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// IsKind returns true if err or any error it wraps is an *Error of the given
// kind.
//
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
