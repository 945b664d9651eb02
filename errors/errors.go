// Copyright 2025 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is an error code, inspired by the gRPC code set but scoped to the
// failure modes of hashing, signing and proof handling.
type Code int

// Error codes. Unknown is reserved for errors that carry no code.
const (
	Unknown Code = iota
	// InvalidKey indicates a key that is structurally sound but unusable,
	// e.g. a scalar outside the curve order or a short seed.
	InvalidKey
	// InvalidEncoding indicates serialized bytes that cannot be decoded
	// into the expected key, signature or proof form.
	InvalidEncoding
	// InvalidSignature indicates that a signing operation itself failed.
	// A signature that merely fails to verify is not an error.
	InvalidSignature
	// EntropyExhausted indicates the caller-supplied entropy source failed
	// or ran dry during key generation.
	EntropyExhausted
	// EmptyInput indicates an operation that requires at least one element
	// was given none, e.g. building a tree over an empty item list.
	EmptyInput
	// TreeNotBuilt indicates a query against a tree whose Build has not
	// completed successfully.
	TreeNotBuilt
	// IndexOutOfRange indicates a leaf index at or beyond the leaf count.
	IndexOutOfRange
	// MalformedProof indicates an inclusion proof whose structure is
	// inconsistent, e.g. mismatched sibling and direction counts.
	MalformedProof
)

var codeNames = map[Code]string{
	Unknown:          "Unknown",
	InvalidKey:       "InvalidKey",
	InvalidEncoding:  "InvalidEncoding",
	InvalidSignature: "InvalidSignature",
	EntropyExhausted: "EntropyExhausted",
	EmptyInput:       "EmptyInput",
	TreeNotBuilt:     "TreeNotBuilt",
	IndexOutOfRange:  "IndexOutOfRange",
	MalformedProof:   "MalformedProof",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// BonsaiError is the interface implemented by all errors created by this
// package.
type BonsaiError interface {
	error
	Code() Code
}

type bonsaiError struct {
	code Code
	err  error
}

func (e *bonsaiError) Error() string { return e.err.Error() }
func (e *bonsaiError) Code() Code    { return e.code }
func (e *bonsaiError) Unwrap() error { return e.err }

// New returns an error that carries code and has msg as its message.
func New(code Code, msg string) error {
	return &bonsaiError{code: code, err: stderrors.New(msg)}
}

// Errorf returns an error that carries code and formats its message
// according to fmt.Errorf. The %w verb is honored, so wrapped errors stay
// reachable through errors.Is and errors.As.
func Errorf(code Code, format string, a ...any) error {
	return &bonsaiError{code: code, err: fmt.Errorf(format, a...)}
}

// ErrorCode returns the Code carried by err or any error it wraps, or
// Unknown if none is found.
func ErrorCode(err error) Code {
	var be BonsaiError
	if stderrors.As(err, &be) {
		return be.Code()
	}
	return Unknown
}
