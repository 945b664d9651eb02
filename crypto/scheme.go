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

// Package crypto provides key generation, signing and verification over
// interchangeable signature schemes.
package crypto

import (
	"io"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
)

// Scheme is a complete signature scheme. Implementations hold no state and
// are safe for concurrent use. Keys and signatures carry the algorithm
// they belong to, and every operation rejects values tagged for another
// scheme, so material can never cross between schemes undetected.
type Scheme interface {
	// Algorithm identifies the scheme.
	Algorithm() bonsai.SignatureAlgorithm
	// GenerateKey derives a fresh key pair from the caller-supplied
	// entropy source. A failed or short read fails with EntropyExhausted.
	GenerateKey(entropy io.Reader) (*KeyPair, error)
	// Sign signs message with priv. The scheme applies its own message
	// digesting, so callers pass the raw message.
	Sign(priv *PrivateKey, message []byte) (*Signature, error)
	// Verify reports whether sig is a valid signature over message under
	// pub. It never panics; malformed or mistagged inputs report false.
	Verify(pub *PublicKey, message []byte, sig *Signature) bool
	// ParsePrivateKey decodes a canonical private key encoding.
	ParsePrivateKey(b []byte) (*PrivateKey, error)
	// ParsePublicKey decodes a canonical public key encoding.
	ParsePublicKey(b []byte) (*PublicKey, error)
	// ParseSignature decodes a canonical signature encoding.
	ParseSignature(b []byte) (*Signature, error)
}

// RecoverableScheme is implemented by schemes whose signatures permit
// recovering the signing public key from the message and signature alone.
type RecoverableScheme interface {
	Scheme
	// SignRecoverable produces a signature carrying recovery information.
	SignRecoverable(priv *PrivateKey, message []byte) (*Signature, error)
	// RecoverPublicKey returns the public key that produced sig over
	// message.
	RecoverPublicKey(message []byte, sig *Signature) (*PublicKey, error)
}

// NewScheme returns the Scheme implementing alg.
func NewScheme(alg bonsai.SignatureAlgorithm) (Scheme, error) {
	switch alg {
	case bonsai.ECDSA:
		return ecdsaScheme{}, nil
	case bonsai.Ed25519:
		return ed25519Scheme{}, nil
	}
	return nil, errors.Errorf(errors.InvalidEncoding, "unknown signature algorithm %v", alg)
}

// Verify reports whether sig is a valid signature over message under pub,
// dispatching on the key's algorithm tag. Nil or mistagged inputs report
// false.
func Verify(pub *PublicKey, message []byte, sig *Signature) bool {
	if pub == nil || sig == nil {
		return false
	}
	s, err := NewScheme(pub.Algorithm())
	if err != nil {
		return false
	}
	return s.Verify(pub, message, sig)
}

// ParsePrivateKey decodes a canonical private key encoding for alg.
func ParsePrivateKey(alg bonsai.SignatureAlgorithm, b []byte) (*PrivateKey, error) {
	s, err := NewScheme(alg)
	if err != nil {
		return nil, err
	}
	return s.ParsePrivateKey(b)
}

// ParsePublicKey decodes a canonical public key encoding for alg.
func ParsePublicKey(alg bonsai.SignatureAlgorithm, b []byte) (*PublicKey, error) {
	s, err := NewScheme(alg)
	if err != nil {
		return nil, err
	}
	return s.ParsePublicKey(b)
}

// ParseSignature decodes a canonical signature encoding for alg.
func ParseSignature(alg bonsai.SignatureAlgorithm, b []byte) (*Signature, error) {
	s, err := NewScheme(alg)
	if err != nil {
		return nil, err
	}
	return s.ParseSignature(b)
}
