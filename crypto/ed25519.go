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

package crypto

import (
	"crypto/ed25519"
	"io"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
)

// ed25519Scheme implements Ed25519. Signing is deterministic and operates
// on the raw message. The canonical private key encoding is the 32 byte
// seed, not the expanded 64 byte form.
type ed25519Scheme struct{}

func (ed25519Scheme) Algorithm() bonsai.SignatureAlgorithm { return bonsai.Ed25519 }

func (ed25519Scheme) GenerateKey(entropy io.Reader) (*KeyPair, error) {
	// ed25519.GenerateKey silently substitutes crypto/rand for a nil
	// reader; entropy must always come from the caller here.
	if entropy == nil {
		return nil, errors.New(errors.EntropyExhausted, "nil entropy source")
	}
	pub, priv, err := ed25519.GenerateKey(entropy)
	if err != nil {
		return nil, errors.Errorf(errors.EntropyExhausted, "reading entropy: %v", err)
	}
	seed := priv.Seed()
	wipe(priv)
	return &KeyPair{
		Private: &PrivateKey{alg: bonsai.Ed25519, raw: seed},
		Public:  &PublicKey{alg: bonsai.Ed25519, raw: pub},
	}, nil
}

func (ed25519Scheme) Sign(priv *PrivateKey, message []byte) (*Signature, error) {
	if priv == nil || priv.raw == nil {
		return nil, errors.New(errors.InvalidKey, "nil or zeroed Ed25519 private key")
	}
	if priv.alg != bonsai.Ed25519 {
		return nil, errors.Errorf(errors.InvalidKey, "key algorithm is %v, want ED25519", priv.alg)
	}
	if len(priv.raw) != ed25519.SeedSize {
		return nil, errors.Errorf(errors.InvalidKey, "Ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(priv.raw))
	}
	key := ed25519.NewKeyFromSeed(priv.raw)
	defer wipe(key)
	return &Signature{alg: bonsai.Ed25519, raw: ed25519.Sign(key, message)}, nil
}

func (ed25519Scheme) Verify(pub *PublicKey, message []byte, sig *Signature) bool {
	if pub == nil || sig == nil || pub.alg != bonsai.Ed25519 || sig.alg != bonsai.Ed25519 {
		return false
	}
	if len(pub.raw) != ed25519.PublicKeySize || len(sig.raw) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub.raw), message, sig.raw)
}

func (ed25519Scheme) ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != ed25519.SeedSize {
		return nil, errors.Errorf(errors.InvalidEncoding, "Ed25519 private key must be a %d byte seed, got %d", ed25519.SeedSize, len(b))
	}
	raw := make([]byte, ed25519.SeedSize)
	copy(raw, b)
	return &PrivateKey{alg: bonsai.Ed25519, raw: raw}, nil
}

func (ed25519Scheme) ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return nil, errors.Errorf(errors.InvalidEncoding, "Ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(b))
	}
	raw := make([]byte, ed25519.PublicKeySize)
	copy(raw, b)
	return &PublicKey{alg: bonsai.Ed25519, raw: raw}, nil
}

func (ed25519Scheme) ParseSignature(b []byte) (*Signature, error) {
	if len(b) != ed25519.SignatureSize {
		return nil, errors.Errorf(errors.InvalidEncoding, "Ed25519 signature must be %d bytes, got %d", ed25519.SignatureSize, len(b))
	}
	raw := make([]byte, ed25519.SignatureSize)
	copy(raw, b)
	return &Signature{alg: bonsai.Ed25519, raw: raw}, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
