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
	"encoding/hex"
	"fmt"

	"github.com/google/bonsai"
)

// PrivateKey holds private key material in its canonical encoding, tagged
// with the scheme it belongs to. Values never print their material: all
// format verbs render a redacted placeholder.
type PrivateKey struct {
	alg bonsai.SignatureAlgorithm
	raw []byte
}

// Algorithm identifies the scheme the key belongs to.
func (k *PrivateKey) Algorithm() bonsai.SignatureAlgorithm { return k.alg }

// Bytes returns a copy of the canonical key encoding. Returns nil after
// Zero has been called.
func (k *PrivateKey) Bytes() []byte {
	if k.raw == nil {
		return nil
	}
	b := make([]byte, len(k.raw))
	copy(b, k.raw)
	return b
}

// Zero wipes the key material. The key is unusable afterwards: Sign fails
// with InvalidKey.
func (k *PrivateKey) Zero() {
	for i := range k.raw {
		k.raw[i] = 0
	}
	k.raw = nil
}

func (k PrivateKey) String() string {
	return fmt.Sprintf("<redacted %v private key>", k.alg)
}

// Format implements fmt.Formatter so that key bytes cannot leak through
// any verb, %x and %#v included.
func (k PrivateKey) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, k.String())
}

// PublicKey holds a public key in its canonical encoding, tagged with the
// scheme it belongs to.
type PublicKey struct {
	alg bonsai.SignatureAlgorithm
	raw []byte
}

// Algorithm identifies the scheme the key belongs to.
func (k *PublicKey) Algorithm() bonsai.SignatureAlgorithm { return k.alg }

// Bytes returns a copy of the canonical key encoding.
func (k *PublicKey) Bytes() []byte {
	b := make([]byte, len(k.raw))
	copy(b, k.raw)
	return b
}

func (k *PublicKey) String() string {
	return hex.EncodeToString(k.raw)
}

// Equal reports whether both keys hold the same algorithm and encoding.
func (k *PublicKey) Equal(o *PublicKey) bool {
	if k == nil || o == nil {
		return k == o
	}
	return k.alg == o.alg && bonsai.Digest(k.raw).Equal(bonsai.Digest(o.raw))
}

// KeyPair couples a private key with its public counterpart.
type KeyPair struct {
	Private *PrivateKey
	Public  *PublicKey
}

// Signature is a signature value in its canonical encoding, tagged with
// the scheme that produced it.
type Signature struct {
	alg bonsai.SignatureAlgorithm
	raw []byte
}

// Algorithm identifies the scheme that produced the signature.
func (s *Signature) Algorithm() bonsai.SignatureAlgorithm { return s.alg }

// Bytes returns a copy of the canonical signature encoding.
func (s *Signature) Bytes() []byte {
	b := make([]byte, len(s.raw))
	copy(b, s.raw)
	return b
}

func (s *Signature) String() string {
	return hex.EncodeToString(s.raw)
}
