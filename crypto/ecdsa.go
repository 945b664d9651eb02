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
	"crypto/sha256"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
)

// Canonical encoding sizes for the ECDSA scheme.
const (
	secpPrivKeyLen    = 32 // big-endian scalar
	secpPubKeyLen     = 33 // compressed point
	secpCompactSigLen = 65 // recovery header || r || s

	derSeqTag = 0x30
)

// ecdsaScheme implements deterministic (RFC 6979) ECDSA over secp256k1.
// Messages are hashed with SHA-256 before signing. Plain signatures use
// DER encoding; recoverable signatures use the 65 byte compact encoding.
type ecdsaScheme struct{}

func (ecdsaScheme) Algorithm() bonsai.SignatureAlgorithm { return bonsai.ECDSA }

func (ecdsaScheme) GenerateKey(entropy io.Reader) (*KeyPair, error) {
	if entropy == nil {
		return nil, errors.New(errors.EntropyExhausted, "nil entropy source")
	}
	key, err := secp256k1.GeneratePrivateKeyFromRand(entropy)
	if err != nil {
		return nil, errors.Errorf(errors.EntropyExhausted, "reading entropy: %v", err)
	}
	defer key.Zero()
	return &KeyPair{
		Private: &PrivateKey{alg: bonsai.ECDSA, raw: key.Serialize()},
		Public:  &PublicKey{alg: bonsai.ECDSA, raw: key.PubKey().SerializeCompressed()},
	}, nil
}

func (ecdsaScheme) Sign(priv *PrivateKey, message []byte) (*Signature, error) {
	key, err := secpPrivFromKey(priv)
	if err != nil {
		return nil, err
	}
	defer key.Zero()
	digest := sha256.Sum256(message)
	sig := secpecdsa.Sign(key, digest[:])
	return &Signature{alg: bonsai.ECDSA, raw: sig.Serialize()}, nil
}

func (ecdsaScheme) Verify(pub *PublicKey, message []byte, sig *Signature) bool {
	if pub == nil || sig == nil || pub.alg != bonsai.ECDSA || sig.alg != bonsai.ECDSA {
		return false
	}
	key, err := secp256k1.ParsePubKey(pub.raw)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(message)
	if len(sig.raw) == secpCompactSigLen && sig.raw[0] != derSeqTag {
		// Compact recoverable form: verify the embedded r and s directly.
		var r, s secp256k1.ModNScalar
		if r.SetByteSlice(sig.raw[1:33]) || s.SetByteSlice(sig.raw[33:]) {
			return false
		}
		return secpecdsa.NewSignature(&r, &s).Verify(digest[:], key)
	}
	parsed, err := secpecdsa.ParseDERSignature(sig.raw)
	if err != nil {
		return false
	}
	return parsed.Verify(digest[:], key)
}

func (ecdsaScheme) ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != secpPrivKeyLen {
		return nil, errors.Errorf(errors.InvalidEncoding, "ECDSA private key must be %d bytes, got %d", secpPrivKeyLen, len(b))
	}
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(b)
	defer scalar.Zero()
	if overflow || scalar.IsZero() {
		return nil, errors.New(errors.InvalidKey, "ECDSA private key scalar out of range")
	}
	raw := make([]byte, secpPrivKeyLen)
	copy(raw, b)
	return &PrivateKey{alg: bonsai.ECDSA, raw: raw}, nil
}

func (ecdsaScheme) ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) != secpPubKeyLen {
		return nil, errors.Errorf(errors.InvalidEncoding, "ECDSA public key must be %d bytes compressed, got %d", secpPubKeyLen, len(b))
	}
	if _, err := secp256k1.ParsePubKey(b); err != nil {
		return nil, errors.Errorf(errors.InvalidEncoding, "parsing ECDSA public key: %v", err)
	}
	raw := make([]byte, secpPubKeyLen)
	copy(raw, b)
	return &PublicKey{alg: bonsai.ECDSA, raw: raw}, nil
}

func (ecdsaScheme) ParseSignature(b []byte) (*Signature, error) {
	if len(b) == 0 {
		return nil, errors.New(errors.InvalidEncoding, "empty ECDSA signature")
	}
	// The two encodings cannot collide: DER always begins with a sequence
	// tag, the compact form with a recovery header in [27, 34].
	if b[0] != derSeqTag {
		if len(b) != secpCompactSigLen || b[0] < 27 || b[0] > 34 {
			return nil, errors.New(errors.InvalidEncoding, "ECDSA signature is neither DER nor compact")
		}
	} else if _, err := secpecdsa.ParseDERSignature(b); err != nil {
		return nil, errors.Errorf(errors.InvalidEncoding, "parsing DER signature: %v", err)
	}
	raw := make([]byte, len(b))
	copy(raw, b)
	return &Signature{alg: bonsai.ECDSA, raw: raw}, nil
}

func (ecdsaScheme) SignRecoverable(priv *PrivateKey, message []byte) (*Signature, error) {
	key, err := secpPrivFromKey(priv)
	if err != nil {
		return nil, err
	}
	defer key.Zero()
	digest := sha256.Sum256(message)
	compact := secpecdsa.SignCompact(key, digest[:], true)
	return &Signature{alg: bonsai.ECDSA, raw: compact}, nil
}

func (ecdsaScheme) RecoverPublicKey(message []byte, sig *Signature) (*PublicKey, error) {
	if sig == nil || sig.alg != bonsai.ECDSA {
		return nil, errors.New(errors.InvalidSignature, "signature is nil or not ECDSA")
	}
	if len(sig.raw) != secpCompactSigLen {
		return nil, errors.Errorf(errors.InvalidEncoding, "recoverable signature must be %d bytes, got %d", secpCompactSigLen, len(sig.raw))
	}
	digest := sha256.Sum256(message)
	pub, _, err := secpecdsa.RecoverCompact(sig.raw, digest[:])
	if err != nil {
		return nil, errors.Errorf(errors.InvalidSignature, "recovering public key: %v", err)
	}
	return &PublicKey{alg: bonsai.ECDSA, raw: pub.SerializeCompressed()}, nil
}

func secpPrivFromKey(priv *PrivateKey) (*secp256k1.PrivateKey, error) {
	if priv == nil || priv.raw == nil {
		return nil, errors.New(errors.InvalidKey, "nil or zeroed ECDSA private key")
	}
	if priv.alg != bonsai.ECDSA {
		return nil, errors.Errorf(errors.InvalidKey, "key algorithm is %v, want ECDSA", priv.alg)
	}
	if len(priv.raw) != secpPrivKeyLen {
		return nil, errors.Errorf(errors.InvalidKey, "ECDSA private key must be %d bytes, got %d", secpPrivKeyLen, len(priv.raw))
	}
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(priv.raw)
	defer scalar.Zero()
	if overflow || scalar.IsZero() {
		return nil, errors.New(errors.InvalidKey, "ECDSA private key scalar out of range")
	}
	return secp256k1.NewPrivateKey(&scalar), nil
}
