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
	"k8s.io/klog/v2"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
)

// Signer signs data with a fixed key pair, producing signatures tagged
// with the key's scheme.
type Signer struct {
	scheme Scheme
	priv   *PrivateKey
	pub    *PublicKey
}

// NewSigner returns a Signer over the given key pair.
func NewSigner(kp *KeyPair) (*Signer, error) {
	if kp == nil || kp.Private == nil || kp.Public == nil {
		return nil, errors.New(errors.InvalidKey, "incomplete key pair")
	}
	if got, want := kp.Private.Algorithm(), kp.Public.Algorithm(); got != want {
		return nil, errors.Errorf(errors.InvalidKey, "key pair algorithms disagree: %v vs %v", got, want)
	}
	scheme, err := NewScheme(kp.Private.Algorithm())
	if err != nil {
		return nil, err
	}
	return &Signer{scheme: scheme, priv: kp.Private, pub: kp.Public}, nil
}

// Public returns the public key that verifies signatures produced by s.
func (s *Signer) Public() *PublicKey { return s.pub }

// Algorithm identifies the scheme s signs under.
func (s *Signer) Algorithm() bonsai.SignatureAlgorithm { return s.scheme.Algorithm() }

// Sign signs message.
func (s *Signer) Sign(message []byte) (*Signature, error) {
	sig, err := s.scheme.Sign(s.priv, message)
	if err != nil {
		klog.Warningf("%v signer failed to sign: %v", s.Algorithm(), err)
		return nil, err
	}
	return sig, nil
}

// SignRoot signs a Merkle root digest, committing to the tree contents.
func (s *Signer) SignRoot(root bonsai.Digest) (*Signature, error) {
	return s.Sign(root)
}
