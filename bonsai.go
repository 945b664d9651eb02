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

// Package bonsai provides common data structures and identifiers used
// throughout the hashing, signature and Merkle tree packages.
package bonsai

import (
	"bytes"
	"encoding/hex"
)

// Digest represents the output of a cryptographic hash function.
type Digest []byte

// String returns the digest as lower-case hex.
func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// Equal reports whether d and o hold identical bytes.
func (d Digest) Equal(o Digest) bool {
	return bytes.Equal(d, o)
}

// Clone returns an independent copy of the digest.
func (d Digest) Clone() Digest {
	if d == nil {
		return nil
	}
	c := make(Digest, len(d))
	copy(c, d)
	return c
}

// HashAlgorithm identifies a supported hash function. The numeric values
// are stable and appear in serialized proofs, so they must not be reused.
type HashAlgorithm uint8

const (
	// UnknownHashAlgorithm is the zero value; no hasher is registered for it.
	UnknownHashAlgorithm HashAlgorithm = 0
	// SHA256 is FIPS 180-4 SHA-256.
	SHA256 HashAlgorithm = 1
	// Keccak256 is pre-standardization Keccak-256 as used by Ethereum.
	Keccak256 HashAlgorithm = 2
	// BLAKE3 is the BLAKE3 hash with a 32 byte output.
	BLAKE3 HashAlgorithm = 3
	// RIPEMD160 is RIPEMD-160 with a 20 byte output.
	RIPEMD160 HashAlgorithm = 4
)

// HashAlgorithmName maps HashAlgorithm values to the names accepted by
// command line flags.
var HashAlgorithmName = map[HashAlgorithm]string{
	UnknownHashAlgorithm: "UNKNOWN",
	SHA256:               "SHA256",
	Keccak256:            "KECCAK256",
	BLAKE3:               "BLAKE3",
	RIPEMD160:            "RIPEMD160",
}

// HashAlgorithmValue is the inverse of HashAlgorithmName.
var HashAlgorithmValue = map[string]HashAlgorithm{
	"UNKNOWN":   UnknownHashAlgorithm,
	"SHA256":    SHA256,
	"KECCAK256": Keccak256,
	"BLAKE3":    BLAKE3,
	"RIPEMD160": RIPEMD160,
}

func (a HashAlgorithm) String() string {
	if n, ok := HashAlgorithmName[a]; ok {
		return n
	}
	return "UNKNOWN"
}

// SignatureAlgorithm identifies a supported signature scheme. As with
// HashAlgorithm the numeric values appear in serialized keys and
// signatures and must remain stable.
type SignatureAlgorithm uint8

const (
	// UnknownSignatureAlgorithm is the zero value; no scheme implements it.
	UnknownSignatureAlgorithm SignatureAlgorithm = 0
	// ECDSA is deterministic ECDSA over secp256k1.
	ECDSA SignatureAlgorithm = 1
	// Ed25519 is the Ed25519 signature scheme.
	Ed25519 SignatureAlgorithm = 2
)

// SignatureAlgorithmName maps SignatureAlgorithm values to flag names.
var SignatureAlgorithmName = map[SignatureAlgorithm]string{
	UnknownSignatureAlgorithm: "UNKNOWN",
	ECDSA:                     "ECDSA",
	Ed25519:                   "ED25519",
}

// SignatureAlgorithmValue is the inverse of SignatureAlgorithmName.
var SignatureAlgorithmValue = map[string]SignatureAlgorithm{
	"UNKNOWN": UnknownSignatureAlgorithm,
	"ECDSA":   ECDSA,
	"ED25519": Ed25519,
}

func (a SignatureAlgorithm) String() string {
	if n, ok := SignatureAlgorithmName[a]; ok {
		return n
	}
	return "UNKNOWN"
}
