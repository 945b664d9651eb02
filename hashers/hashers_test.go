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

package hashers

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
)

var allAlgorithms = []bonsai.HashAlgorithm{
	bonsai.SHA256, bonsai.Keccak256, bonsai.BLAKE3, bonsai.RIPEMD160,
}

func TestHasherVectors(t *testing.T) {
	for _, tc := range []struct {
		desc string
		alg  bonsai.HashAlgorithm
		in   string
		want string
	}{
		// echo -n | sha256sum
		{
			desc: "SHA256 empty",
			alg:  bonsai.SHA256,
			want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		// echo -n abc | sha256sum
		{
			desc: "SHA256 abc",
			alg:  bonsai.SHA256,
			in:   "abc",
			want: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
		// Keccak-256 of the empty string, widely known as the empty
		// account code hash on Ethereum.
		{
			desc: "Keccak256 empty",
			alg:  bonsai.Keccak256,
			want: "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		},
		{
			desc: "Keccak256 abc",
			alg:  bonsai.Keccak256,
			in:   "abc",
			want: "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		},
		// BLAKE3 reference implementation vectors.
		{
			desc: "BLAKE3 empty",
			alg:  bonsai.BLAKE3,
			want: "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		},
		{
			desc: "BLAKE3 abc",
			alg:  bonsai.BLAKE3,
			in:   "abc",
			want: "6437b3ac38465133ffb63b75273a8db548c558465d79db03fd359c6cd5bd9d85",
		},
		// Appendix B of the RIPEMD-160 paper.
		{
			desc: "RIPEMD160 empty",
			alg:  bonsai.RIPEMD160,
			want: "9c1185a5c5e9fc54612808977ee8f548b2258d31",
		},
		{
			desc: "RIPEMD160 abc",
			alg:  bonsai.RIPEMD160,
			in:   "abc",
			want: "8eb208f7e05d987a9b044a8e98c6b087f15a0bfc",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			h, err := New(tc.alg)
			if err != nil {
				t.Fatalf("New(%v): %v", tc.alg, err)
			}
			wantBytes, err := hex.DecodeString(tc.want)
			if err != nil {
				t.Fatalf("hex.DecodeString(%v): %v", tc.want, err)
			}
			got := h.Hash([]byte(tc.in))
			if !bytes.Equal(got, wantBytes) {
				t.Errorf("Hash(%q) = %x, want %x", tc.in, got, wantBytes)
			}
			if got, want := len(got), h.Size(); got != want {
				t.Errorf("digest is %d bytes, Size() = %d", got, want)
			}
			if got, want := h.Algorithm(), tc.alg; got != want {
				t.Errorf("Algorithm() = %v, want %v", got, want)
			}
		})
	}
}

func TestNewUnknownAlgorithm(t *testing.T) {
	for _, alg := range []bonsai.HashAlgorithm{bonsai.UnknownHashAlgorithm, bonsai.HashAlgorithm(250)} {
		if _, err := New(alg); errors.ErrorCode(err) != errors.InvalidEncoding {
			t.Errorf("New(%v) = %v, want InvalidEncoding", alg, err)
		}
	}
}

func TestHashDeterminism(t *testing.T) {
	data := []byte("the same input")
	for _, alg := range allAlgorithms {
		h, err := New(alg)
		if err != nil {
			t.Fatalf("New(%v): %v", alg, err)
		}
		if got, again := h.Hash(data), h.Hash(data); !bytes.Equal(got, again) {
			t.Errorf("%v: repeated Hash gave %x then %x", alg, got, again)
		}
	}
}

func TestHashWithSalt(t *testing.T) {
	data := []byte("payload")
	salt := []byte("pinch of salt")
	for _, alg := range allAlgorithms {
		h, err := New(alg)
		if err != nil {
			t.Fatalf("New(%v): %v", alg, err)
		}
		t.Run(alg.String(), func(t *testing.T) {
			// Empty and nil salts degenerate to the plain hash.
			plain := h.Hash(data)
			if got := h.HashWithSalt(data, nil); !bytes.Equal(got, plain) {
				t.Errorf("HashWithSalt(data, nil) = %x, want %x", got, plain)
			}
			if got := h.HashWithSalt(data, []byte{}); !bytes.Equal(got, plain) {
				t.Errorf("HashWithSalt(data, empty) = %x, want %x", got, plain)
			}

			// A salt changes the digest.
			salted := h.HashWithSalt(data, salt)
			if bytes.Equal(salted, plain) {
				t.Errorf("salted and unsalted digests both %x", salted)
			}

			// Different salts give different digests.
			if got := h.HashWithSalt(data, []byte("other salt")); bytes.Equal(got, salted) {
				t.Errorf("different salts both gave %x", got)
			}
		})
	}
}

// TestSaltFraming checks that shifting bytes between salt and data cannot
// produce the same digest, i.e. the framing is unambiguous.
func TestSaltFraming(t *testing.T) {
	for _, alg := range allAlgorithms {
		h, err := New(alg)
		if err != nil {
			t.Fatalf("New(%v): %v", alg, err)
		}
		got1 := h.HashWithSalt([]byte("c"), []byte("ab"))
		got2 := h.HashWithSalt([]byte("bc"), []byte("a"))
		if bytes.Equal(got1, got2) {
			t.Errorf("%v: salt/data splits of abc collide on %x", alg, got1)
		}
	}
}

func TestAlgorithmsDisagree(t *testing.T) {
	data := []byte("same bytes in")
	seen := map[string]bonsai.HashAlgorithm{}
	for _, alg := range allAlgorithms {
		h, err := New(alg)
		if err != nil {
			t.Fatalf("New(%v): %v", alg, err)
		}
		d := h.Hash(data).String()
		if prev, ok := seen[d]; ok {
			t.Errorf("%v and %v agree on %v", prev, alg, d)
		}
		seen[d] = alg
	}
}
