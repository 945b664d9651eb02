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

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
)

func TestExitStatus(t *testing.T) {
	tests := []struct {
		desc string
		err  error
		want int
	}{
		{desc: "untagged", err: os.ErrNotExist, want: 2},
		{desc: "invalid-key", err: errors.New(errors.InvalidKey, "bad key"), want: 3},
		{desc: "invalid-encoding", err: errors.New(errors.InvalidEncoding, "bad bytes"), want: 4},
		{desc: "invalid-signature", err: errors.New(errors.InvalidSignature, "sign failed"), want: 5},
		{desc: "entropy-exhausted", err: errors.New(errors.EntropyExhausted, "dry"), want: 6},
		{desc: "empty-input", err: errors.New(errors.EmptyInput, "no items"), want: 7},
		{desc: "tree-not-built", err: errors.New(errors.TreeNotBuilt, "no tree"), want: 8},
		{desc: "index-out-of-range", err: errors.New(errors.IndexOutOfRange, "index 9"), want: 9},
		{desc: "malformed-proof", err: errors.New(errors.MalformedProof, "bad proof"), want: 10},
		{desc: "wrapped", err: fmt.Errorf("tree prove: %w", errors.New(errors.IndexOutOfRange, "leaf index 9 outside [0, 4)")), want: 9},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			if got := exitStatus(test.err); got != test.want {
				t.Errorf("exitStatus()=%d, want %d", got, test.want)
			}
		})
	}
}

func TestEncodingRoundTrip(t *testing.T) {
	defer func(old string) { encodingName = old }(encodingName)
	data := []byte{0x00, 0x01, 0xfe, 0xff}
	for _, enc := range []string{"hex", "base58"} {
		t.Run(enc, func(t *testing.T) {
			encodingName = enc
			s, err := encodeBytes(data)
			if err != nil {
				t.Fatalf("encodeBytes()=%v, want nil", err)
			}
			got, err := decodeString(s)
			if err != nil {
				t.Fatalf("decodeString(%q)=%v, want nil", s, err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("decodeString(encodeBytes())=%x, want %x", got, data)
			}
		})
	}

	encodingName = "hex"
	if _, err := decodeString("zz"); errors.ErrorCode(err) != errors.InvalidEncoding {
		t.Errorf("decodeString(non-hex)=%v, want code %v", err, errors.InvalidEncoding)
	}
	encodingName = "base58"
	if _, err := decodeString("0OIl"); errors.ErrorCode(err) != errors.InvalidEncoding {
		t.Errorf("decodeString(non-base58)=%v, want code %v", err, errors.InvalidEncoding)
	}
	encodingName = "rot13"
	if _, err := encodeBytes(data); err == nil {
		t.Errorf("encodeBytes() with unknown encoding=nil, want error")
	}
	if _, err := decodeString("00"); err == nil {
		t.Errorf("decodeString() with unknown encoding=nil, want error")
	}
}

func TestMessageBytes(t *testing.T) {
	defer func(old string) { inFile = old }(inFile)

	inFile = ""
	got, err := messageBytes([]string{"hello"})
	if err != nil {
		t.Fatalf("messageBytes(arg)=%v, want nil", err)
	}
	if want := []byte("hello"); !bytes.Equal(got, want) {
		t.Errorf("messageBytes(arg)=%q, want %q", got, want)
	}
	if _, err := messageBytes(nil); err == nil {
		t.Errorf("messageBytes() with no input=nil, want error")
	}
	if _, err := messageBytes([]string{"a", "b"}); err == nil {
		t.Errorf("messageBytes() with two arguments=nil, want error")
	}

	path := filepath.Join(t.TempDir(), "msg")
	if err := os.WriteFile(path, []byte("from a file"), 0644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}
	inFile = path
	got, err = messageBytes(nil)
	if err != nil {
		t.Fatalf("messageBytes(file)=%v, want nil", err)
	}
	if want := []byte("from a file"); !bytes.Equal(got, want) {
		t.Errorf("messageBytes(file)=%q, want %q", got, want)
	}
	if _, err := messageBytes([]string{"also an arg"}); err == nil {
		t.Errorf("messageBytes() with file and argument=nil, want error")
	}
}

func TestTreeItems(t *testing.T) {
	defer func(old string) { inFile = old }(inFile)

	inFile = ""
	items, err := treeItems([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("treeItems(args)=%v, want nil", err)
	}
	if got, want := len(items), 3; got != want {
		t.Fatalf("treeItems(args) returned %d items, want %d", got, want)
	}
	if !bytes.Equal(items[2], []byte("c")) {
		t.Errorf("items[2]=%q, want %q", items[2], "c")
	}

	path := filepath.Join(t.TempDir(), "items")
	if err := os.WriteFile(path, []byte("a\nb\nc\n"), 0644); err != nil {
		t.Fatalf("failed to write items file: %v", err)
	}
	inFile = path
	items, err = treeItems(nil)
	if err != nil {
		t.Fatalf("treeItems(file)=%v, want nil", err)
	}
	if got, want := len(items), 3; got != want {
		t.Fatalf("treeItems(file) returned %d items, want %d", got, want)
	}
	if _, err := treeItems([]string{"extra"}); err == nil {
		t.Errorf("treeItems() with file and arguments=nil, want error")
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("failed to write items file: %v", err)
	}
	inFile = empty
	items, err = treeItems(nil)
	if err != nil {
		t.Fatalf("treeItems(empty file)=%v, want nil", err)
	}
	if len(items) != 0 {
		t.Errorf("treeItems(empty file) returned %d items, want 0", len(items))
	}
}

func TestAlgorithmFlags(t *testing.T) {
	defer func(oldHash, oldSig string) { hashAlgName, sigAlgName = oldHash, oldSig }(hashAlgName, sigAlgName)

	hashAlgName = "keccak256"
	alg, err := hashAlgorithm()
	if err != nil {
		t.Fatalf("hashAlgorithm()=%v, want nil", err)
	}
	if got, want := alg, bonsai.Keccak256; got != want {
		t.Errorf("hashAlgorithm()=%v, want %v", got, want)
	}
	hashAlgName = "SHA1"
	if _, err := hashAlgorithm(); err == nil {
		t.Errorf("hashAlgorithm(SHA1)=nil, want error")
	}
	hashAlgName = "UNKNOWN"
	if _, err := hashAlgorithm(); err == nil {
		t.Errorf("hashAlgorithm(UNKNOWN)=nil, want error")
	}

	sigAlgName = "ed25519"
	salg, err := signatureAlgorithm()
	if err != nil {
		t.Fatalf("signatureAlgorithm()=%v, want nil", err)
	}
	if got, want := salg, bonsai.Ed25519; got != want {
		t.Errorf("signatureAlgorithm()=%v, want %v", got, want)
	}
	sigAlgName = "RSA"
	if _, err := signatureAlgorithm(); err == nil {
		t.Errorf("signatureAlgorithm(RSA)=nil, want error")
	}
}
