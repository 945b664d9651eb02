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

// bonsai is a command line front end for the hashing, signing and Merkle
// tree packages. Results are rendered in the selected encoding; failed
// verifications exit with status 1, coded errors exit with a status
// derived from their code.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
)

var (
	hashAlgName  = "SHA256"
	sigAlgName   = "ECDSA"
	encodingName = "hex"
	inFile       string

	rootCmd = &cobra.Command{
		Use:           "bonsai",
		Short:         "Hashing, signing and Merkle inclusion proofs from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&hashAlgName, "hash_algorithm", hashAlgName, "Hash algorithm: SHA256, KECCAK256, BLAKE3 or RIPEMD160")
	rootCmd.PersistentFlags().StringVar(&sigAlgName, "signature_algorithm", sigAlgName, "Signature algorithm: ECDSA or ED25519")
	rootCmd.PersistentFlags().StringVar(&encodingName, "encoding", encodingName, "Encoding for rendering and parsing byte values: hex or base58")
}

// exitStatus maps a failure to a stable process exit status. Coded errors
// exit with 2 plus their code; anything untagged exits with 2. Status 1 is
// reserved for negative verification results.
func exitStatus(err error) int {
	return 2 + int(errors.ErrorCode(err))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bonsai: %v\n", err)
		os.Exit(exitStatus(err))
	}
}

func hashAlgorithm() (bonsai.HashAlgorithm, error) {
	alg, ok := bonsai.HashAlgorithmValue[strings.ToUpper(hashAlgName)]
	if !ok || alg == bonsai.UnknownHashAlgorithm {
		return alg, fmt.Errorf("unknown hash algorithm %q", hashAlgName)
	}
	return alg, nil
}

func signatureAlgorithm() (bonsai.SignatureAlgorithm, error) {
	alg, ok := bonsai.SignatureAlgorithmValue[strings.ToUpper(sigAlgName)]
	if !ok || alg == bonsai.UnknownSignatureAlgorithm {
		return alg, fmt.Errorf("unknown signature algorithm %q", sigAlgName)
	}
	return alg, nil
}

func encodeBytes(b []byte) (string, error) {
	switch encodingName {
	case "hex":
		return hex.EncodeToString(b), nil
	case "base58":
		return base58.Encode(b), nil
	}
	return "", fmt.Errorf("unknown encoding %q", encodingName)
}

func decodeString(s string) ([]byte, error) {
	switch encodingName {
	case "hex":
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Errorf(errors.InvalidEncoding, "not valid hex: %v", err)
		}
		return b, nil
	case "base58":
		b, err := base58.Decode(s)
		if err != nil {
			return nil, errors.Errorf(errors.InvalidEncoding, "not valid base58: %v", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown encoding %q", encodingName)
}

// messageBytes returns the operation input, either the single positional
// argument or the contents of the --in file.
func messageBytes(args []string) ([]byte, error) {
	if inFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("both --in and an argument given")
		}
		return os.ReadFile(inFile)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("no input given; pass an argument or --in")
	}
	return []byte(args[0]), nil
}
