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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/google/bonsai/crypto"
)

var (
	signKey string

	signCmd = &cobra.Command{
		Use:   "sign [message]",
		Short: "Signs a message with a private key.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  signMain,
	}
)

func init() {
	signCmd.Flags().StringVar(&signKey, "key", "", "Private key in the selected encoding")
	signCmd.Flags().StringVar(&inFile, "in", "", "Read the message from a file instead of the argument")
	rootCmd.AddCommand(signCmd)
}

func signMain(_ *cobra.Command, args []string) error {
	if signKey == "" {
		return fmt.Errorf("sign: --key is required")
	}
	alg, err := signatureAlgorithm()
	if err != nil {
		return err
	}
	raw, err := decodeString(signKey)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	priv, err := crypto.ParsePrivateKey(alg, raw)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	msg, err := messageBytes(args)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	scheme, err := crypto.NewScheme(alg)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	sig, err := scheme.Sign(priv, msg)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	out, err := encodeBytes(sig.Bytes())
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
