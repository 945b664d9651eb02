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

package testonly

import (
	"io"
	"math/rand"
)

// DeterministicEntropy returns an entropy stream that yields the same
// bytes for the same seed. Not cryptographically secure, tests only.
func DeterministicEntropy(seed int64) io.Reader {
	return rand.New(rand.NewSource(seed))
}

// DepletedEntropy returns an entropy source with only n bytes left.
// Reads beyond that fail, which lets tests exercise generation paths
// whose entropy runs dry.
func DepletedEntropy(n int) io.Reader {
	return io.LimitReader(rand.New(rand.NewSource(1)), int64(n))
}
