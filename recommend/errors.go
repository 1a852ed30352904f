// Copyright 2025 Poiesic Systems
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


package recommend

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidThreshold is returned for thresholds outside [-1, 1].
	ErrInvalidThreshold = errors.New("threshold must be within [-1, 1]")

	// ErrEmbeddingMismatch is returned when the embedder breaks its contract:
	// a different number of vectors than texts, or vectors of differing length.
	ErrEmbeddingMismatch = errors.New("embedding mismatch")
)
