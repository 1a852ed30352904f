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


// Package recommend scores candidate users against a session by embedding
// similarity.
//
// A Recommender normalizes the session text and each candidate's interest
// text, embeds them with an injected ai.Embedder (one call for the session,
// one batched call for all candidates), and keeps the candidates whose cosine
// similarity to the session is at least the threshold. Results keep the
// input order; nothing is sorted or capped.
//
// The Recommender holds no per-request state and is safe for concurrent use.
package recommend
