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


// Package ai provides the text embedding abstraction used by Skillmatch.
//
// Recommendation logic depends only on the Embedder interface, so the model
// backend can be swapped without touching scoring code.
//
// # Implementation Packages
//
//   - ai/openai: any OpenAI-compatible /v1/embeddings endpoint (Ollama, LocalAI, vLLM)
//   - ai/gemini: the Google Gemini embedding API
//   - ai/sbert: sentence-transformers running in local Python worker processes
//   - ai/mock: deterministic test doubles
//
// # Decorators
//
// Embedders compose. A typical production stack is:
//
//	base, _ := openai.NewEmbedder(cfg)
//	par, _ := ai.NewParallelEmbedder(base, cfg.BatchSize, cfg.PoolSize)
//	defer par.Release()
//	emb := ai.NewBreakerEmbedder(par, ai.BreakerSettings{Name: "openai"})
//
// NewParallelEmbedder splits large batches across a bounded worker pool.
// NewBreakerEmbedder fails fast with ErrEmbedderUnavailable while the backend
// is down. Probe checks reachability at startup and reports the vector dimension.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return the ai.Embedder and
// ai.Provider interfaces. Test doubles in ai/mock return concrete types so
// tests can inject behavior and inspect call counts.
package ai
