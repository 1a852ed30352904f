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


// Package openai provides OpenAI-compatible implementations of the ai interfaces.
//
// This package implements ai.Embedder and ai.Provider using any service that
// exposes the OpenAI /v1/embeddings API, such as Ollama, LocalAI, vLLM or
// OpenAI itself.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434/v1"),
//	    ai.WithModel("all-minilm"),
//	)
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	embedding, err := provider.Embedder().EmbedText(ctx, "hiking camping")
//
// # Configuration
//
// The provider requires:
//   - Host: Base URL for the OpenAI-compatible API (must end with /v1)
//   - Model: Model name for embeddings
//
// APIKey is optional; local servers accept any token.
package openai
