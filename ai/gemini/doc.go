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


// Package gemini implements ai.Embedder and ai.Provider on the Google Gemini
// embedding API via google.golang.org/genai.
//
//	config := ai.NewConfig(
//	    ai.WithBackend(ai.BackendGemini),
//	    ai.WithModel("text-embedding-004"),
//	    ai.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	)
//	provider, err := gemini.NewProvider(ctx, config)
//
// Batches are sent as a single EmbedContent call with one content per text.
package gemini
