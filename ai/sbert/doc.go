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


// Package sbert runs sentence-transformers models in local Python worker
// processes and exposes them as an ai.Embedder.
//
// Each worker is a long-lived "python3 -u" process executing an embedded
// encoder script. Go and Python exchange one JSON object per line:
//
//	-> {"model": "all-MiniLM-L6-v2"}
//	<- {"status": "ready", "dim": 384}
//	-> {"texts": ["hiking camping", "tax law"]}
//	<- {"vectors": [[...], [...]]}
//
// A failed batch is answered with {"error": "..."} and the worker stays up.
// The model is loaded once per worker at startup; requests borrow an idle
// worker and return it when done.
package sbert
