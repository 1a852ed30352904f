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


// Package metrics provides Prometheus collectors for Skillmatch.
//
// Collectors are registered on the default registry at package init and
// exposed by the HTTP server at /metrics:
//
//   - skillmatch_api_requests_total, skillmatch_api_request_duration_seconds,
//     skillmatch_api_active_requests, skillmatch_api_rate_limit_hits_total
//   - skillmatch_embedding_duration_seconds, skillmatch_embedding_errors_total
//   - skillmatch_candidates_scored_total, skillmatch_candidates_recommended_total,
//     skillmatch_similarity_score
//   - skillmatch_embedder_breaker_state (0 closed, 1 half-open, 2 open)
//
// Monitor adapts these collectors to recommend.Monitor.
package metrics
