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


// Package server exposes a Recommender over HTTP.
//
// Routes:
//
//	POST /recommend-users   session + users in, {"recommendedUserIds": [...]} out
//	GET  /health/live       process is up
//	GET  /health/ready      embedding backend answers a probe
//	GET  /metrics           Prometheus exposition
//
// Every error response has the shape
//
//	{"type": "error", "code": "VALIDATION_ERROR", "message": "..."}
//
// Service runs the HTTP server under a suture supervisor.
package server
