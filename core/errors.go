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


package core

import "errors"

// Request shape and validation errors
var (
	// ErrInvalidRequest indicates the payload could not be read as a request object.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidCandidate indicates a candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrMissingCandidateID indicates a candidate has no identifier.
	ErrMissingCandidateID = errors.New("candidate id is required")

	// ErrDuplicateCandidateID indicates two candidates share an identifier.
	ErrDuplicateCandidateID = errors.New("candidate ids must be unique")
)
