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

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Session describes the topic a set of users is being matched against.
// Zero values are valid: a missing title, description or hashtag list is
// treated as empty text.
type Session struct {
	Title       string
	Description string
	Hashtags    []string
}

// Candidate is a user that may be recommended for a session.
type Candidate struct {
	ID            string   `validate:"required"`
	DesiredSkills []string // Skills the user wants to learn; forms the interest text
}

// RecommendRequest is the typed form of a recommendation request after
// boundary defaulting has been applied.
type RecommendRequest struct {
	Session    Session
	Candidates []Candidate `validate:"unique=ID"`
}

// RecommendResponse is the result of a recommendation request.
type RecommendResponse struct {
	RecommendedUserIDs []string `json:"recommendedUserIds"`
}

// CandidateScore pairs a candidate ID with its similarity to the session.
type CandidateScore struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Accepted bool    `json:"accepted"`
}

// Fingerprint returns a short, stable BLAKE2b digest of text.
// It lets logs correlate identical queries without recording user text.
func Fingerprint(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
