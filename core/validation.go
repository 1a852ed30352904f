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
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//
// NOT validated:
//   - DesiredSkills (an empty list yields empty interest text)
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if err := getValidator().Struct(candidate); err != nil {
		return translate(err)
	}
	return nil
}

// ValidateRequest validates a RecommendRequest.
//
// Validation rules:
//   - every candidate has a non-empty ID
//   - candidate IDs are unique within the request
//
// Session fields are never validated; they default to empty text.
func ValidateRequest(req *RecommendRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	for i := range req.Candidates {
		if err := ValidateCandidate(&req.Candidates[i]); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
	}

	if err := getValidator().Struct(req); err != nil {
		return translate(err)
	}
	return nil
}

// translate maps validator errors onto the package's sentinel errors.
// Only the first failing field is reported.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrMissingCandidateID)
	case "unique":
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrDuplicateCandidateID)
	default:
		return fmt.Errorf("%w: %s failed %q", ErrInvalidCandidate, fe.Field(), fe.Tag())
	}
}
