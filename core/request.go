package core

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// wireRequest mirrors the JSON payload. Session fields are kept raw so that
// malformed values can be defaulted instead of failing the whole request.
type wireRequest struct {
	Title       json.RawMessage `json:"title"`
	Description json.RawMessage `json:"description"`
	Hashtags    json.RawMessage `json:"hashtags"`
	Users       json.RawMessage `json:"users"`
}

type wireUser struct {
	ID            json.RawMessage `json:"_id"`
	DesiredSkills json.RawMessage `json:"desiredSkills"`
}

// DecodeRecommendRequest parses a JSON recommendation payload.
//
// Defaulting rules:
//   - title, description: missing, null or non-string values become ""
//   - hashtags, desiredSkills: missing, null or non-array values become empty;
//     non-string elements of an array are skipped
//   - users: missing or null becomes an empty candidate list
//
// The payload itself, the users field and each user entry must have the
// right JSON shape; otherwise ErrInvalidRequest is returned. A user _id that
// is present but not a string is reported as ErrInvalidCandidate. Missing ids
// are left empty for ValidateRequest to reject.
func DecodeRecommendRequest(data []byte) (*RecommendRequest, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidRequest)
	}
	if data[0] != '{' && !isNull(data) {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidRequest)
	}

	var wire wireRequest
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	users, err := userEntries(wire.Users)
	if err != nil {
		return nil, err
	}

	req := &RecommendRequest{
		Session: Session{
			Title:       stringOrEmpty(wire.Title),
			Description: stringOrEmpty(wire.Description),
			Hashtags:    stringsOrEmpty(wire.Hashtags),
		},
		Candidates: make([]Candidate, 0, len(users)),
	}

	for i, raw := range users {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, fmt.Errorf("%w: users[%d] must be an object", ErrInvalidRequest, i)
		}

		var user wireUser
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("%w: users[%d]: %v", ErrInvalidRequest, i, err)
		}

		id, ok := idString(user.ID)
		if !ok {
			return nil, fmt.Errorf("%w: users[%d]._id must be a string", ErrInvalidCandidate, i)
		}

		req.Candidates = append(req.Candidates, Candidate{
			ID:            id,
			DesiredSkills: stringsOrEmpty(user.DesiredSkills),
		})
	}

	return req, nil
}

// userEntries splits the users field into raw entries. Absent and null
// mean no users.
func userEntries(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, fmt.Errorf("%w: users must be an array", ErrInvalidRequest)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: users must be an array", ErrInvalidRequest)
	}
	return entries, nil
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func stringOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// stringsOrEmpty keeps the string elements of a JSON array and skips the
// rest, so ["hiking", 1] yields ["hiking"]. Anything but an array is empty.
func stringsOrEmpty(raw json.RawMessage) []string {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	items := make([]string, 0, len(elems))
	for _, elem := range elems {
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			continue
		}
		items = append(items, s)
	}
	return items
}

// idString returns the id and whether it had an acceptable type.
// Absent and null ids are acceptable here and come back empty.
func idString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || isNull(raw) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
