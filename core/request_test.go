package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecommendRequest(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		body := `{
			"title": "Hiking Trip",
			"description": "Weekend hike",
			"hashtags": ["outdoors", "nature"],
			"users": [
				{"_id": "u1", "desiredSkills": ["hiking", "camping"]},
				{"_id": "u2", "desiredSkills": ["accounting", "tax law"]}
			]
		}`

		req, err := DecodeRecommendRequest([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, "Hiking Trip", req.Session.Title)
		assert.Equal(t, "Weekend hike", req.Session.Description)
		assert.Equal(t, []string{"outdoors", "nature"}, req.Session.Hashtags)
		require.Len(t, req.Candidates, 2)
		assert.Equal(t, "u1", req.Candidates[0].ID)
		assert.Equal(t, []string{"hiking", "camping"}, req.Candidates[0].DesiredSkills)
		assert.Equal(t, "u2", req.Candidates[1].ID)
	})

	t.Run("missing fields default to empty", func(t *testing.T) {
		req, err := DecodeRecommendRequest([]byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, Session{}, req.Session)
		assert.NotNil(t, req.Candidates)
		assert.Empty(t, req.Candidates)
	})

	t.Run("null body behaves like empty object", func(t *testing.T) {
		req, err := DecodeRecommendRequest([]byte(`null`))
		require.NoError(t, err)
		assert.Empty(t, req.Candidates)
	})

	t.Run("malformed session fields default to empty", func(t *testing.T) {
		body := `{"title": 42, "description": {"x": 1}, "hashtags": "outdoors", "users": []}`
		req, err := DecodeRecommendRequest([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, "", req.Session.Title)
		assert.Equal(t, "", req.Session.Description)
		assert.Nil(t, req.Session.Hashtags)
	})

	t.Run("non-string elements are skipped", func(t *testing.T) {
		req, err := DecodeRecommendRequest([]byte(`{"hashtags": ["hiking", 1, null, "camping"], "users": [{"_id": "u1", "desiredSkills": [{"x": 1}, "rust"]}]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"hiking", "camping"}, req.Session.Hashtags)
		require.Len(t, req.Candidates, 1)
		assert.Equal(t, []string{"rust"}, req.Candidates[0].DesiredSkills)
	})

	t.Run("malformed desiredSkills default to empty", func(t *testing.T) {
		req, err := DecodeRecommendRequest([]byte(`{"users": [{"_id": "u1", "desiredSkills": null}, {"_id": "u2", "desiredSkills": 7}]}`))
		require.NoError(t, err)
		require.Len(t, req.Candidates, 2)
		assert.Nil(t, req.Candidates[0].DesiredSkills)
		assert.Nil(t, req.Candidates[1].DesiredSkills)
	})

	t.Run("missing id is left for validation", func(t *testing.T) {
		req, err := DecodeRecommendRequest([]byte(`{"users": [{"desiredSkills": ["go"]}]}`))
		require.NoError(t, err)
		require.Len(t, req.Candidates, 1)
		assert.Equal(t, "", req.Candidates[0].ID)
	})

	t.Run("non-string id is rejected", func(t *testing.T) {
		_, err := DecodeRecommendRequest([]byte(`{"users": [{"_id": 12}]}`))
		assert.ErrorIs(t, err, ErrInvalidCandidate)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := DecodeRecommendRequest([]byte("   "))
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := DecodeRecommendRequest([]byte("title=hiking"))
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("array body", func(t *testing.T) {
		_, err := DecodeRecommendRequest([]byte(`[{"_id": "u1"}]`))
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("users is not an array", func(t *testing.T) {
		for _, body := range []string{`{"users": {"_id": "u1"}}`, `{"users": "x"}`, `{"users": 3}`} {
			_, err := DecodeRecommendRequest([]byte(body))
			require.ErrorIs(t, err, ErrInvalidRequest, body)
			assert.Contains(t, err.Error(), "users must be an array", body)
		}
	})

	t.Run("user entry is not an object", func(t *testing.T) {
		_, err := DecodeRecommendRequest([]byte(`{"users": ["u1"]}`))
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
