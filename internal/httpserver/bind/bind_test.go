package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

func jsonRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/bookmarks", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	de := domain.AsError(err)
	require.Equal(t, domain.KindValidation, de.Kind)
	return de.Message
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		r := jsonRequest(`{"url":"https://go.dev","title":"Go","tags":["lang"]}`, "application/json")
		req, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), r)
		require.NoError(t, err)
		assert.Equal(t, "https://go.dev", req.URL)
		assert.Equal(t, []string{"lang"}, req.Tags)
	})

	t.Run("missing content type is accepted", func(t *testing.T) {
		r := jsonRequest(`{"url":"https://go.dev","title":"Go"}`, "")
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), r)
		require.NoError(t, err)
	})

	t.Run("charset parameter is accepted", func(t *testing.T) {
		r := jsonRequest(`{"url":"https://go.dev","title":"Go"}`, "application/json; charset=utf-8")
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), r)
		require.NoError(t, err)
	})

	t.Run("wrong content type", func(t *testing.T) {
		r := jsonRequest(`{"url":"https://go.dev","title":"Go"}`, "text/plain")
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), r)
		assert.Contains(t, validationMessage(t, err), "application/json")
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), jsonRequest("", "application/json"))
		assert.Equal(t, "request body is empty", validationMessage(t, err))
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), jsonRequest(`{"url":`, "application/json"))
		validationMessage(t, err)
	})

	t.Run("wrong field type", func(t *testing.T) {
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), jsonRequest(`{"url":"https://go.dev","title":42}`, "application/json"))
		assert.Contains(t, validationMessage(t, err), "title")
	})

	t.Run("body too large", func(t *testing.T) {
		big := `{"url":"https://go.dev","title":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), jsonRequest(big, "application/json"))
		assert.Equal(t, "request body too large", validationMessage(t, err))
	})

	t.Run("trailing data is rejected", func(t *testing.T) {
		for _, body := range []string{
			`{"url":"https://go.dev","title":"Go"} trailing`,
			`{"url":"https://go.dev","title":"Go"}{"url":"https://a.b","title":"x"}`,
		} {
			_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), jsonRequest(body, "application/json"))
			assert.Equal(t, "request body must contain a single JSON value", validationMessage(t, err), body)
		}
	})

	t.Run("trailing whitespace is accepted", func(t *testing.T) {
		r := jsonRequest("{\"url\":\"https://go.dev\",\"title\":\"Go\"}\n  \n", "application/json")
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), r)
		require.NoError(t, err)
	})

	t.Run("rules are applied", func(t *testing.T) {
		r := jsonRequest(`{"url":"https://go.dev","title":""}`, "application/json")
		_, err := DecodeJSON[domain.CreateBookmarkRequest](httptest.NewRecorder(), r)
		assert.Equal(t, "title: Title must be 1-200 characters", validationMessage(t, err))
	})

	t.Run("update distinguishes absent from present", func(t *testing.T) {
		r := jsonRequest(`{"read":true}`, "application/json")
		req, err := DecodeJSON[domain.UpdateBookmarkRequest](httptest.NewRecorder(), r)
		require.NoError(t, err)
		require.NotNil(t, req.Read)
		assert.True(t, *req.Read)
		assert.Nil(t, req.URL)
		assert.Nil(t, req.Title)
		assert.Nil(t, req.Tags)
	})
}

func TestDecodeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		limit uint32
		want  domain.SearchParams
	}{
		{name: "defaults", query: "", limit: 100, want: domain.SearchParams{Size: 20}},
		{name: "all set", query: "tag=go&unread_only=true&page=2&size=5", limit: 100, want: domain.SearchParams{Tag: strPtr("go"), UnreadOnly: true, Page: 2, Size: 5}},
		{name: "empty tag is absent", query: "tag=", limit: 100, want: domain.SearchParams{Size: 20}},
		{name: "zero size falls back", query: "size=0", limit: 100, want: domain.SearchParams{Size: 20}},
		{name: "size capped", query: "size=5000", limit: 100, want: domain.SearchParams{Size: 100}},
		{name: "no cap", query: "size=5000", limit: 0, want: domain.SearchParams{Size: 5000}},
		{name: "unknown keys ignored", query: "foo=bar", limit: 100, want: domain.SearchParams{Size: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/bookmarks?"+tt.query, nil)
			got, err := DecodeQuery(r, 20, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeQuery_BadValues(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/bookmarks?page=-1&size=abc", nil)
	_, err := DecodeQuery(r, 20, 100)
	assert.Equal(t, "page: invalid value, size: invalid value", validationMessage(t, err))
}

func strPtr(s string) *string { return &s }
