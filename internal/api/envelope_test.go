package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformerSuccess(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"hello": "world"})
	require.NoError(t, err)

	envelope, ok := result.(*Envelope)
	require.True(t, ok)
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data)
	assert.Nil(t, envelope.Error)
}

func TestEnvelopeTransformerNilBody(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "204", nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEnvelopeTransformerAPIError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "404", &APIError{
		status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: "Resource not found",
	})
	require.NoError(t, err)

	envelope, ok := result.(*Envelope)
	require.True(t, ok)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	assert.Equal(t, "Resource not found", envelope.Error.Message)
}

func TestVerseAudioRedirect(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audio/262", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://cdn.test/262.mp3", rec.Header().Get("Location"))
}

func TestVerseAudioRejectsBadID(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"not a number", "/api/v1/audio/abc", http.StatusBadRequest},
		{"zero", "/api/v1/audio/0", http.StatusNotFound},
		{"past the end", "/api/v1/audio/6237", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			ts.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
