package httputil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRawJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteRawJSON(rec, http.StatusTeapot, ErrorResp{Message: "a<b"}))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\"message\":\"a<b\"}\n", rec.Body.String())

	var back ErrorResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &back))
	assert.Equal(t, "a<b", back.Message)
}

func TestVersionFromContext(t *testing.T) {
	assert.Empty(t, VersionFromContext(context.Background()))
	ctx := context.WithValue(context.Background(), APIVersionKey{}, "1.0")
	assert.Equal(t, "1.0", VersionFromContext(ctx))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", ClientIP(req))

	req.RemoteAddr = "10.1.2.3"
	assert.Equal(t, "10.1.2.3", ClientIP(req))
}
