package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDTestRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		*capture = c.GetString(ContextRequestID)
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestRequestIDKeepsInboundHeader(t *testing.T) {
	var seen string
	r := requestIDTestRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "frontdesk-12345")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "frontdesk-12345", seen)
	assert.Equal(t, "frontdesk-12345", w.Header().Get(HeaderXRequestID))
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	var seen string
	r := requestIDTestRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(HeaderXRequestID))
}
