package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikewise/trail-pass-reservation/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Custom": {"a", "b"}}
	body := []byte(`{"remaining":6}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestDecodePayload_rejectsTruncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0})
	assert.False(t, ok)
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	key := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/stages/:id/availability")
		return cacheKeyFrom(cfg, c)
	}

	a := key("/v1/stages/3/availability?date=2026-07-14")
	b := key("/v1/stages/3/availability?date=2026-07-14")
	other := key("/v1/stages/3/availability?date=2026-07-15")

	assert.Equal(t, a, b, "same request must produce the same key")
	assert.NotEqual(t, a, other, "the query must participate in the key")
	assert.Contains(t, a, "cache:")
}
