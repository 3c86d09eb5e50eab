package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWriterTracksFullSizeBeyondLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	n, err := cw.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	_, err = cw.Write([]byte("abcd"))
	require.NoError(t, err)

	// The client sees the whole body; the buffer is capped at the
	// limit; size reflects everything written so an oversized response
	// is detectable and skipped by the cache store step.
	assert.Equal(t, "0123456789abcd", rec.Body.String())
	assert.Equal(t, "01234567", cw.buf.String())
	assert.Equal(t, int64(14), cw.size)
	assert.Greater(t, cw.size, cw.limit)
}

func TestCaptureWriterUnlimited(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 0}

	_, err := cw.Write([]byte("0123456789"))
	require.NoError(t, err)

	assert.Equal(t, "0123456789", cw.buf.String())
	assert.Equal(t, int64(10), cw.size)
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"available":true}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)

	// Garbled entries must not be served.
	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}
