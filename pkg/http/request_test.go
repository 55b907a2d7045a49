package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP_RemoteAddrOnly(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:4411"
	assert.Equal(t, "203.0.113.7", ClientIP(r, nil))
}

func TestClientIP_SpoofedHeaderIgnored(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:4411"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")

	// 203.0.113.7 is not a trusted proxy, so the header is ignored
	assert.Equal(t, "203.0.113.7", ClientIP(r, []string{"10.0.0.0/8"}))
}

func TestClientIP_TrustedProxyForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:4411"
	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.1.2.3")

	assert.Equal(t, "198.51.100.1", ClientIP(r, []string{"10.0.0.0/8"}))
}

func TestClientIP_TrustedProxyRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:4411"
	r.Header.Set("X-Real-IP", "198.51.100.9")

	assert.Equal(t, "198.51.100.9", ClientIP(r, []string{"10.0.0.0/8"}))
}
