package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrustedProxies(t *testing.T) {
	prefixes := ParseTrustedProxies([]string{"10.0.0.0/8", " 127.0.0.1 ", "", "not-an-ip", "::1", "192.168.1.7/16"})

	want := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("127.0.0.1/32"),
		netip.MustParsePrefix("::1/128"),
		netip.MustParsePrefix("192.168.0.0/16"),
	}
	assert.Equal(t, want, prefixes)
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "trusted proxy with X-Real-IP",
			remote:  "10.1.2.3:5555",
			headers: map[string]string{"X-Real-IP": "203.0.113.9"},
			want:    "203.0.113.9",
		},
		{
			name:    "trusted proxy with forwarded chain",
			remote:  "10.1.2.3:5555",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.4, 10.1.2.3"},
			want:    "198.51.100.4",
		},
		{
			name:    "X-Real-IP wins over X-Forwarded-For",
			remote:  "10.1.2.3:5555",
			headers: map[string]string{"X-Real-IP": "203.0.113.9", "X-Forwarded-For": "198.51.100.4"},
			want:    "203.0.113.9",
		},
		{
			name:    "untrusted client keeps remote address",
			remote:  "203.0.113.50:4444",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "203.0.113.50:4444",
		},
		{
			name:    "invalid header is ignored",
			remote:  "10.1.2.3:5555",
			headers: map[string]string{"X-Real-IP": "garbage"},
			want:    "10.1.2.3:5555",
		},
		{
			name:   "no headers",
			remote: "10.1.2.3:5555",
			want:   "10.1.2.3:5555",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP([]string{"10.0.0.0/8"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	req.RemoteAddr = "203.0.113.9"
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/reconcile", entry["path"])
	assert.Equal(t, float64(http.StatusCreated), entry["status"])
	assert.Equal(t, float64(5), entry["bytes"])
	assert.Equal(t, "203.0.113.9", entry["ip"])
	assert.Equal(t, "test-agent", entry["user_agent"])
}

func TestLogger_ServerErrorIsWarn(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
}
