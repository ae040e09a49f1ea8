package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aladhefafalquran/tts/internal/config"
	"github.com/aladhefafalquran/tts/internal/metrics"
	"github.com/aladhefafalquran/tts/internal/relay"
	"github.com/aladhefafalquran/tts/internal/scratch"
	"github.com/aladhefafalquran/tts/internal/tts"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProvider struct {
	audio []byte
	voice string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Synthesize(_ context.Context, _, outputPath, voiceName string, _ tts.Options) error {
	s.voice = voiceName
	return os.WriteFile(outputPath, s.audio, 0644)
}

func newTestRouter(t *testing.T, p tts.TTSProvider) (*gin.Engine, string) {
	t.Helper()
	static := t.TempDir()
	cfg := &config.Config{
		Engine:       "edge",
		DefaultVoice: relay.DefaultVoice,
		StaticDir:    static,
		TempDir:      t.TempDir(),
		MaxBodyBytes: 64 << 10,
	}
	reg := prometheus.NewRegistry()
	rl := relay.New(p, zerolog.Nop(), relay.Options{
		DefaultVoice: cfg.DefaultVoice,
		TempDir:      cfg.TempDir,
		Cleanup:      scratch.DefaultPolicy,
		Metrics:      metrics.New(reg),
	})
	return NewRouter(cfg, rl, zerolog.Nop(), reg), static
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestIndexPage(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	for _, path := range []string{"/", "/index.html"} {
		w := serve(r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

		page := w.Body.String()
		assert.Contains(t, page, `value="en-US-AriaNeural" selected`)
		assert.Contains(t, page, "ar-EG-ShakirNeural")
		assert.Contains(t, page, `min="-50"`)
		assert.Contains(t, page, `max="100"`)
		assert.Contains(t, page, `maxlength="5000"`)
	}
}

func TestFavicon(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	w := serve(r, http.MethodGet, "/favicon.ico", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestTTS_Success(t *testing.T) {
	p := &stubProvider{audio: []byte{0x49, 0x44, 0x33}}
	r, _ := newTestRouter(t, p)

	w := serve(r, http.MethodPost, "/tts", `{"text":"Hello world","voice":"en-GB-RyanNeural","rate":20}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	out := decode(t, w)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(p.audio), out["audio"])
	assert.Equal(t, "mp3", out["format"])
	assert.Equal(t, "en-GB-RyanNeural", out["voice"])
	assert.Equal(t, map[string]any{"rate": float64(20)}, out["settings"])
	assert.Equal(t, "en-GB-RyanNeural", p.voice)
}

func TestTTS_FailuresAre200(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{audio: []byte("x")})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{bad json`, relay.MsgInvalidJSON},
		{"empty body", ``, relay.MsgInvalidJSON},
		{"no text", `{"voice":"en-US-AriaNeural"}`, relay.MsgNoText},
		{"blank text", `{"text":"  "}`, relay.MsgNoText},
		{"too long", `{"text":"` + strings.Repeat("a", relay.MaxTextLength+1) + `"}`, relay.MsgTextTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/tts", tt.body)
			require.Equal(t, http.StatusOK, w.Code)
			out := decode(t, w)
			assert.Equal(t, map[string]any{"success": false, "error": tt.want}, out)
		})
	}
}

func TestTTS_BodyLimit(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{audio: []byte("x")})

	body := `{"text":"` + strings.Repeat("a", 128<<10) + `"}`
	w := serve(r, http.MethodPost, "/tts", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, relay.MsgInvalidJSON, decode(t, w)["error"])
}

func TestPreflight(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	for _, path := range []string{"/tts", "/", "/anything/else"} {
		w := serve(r, http.MethodOptions, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST", path)
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"), path)
	}
}

func TestStaticFallback(t *testing.T) {
	r, static := newTestRouter(t, &stubProvider{})
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.css"), []byte("body{}"), 0644))

	w := serve(r, http.MethodGet, "/app.css", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/missing.js", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticFallback_DirectoryListing(t *testing.T) {
	r, static := newTestRouter(t, &stubProvider{})
	require.NoError(t, os.Mkdir(filepath.Join(static, "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "assets", "a.css"), []byte("p{}"), 0644))

	w := serve(r, http.MethodGet, "/assets/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<a href="a.css">a.css</a>`)

	w = serve(r, http.MethodGet, "/assets/missing.css", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownPostIs404(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	for _, path := range []string{"/", "/speak", "/tts/extra"} {
		w := serve(r, http.MethodPost, path, `{"text":"hi"}`)
		require.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, false, decode(t, w)["success"], path)
	}
}

func TestVoicesAndHealth(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	w := serve(r, http.MethodGet, "/voices", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, relay.DefaultVoice, out["default"])
	assert.Len(t, out["voices"], 12)

	w = serve(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "ok", "engine": "edge"}, decode(t, w))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{audio: []byte("x")})

	serve(r, http.MethodPost, "/tts", `{"text":""}`)

	w := serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tts_requests_total{outcome="empty_text"} 1`)
}

func TestRequestID(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	w := serve(r, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
