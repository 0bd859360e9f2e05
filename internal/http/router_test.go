package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-contact-site/internal/config"
	"github.com/tbourn/go-contact-site/internal/domain"
	"github.com/tbourn/go-contact-site/internal/repo"
)

type site struct {
	r     *gin.Engine
	store *repo.JSONFileStore
}

// newSite builds a router over a temp web root and a JSON file store.
// tweak may adjust the config before routes are registered.
func newSite(t *testing.T, tweak func(*config.Config)) *site {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := t.TempDir()
	web := filepath.Join(base, "web")
	if err := os.MkdirAll(filepath.Join(web, "css"), 0o755); err != nil {
		t.Fatal(err)
	}
	index := "<!doctype html><title>home</title>" + strings.Repeat("<p>hello</p>", 100)
	mustWrite(t, filepath.Join(web, "index.html"), index)
	mustWrite(t, filepath.Join(web, "css", "site.css"), "body{margin:0}")
	mustWrite(t, filepath.Join(base, "server-config-secret"), "TOP SECRET")

	cfg := config.Config{
		StaticRoot:   web,
		IndexFile:    "index.html",
		DataDir:      filepath.Join(base, "data"),
		MaxBodyBytes: 1_000_000,
		RateRPS:      100,
		RateBurst:    100,
		Security:     config.SecurityConfig{CSPSources: []string{"https://fonts.example.com"}},
		OTEL:         config.OTELConfig{ServiceName: "test-svc"},
	}
	if tweak != nil {
		tweak(&cfg)
	}

	store := repo.NewJSONFileStore(cfg.DataDir, "submissions.json")
	r := gin.New()
	if err := RegisterRoutes(r, store, cfg); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return &site{r: r, store: store}
}

func mustWrite(t *testing.T, p, body string) {
	t.Helper()
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (s *site) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *site) stored(t *testing.T) []domain.Submission {
	t.Helper()
	raw, err := os.ReadFile(s.store.Path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	var subs []domain.Submission
	if err := json.Unmarshal(raw, &subs); err != nil {
		t.Fatalf("decode store: %v", err)
	}
	return subs
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return m
}

const janeBody = `{"name":"Jane","phone":"+1555","subject":"Quote","message":"Hi"}`

func TestRegisterRoutes_Health_Metrics_CORSAllowAll(t *testing.T) {
	s := newSite(t, nil)

	w := s.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers missing")
	}

	w = s.do(http.MethodGet, "/metrics", "", map[string]string{"Accept-Encoding": "gzip"})
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}
	if w.Header().Get("Content-Encoding") == "gzip" {
		t.Fatalf("/metrics must not be gzip-wrapped by the middleware")
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("expected http metrics in scrape")
	}

	// Swagger is off by default; the path falls through to the static site.
	if w := s.do(http.MethodGet, "/swagger/index.html", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /swagger/index.html with swagger disabled = %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	s := newSite(t, func(c *config.Config) {
		c.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	})

	w := s.do(http.MethodGet, "/api/contact", "", map[string]string{"Origin": "http://example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/contact = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestContactScenarios(t *testing.T) {
	s := newSite(t, nil)

	w := s.do(http.MethodGet, "/api/contact", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/contact = %d", w.Code)
	}
	if m := envelope(t, w); m["ok"] != true || m["message"] != "Contact endpoint is running." {
		t.Fatalf("status body = %v", m)
	}
	if len(s.stored(t)) != 0 {
		t.Fatalf("GET must not touch the store")
	}

	w = s.do(http.MethodPost, "/api/contact", janeBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST Jane = %d %s", w.Code, w.Body.String())
	}
	if m := envelope(t, w); m["ok"] != true || m["message"] != "Message sent successfully." {
		t.Fatalf("POST Jane body = %v", m)
	}
	subs := s.stored(t)
	if len(subs) != 1 {
		t.Fatalf("store length = %d; want 1", len(subs))
	}
	if got := subs[0]; got.Name != "Jane" || got.Phone != "+1555" || got.Subject != "Quote" || got.Message != "Hi" {
		t.Fatalf("stored record = %+v", got)
	}

	w = s.do(http.MethodPost, "/api/contact", `{"name":"","phone":"+1555","subject":"Quote","message":"Hi"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST empty name = %d", w.Code)
	}
	if m := envelope(t, w); m["ok"] != false {
		t.Fatalf("POST empty name body = %v", m)
	}
	if len(s.stored(t)) != 1 {
		t.Fatalf("store changed on rejected submission")
	}

	w = s.do(http.MethodPost, "/api/contact", `{"name":`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST malformed = %d", w.Code)
	}
}

func TestContact_StoresTrimmedInputUnchanged(t *testing.T) {
	s := newSite(t, nil)

	// "Jose" with a combining acute accent must not be recomposed.
	const name = "Jose\u0301"
	body := `{"name":"  ` + name + ` ","phone":"+1555","subject":"Quote","message":"Hi"}`
	if w := s.do(http.MethodPost, "/api/contact", body, nil); w.Code != http.StatusOK {
		t.Fatalf("POST = %d %s", w.Code, w.Body.String())
	}
	subs := s.stored(t)
	if len(subs) != 1 {
		t.Fatalf("store length = %d; want 1", len(subs))
	}
	if subs[0].Name != name {
		t.Fatalf("stored name = %q (%d bytes); want %q (%d bytes)", subs[0].Name, len(subs[0].Name), name, len(name))
	}
}

func TestContact_SequentialIDsUniqueAndOrdered(t *testing.T) {
	s := newSite(t, nil)

	const n = 10
	for i := 0; i < n; i++ {
		body := `{"name":"N` + string(rune('a'+i)) + `","phone":"1","subject":"s","message":"m"}`
		if w := s.do(http.MethodPost, "/api/contact", body, nil); w.Code != http.StatusOK {
			t.Fatalf("POST %d = %d", i, w.Code)
		}
	}
	subs := s.stored(t)
	if len(subs) != n {
		t.Fatalf("len = %d; want %d", len(subs), n)
	}
	for i := range subs {
		if subs[i].Name != "N"+string(rune('a'+i)) {
			t.Fatalf("record %d out of order: %q", i, subs[i].Name)
		}
		if i > 0 && subs[i].ID <= subs[i-1].ID {
			t.Fatalf("ids not strictly increasing: %d then %d", subs[i-1].ID, subs[i].ID)
		}
	}
}

func TestStaticScenarios(t *testing.T) {
	s := newSite(t, nil)

	w := s.do(http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("GET / Content-Type = %q", ct)
	}
	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "'self'") || !strings.Contains(csp, "https://fonts.example.com") {
		t.Fatalf("CSP = %q", csp)
	}

	if w := s.do(http.MethodGet, "/nonexistent.html", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nonexistent.html = %d", w.Code)
	}

	for _, p := range []string{
		"/../server-config-secret",
		"/%2e%2e/server-config-secret",
		"/..%2fserver-config-secret",
		"/css/../../server-config-secret",
	} {
		w := s.do(http.MethodGet, p, "", nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("GET %s = %d; want 403", p, w.Code)
		}
		if strings.Contains(w.Body.String(), "SECRET") {
			t.Fatalf("GET %s leaked the secret", p)
		}
	}

	a := s.do(http.MethodGet, "/css/site.css", "", nil)
	b := s.do(http.MethodGet, "/css/site.css", "", nil)
	if a.Code != http.StatusOK || a.Body.String() != b.Body.String() ||
		a.Header().Get("Content-Type") != b.Header().Get("Content-Type") {
		t.Fatalf("repeated GETs differ")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newSite(t, nil)

	tests := []struct{ method, path string }{
		{http.MethodPost, "/health"},
		{http.MethodPut, "/api/contact"},
		{http.MethodDelete, "/api/contact"},
		{http.MethodPost, "/index.html"},
		{http.MethodPut, "/anything"},
	}
	for _, tc := range tests {
		w := s.do(tc.method, tc.path, "", nil)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s = %d; want 405", tc.method, tc.path, w.Code)
		}
		if m := envelope(t, w); m["ok"] != false || m["message"] != "Method not allowed." {
			t.Fatalf("%s %s body = %v", tc.method, tc.path, m)
		}
	}
}

func TestContact_RateLimited(t *testing.T) {
	s := newSite(t, func(c *config.Config) {
		c.RateRPS = 0.0001
		c.RateBurst = 1
	})

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(janeBody))
		req.RemoteAddr = net.JoinHostPort("198.51.100.7", "5000")
		w := httptest.NewRecorder()
		s.r.ServeHTTP(w, req)
		return w
	}

	if w := post(); w.Code != http.StatusOK {
		t.Fatalf("first POST = %d", w.Code)
	}
	if w := post(); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST = %d; want 429", w.Code)
	}
	if len(s.stored(t)) != 1 {
		t.Fatalf("rate-limited request must not be stored")
	}
	// GET is not rate limited.
	if w := s.do(http.MethodGet, "/api/contact", "", nil); w.Code != http.StatusOK {
		t.Fatalf("GET after limit = %d", w.Code)
	}
}

func TestContact_BodyLimit413(t *testing.T) {
	s := newSite(t, func(c *config.Config) { c.MaxBodyBytes = 64 })

	big := `{"name":"Jane","phone":"+1555","subject":"Quote","message":"` + strings.Repeat("x", 500) + `"}`
	w := s.do(http.MethodPost, "/api/contact", big, nil)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized POST = %d", w.Code)
	}
	if m := envelope(t, w); m["code"] != "payload_too_large" {
		t.Fatalf("body = %v", m)
	}
	if len(s.stored(t)) != 0 {
		t.Fatalf("oversized request must not be stored")
	}
}

func TestStatic_Gzip(t *testing.T) {
	s := newSite(t, nil)

	w := s.do(http.MethodGet, "/", "", map[string]string{"Accept-Encoding": "gzip"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", w.Header().Get("Content-Encoding"))
	}
	if bytes.Contains(w.Body.Bytes(), []byte("<title>home</title>")) {
		t.Fatalf("body should be compressed")
	}
}

func TestSwaggerEnabled(t *testing.T) {
	s := newSite(t, func(c *config.Config) { c.SwaggerEnabled = true })

	w := s.do(http.MethodGet, "/swagger/doc.json", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /swagger/doc.json = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/contact") {
		t.Fatalf("doc.json does not describe the contact endpoint")
	}
}

func TestStoreFailure_500WithFallback(t *testing.T) {
	s := newSite(t, func(c *config.Config) {
		c.Contact = config.ContactConfig{Email: "hello@example.com", WhatsAppNumber: "15551234567"}
	})
	// Block the data directory with a regular file.
	mustWrite(t, filepath.Dir(s.store.Path()), "blocker")

	w := s.do(http.MethodPost, "/api/contact", janeBody, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("POST with broken store = %d", w.Code)
	}
	m := envelope(t, w)
	if m["message"] != "Server error while saving message." {
		t.Fatalf("body = %v", m)
	}
	fb, _ := m["fallback"].(map[string]any)
	if fb == nil || !strings.HasPrefix(fb["mailto"].(string), "mailto:hello@example.com") {
		t.Fatalf("fallback = %v", m["fallback"])
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("short")))
	if w.Code != http.StatusOK {
		t.Fatalf("small body rejected: %d", w.Code)
	}
}
