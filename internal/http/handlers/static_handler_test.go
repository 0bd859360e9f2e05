package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// newSite lays out
//
//	<tmp>/web/index.html
//	<tmp>/web/css/site.css
//	<tmp>/web/img/logo.PNG
//	<tmp>/web/blob.bin
//	<tmp>/web/docs/          (directory)
//	<tmp>/server-config-secret
//	<tmp>/web-secret/key.txt
func newSite(t *testing.T) (root string) {
	t.Helper()
	base := t.TempDir()
	root = filepath.Join(base, "web")
	files := map[string]string{
		filepath.Join(root, "index.html"):            "<!doctype html><title>home</title>",
		filepath.Join(root, "css", "site.css"):       "body{margin:0}",
		filepath.Join(root, "img", "logo.PNG"):       "\x89PNG",
		filepath.Join(root, "blob.bin"):              "raw",
		filepath.Join(base, "server-config-secret"):  "TOP SECRET",
		filepath.Join(base, "web-secret", "key.txt"): "sibling",
	}
	for p, body := range files {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

func newStaticRouter(t *testing.T, csp string) (*gin.Engine, *StaticServer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := NewStaticServer(newSite(t), "index.html", csp)
	if err != nil {
		t.Fatalf("NewStaticServer: %v", err)
	}
	r := gin.New()
	r.NoRoute(s.Serve)
	return r, s
}

func get(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"index.html":  "text/html; charset=utf-8",
		"a/site.css":  "text/css; charset=utf-8",
		"app.js":      "application/javascript; charset=utf-8",
		"data.json":   "application/json; charset=utf-8",
		"logo.PNG":    "image/png",
		"p.jpg":       "image/jpeg",
		"p.jpeg":      "image/jpeg",
		"p.webp":      "image/webp",
		"icon.svg":    "image/svg+xml",
		"favicon.ico": "image/x-icon",
		"blob.bin":    "application/octet-stream",
		"noext":       "application/octet-stream",
	}
	for name, want := range tests {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q; want %q", name, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	_, s := newStaticRouter(t, "")

	tests := []struct {
		path    string
		wantRel string
		wantErr error
	}{
		{"/", "index.html", nil},
		{"/index.html", "index.html", nil},
		{"/css/site.css", filepath.Join("css", "site.css"), nil},
		{"/css/../index.html", "index.html", nil},
		{"/../server-config-secret", "", ErrForbidden},
		{"/css/../../server-config-secret", "", ErrForbidden},
		{"/../web-secret/key.txt", "", ErrForbidden},
		{"/..", "", ErrForbidden},
		{"/nonexistent.html", "", ErrNotFound},
		{"/docs", "", ErrNotFound},
		{"/docs/", "", ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := s.Resolve(tc.path)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Resolve(%q) err = %v; want %v", tc.path, err, tc.wantErr)
			}
			if tc.wantErr == nil && got != filepath.Join(s.Root(), tc.wantRel) {
				t.Fatalf("Resolve(%q) = %q", tc.path, got)
			}
		})
	}
}

func TestServe_IndexAndAssets(t *testing.T) {
	r, _ := newStaticRouter(t, "default-src 'self'")

	w := get(r, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if w.Body.String() != "<!doctype html><title>home</title>" {
		t.Fatalf("body = %q", w.Body.String())
	}
	if w.Header().Get("Content-Security-Policy") != "default-src 'self'" {
		t.Fatalf("CSP missing on HTML")
	}

	w = get(r, http.MethodGet, "/img/logo.PNG")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("GET logo = %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if w.Header().Get("Content-Security-Policy") != "" {
		t.Fatalf("CSP must only be sent with HTML")
	}

	w = get(r, http.MethodGet, "/blob.bin")
	if w.Header().Get("Content-Type") != "application/octet-stream" || w.Body.String() != "raw" {
		t.Fatalf("GET blob = %q %q", w.Header().Get("Content-Type"), w.Body.String())
	}
}

func TestServe_RepeatedGetsAreIdentical(t *testing.T) {
	r, _ := newStaticRouter(t, "")

	first := get(r, http.MethodGet, "/css/site.css")
	for i := 0; i < 3; i++ {
		w := get(r, http.MethodGet, "/css/site.css")
		if w.Code != first.Code ||
			w.Header().Get("Content-Type") != first.Header().Get("Content-Type") ||
			w.Body.String() != first.Body.String() {
			t.Fatalf("response %d differs from the first", i)
		}
	}
}

func TestServe_ErrorsUseEnvelope(t *testing.T) {
	r, _ := newStaticRouter(t, "")

	tests := []struct {
		method, path string
		status       int
		code, msg    string
	}{
		{http.MethodGet, "/nonexistent.html", http.StatusNotFound, ErrCodeNotFound, MsgNotFound},
		{http.MethodGet, "/docs", http.StatusNotFound, ErrCodeNotFound, MsgNotFound},
		{http.MethodGet, "/../server-config-secret", http.StatusForbidden, ErrCodeForbidden, MsgForbidden},
		{http.MethodPost, "/index.html", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, MsgMethodNotAllowed},
		{http.MethodDelete, "/", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, MsgMethodNotAllowed},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := get(r, tc.method, tc.path)
			if w.Code != tc.status {
				t.Fatalf("status = %d; want %d", w.Code, tc.status)
			}
			res := decodeResult(t, w)
			if res.OK || res.Code != tc.code || res.Message != tc.msg {
				t.Fatalf("unexpected body: %+v", res)
			}
			if strings.Contains(w.Body.String(), "SECRET") {
				t.Fatalf("secret leaked")
			}
		})
	}
}
