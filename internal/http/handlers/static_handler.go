// Static site handler.
//
// StaticServer maps GET paths onto files below a fixed root directory:
//   - "/" serves the index document
//   - paths resolving outside the root are refused with 403 before any
//     file system access
//   - missing files and directories are 404
//   - everything else is streamed with a Content-Type from a fixed
//     extension table
//
// HTML responses also carry a Content-Security-Policy header.
package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	// ErrForbidden reports a path that resolves outside the root.
	ErrForbidden = errors.New("path escapes static root")
	// ErrNotFound reports a missing file or a directory.
	ErrNotFound = errors.New("static file not found")
)

const defaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// ContentType returns the MIME type for name based on its extension
// (case-insensitive), or application/octet-stream.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return defaultContentType
}

// StaticServer serves files below root.
type StaticServer struct {
	root  string
	index string
	csp   string
}

// NewStaticServer returns a server rooted at root (made absolute) that maps
// "/" to index. csp, when non-empty, is sent with HTML responses.
func NewStaticServer(root, index, csp string) (*StaticServer, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &StaticServer{root: abs, index: index, csp: csp}, nil
}

// Root returns the absolute root directory.
func (s *StaticServer) Root() string { return s.root }

// Resolve maps a decoded URL path to a regular file below the root.
//
// Containment is checked on the cleaned path before the file system is
// touched, so a refused path is never opened or stat'ed.
func (s *StaticServer) Resolve(urlPath string) (string, error) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" {
		rel = s.index
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	r, err := filepath.Rel(s.root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", ErrForbidden
	}

	fi, err := os.Stat(full)
	if err != nil || fi.IsDir() {
		return "", ErrNotFound
	}
	return full, nil
}

// Serve handles GET requests for static files. Other methods get 405.
func (s *StaticServer) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		fail(c, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	full, err := s.Resolve(c.Request.URL.Path)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, MsgForbidden)
			return
		}
		fail(c, http.StatusNotFound, ErrCodeNotFound, MsgNotFound)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		// Removed between Stat and Open, or unreadable.
		fail(c, http.StatusNotFound, ErrCodeNotFound, MsgNotFound)
		return
	}
	defer f.Close()

	ctype := ContentType(full)
	var extra map[string]string
	if s.csp != "" && strings.HasPrefix(ctype, "text/html") {
		extra = map[string]string{"Content-Security-Policy": s.csp}
	}
	// Unknown length keeps gzip free to rewrite the body.
	c.DataFromReader(http.StatusOK, -1, ctype, f, extra)
}
