package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ArtifactStore writes best-effort copies of uploads, annotated results
// and generated PDFs under the static root. Every write is gated by the
// persistence toggle injected at construction; write failures are logged
// and reported as empty URLs, never propagated.
type ArtifactStore struct {
	enabled   bool
	staticDir string
	log       zerolog.Logger
}

func NewArtifactStore(enabled bool, staticDir string, log zerolog.Logger) *ArtifactStore {
	return &ArtifactStore{
		enabled:   enabled,
		staticDir: staticDir,
		log:       log,
	}
}

// Enabled reports whether disk persistence is on.
func (s *ArtifactStore) Enabled() bool {
	return s.enabled
}

// Prepare creates the output directories. Call once at startup; a no-op
// when persistence is off.
func (s *ArtifactStore) Prepare() error {
	if !s.enabled {
		return nil
	}
	for _, dir := range []string{"uploads", "results", "pdfs"} {
		if err := os.MkdirAll(filepath.Join(s.staticDir, dir), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (s *ArtifactStore) SaveUpload(name string, data []byte) string {
	return s.save("uploads", name, data)
}

func (s *ArtifactStore) SaveResult(name string, data []byte) string {
	return s.save("results", "result_"+name, data)
}

// SavePDF writes under a fixed name, so concurrent requests overwrite
// each other's output.
func (s *ArtifactStore) SavePDF(data []byte) string {
	return s.save("pdfs", "complaint.pdf", data)
}

func (s *ArtifactStore) save(subdir, name string, data []byte) string {
	if !s.enabled {
		return ""
	}
	path := filepath.Join(s.staticDir, subdir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to save artifact")
		return ""
	}
	return "/static/" + subdir + "/" + name
}

// Resolve maps a /static URL back to an on-disk path, refusing anything
// that is not rooted under the static directory. It reports false when
// persistence is off, the URL is not /static-based, the path escapes the
// root, or the file does not exist.
func (s *ArtifactStore) Resolve(url string) (string, bool) {
	if !s.enabled || !strings.HasPrefix(url, "/static/") {
		return "", false
	}
	rel := filepath.Clean("/" + strings.TrimPrefix(url, "/static/"))
	path := filepath.Join(s.staticDir, rel)

	root, err := filepath.Abs(s.staticDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil || !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", false
	}
	if _, err := os.Stat(abs); err != nil {
		return "", false
	}
	return abs, true
}
