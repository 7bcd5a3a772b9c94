package record

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/model"
)

type capturePage struct {
	browser.Page
	pdfErr error
}

func (p *capturePage) Screenshot(_ context.Context, path string) error {
	return os.WriteFile(path, []byte("png"), 0o600)
}

func (p *capturePage) ExportPDF(_ context.Context, path string) error {
	if p.pdfErr != nil {
		return p.pdfErr
	}
	return os.WriteFile(path, []byte("pdf"), 0o600)
}

func newTestRecorder(t *testing.T, page browser.Page) *Recorder {
	t.Helper()
	base := t.TempDir()
	r := New(page, filepath.Join(base, "screenshots"), filepath.Join(base, "orders"))
	r.now = func() time.Time {
		return time.Date(2026, 8, 24, 13, 45, 7, 0, time.UTC)
	}
	return r
}

func TestCapture_SharedIdentifier(t *testing.T) {
	r := newTestRecorder(t, &capturePage{})

	conf, err := r.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if conf.ID != "order-20260824-134507" {
		t.Fatalf("id = %q, want order-20260824-134507", conf.ID)
	}
	if !strings.HasSuffix(conf.ScreenshotPath, "order-20260824-134507.png") {
		t.Fatalf("screenshot path = %q", conf.ScreenshotPath)
	}
	if !strings.HasSuffix(conf.DocumentPath, "order-20260824-134507.pdf") {
		t.Fatalf("document path = %q", conf.DocumentPath)
	}

	for _, p := range []string{conf.ScreenshotPath, conf.DocumentPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("artifact %s not written: %v", p, err)
		}
	}
}

func TestCapture_WriteFailureIsArtifactWrite(t *testing.T) {
	r := newTestRecorder(t, &capturePage{pdfErr: errors.New("printer on fire")})

	_, err := r.Capture(context.Background())
	if !errors.Is(err, model.ErrArtifactWrite) {
		t.Fatalf("err = %v, want ErrArtifactWrite", err)
	}
}
