// Package record captures the proof artifacts for a placed (or simulated)
// order: a full-page screenshot and a PDF of the confirmation page, both
// named by one timestamp-derived identifier so the pair correlates and runs
// never collide. Second resolution is enough; invocations are scheduled at
// most a few times per day.
package record

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/model"
)

// Recorder writes confirmation artifacts from the current page state.
type Recorder struct {
	page           browser.Page
	screenshotsDir string
	ordersDir      string
	now            func() time.Time
}

// New returns a Recorder writing into the two artifact directories.
func New(page browser.Page, screenshotsDir, ordersDir string) *Recorder {
	return &Recorder{
		page:           page,
		screenshotsDir: screenshotsDir,
		ordersDir:      ordersDir,
		now:            time.Now,
	}
}

// Capture produces both artifacts from the page as it stands. A failure here
// never undoes the purchase; the caller decides how loudly to report it.
func (r *Recorder) Capture(ctx context.Context) (model.Confirmation, error) {
	at := r.now()
	id := "order-" + at.Format("20060102-150405")

	conf := model.Confirmation{
		ID:             id,
		ScreenshotPath: filepath.Join(r.screenshotsDir, id+".png"),
		DocumentPath:   filepath.Join(r.ordersDir, id+".pdf"),
		CapturedAt:     at,
	}

	for _, dir := range []string{r.screenshotsDir, r.ordersDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return model.Confirmation{}, fmt.Errorf("%w: %v", model.ErrArtifactWrite, err)
		}
	}

	if err := r.page.Screenshot(ctx, conf.ScreenshotPath); err != nil {
		return model.Confirmation{}, fmt.Errorf("%w: screenshot: %v", model.ErrArtifactWrite, err)
	}
	if err := r.page.ExportPDF(ctx, conf.DocumentPath); err != nil {
		return model.Confirmation{}, fmt.Errorf("%w: document: %v", model.ErrArtifactWrite, err)
	}

	return conf, nil
}
