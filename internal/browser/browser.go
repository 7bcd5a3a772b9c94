// Package browser defines the browsing capability the purchase flow drives
// and its Playwright-backed production implementation.
//
// The flow packages (balance, checkout, record, session) only ever see the
// Page port, so unit tests substitute a scripted fake and the single shared
// mutable resource (the real browser context) stays explicit.
package browser

import (
	"context"
	"time"
)

// Selector locates one element. Exactly one of Role, Label or Text is set;
// Within optionally scopes the lookup to an enclosing ARIA role (e.g. the
// login button inside the login dialog).
type Selector struct {
	Role      string // ARIA role, e.g. "button"
	Name      string // accessible name for Role lookups
	NameRegex string // regexp alternative to Name
	Label     string // form label lookup
	Text      string // visible text lookup
	Exact     bool
	Within    string
}

// Page is the capability exposed by an authenticated browsing context.
// Implementations must be safe for strictly sequential use only; callers
// never drive a Page concurrently.
type Page interface {
	// Goto navigates and waits for the DOM content to load.
	Goto(ctx context.Context, url string) error
	// WaitVisible blocks until the element is visible or timeout elapses.
	WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) error
	IsVisible(ctx context.Context, sel Selector) (bool, error)
	Click(ctx context.Context, sel Selector) error
	Fill(ctx context.Context, sel Selector, value string) error
	// Text returns the element's inner text.
	Text(ctx context.Context, sel Selector) (string, error)
	// ContainerText returns the inner text of the element's parent, for
	// label-and-value layouts where the value sits next to the label.
	ContainerText(ctx context.Context, sel Selector) (string, error)
	Screenshot(ctx context.Context, path string) error
	// ExportPDF renders the current page to a PDF document at path.
	ExportPDF(ctx context.Context, path string) error
}
