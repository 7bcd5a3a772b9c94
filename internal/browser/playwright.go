package browser

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

// LaunchConfig controls the persistent Chromium context. The user data dir is
// what keeps the vendor session alive across process invocations.
type LaunchConfig struct {
	UserDataDir string
	Headless    bool
	NavTimeout  time.Duration
}

// Session owns the Playwright runtime and one persistent browser context.
type Session struct {
	pw   *playwright.Playwright
	bctx playwright.BrowserContext
	page *pwPage
}

// Launch starts Playwright and opens (or restores) the persistent context.
func Launch(cfg LaunchConfig) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	bctx, err := pw.Chromium.LaunchPersistentContext(cfg.UserDataDir,
		playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(cfg.Headless),
		})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching browser context: %w", err)
	}

	var page playwright.Page
	if pages := bctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = bctx.NewPage()
		if err != nil {
			_ = bctx.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("opening page: %w", err)
		}
	}

	nav := cfg.NavTimeout
	if nav <= 0 {
		nav = 30 * time.Second
	}

	return &Session{
		pw:   pw,
		bctx: bctx,
		page: &pwPage{page: page, navTimeout: nav},
	}, nil
}

// Page returns the shared browsing capability.
func (s *Session) Page() Page {
	return s.page
}

// Close shuts down the context and the Playwright runtime.
func (s *Session) Close() error {
	err := s.bctx.Close()
	if stopErr := s.pw.Stop(); err == nil {
		err = stopErr
	}
	return err
}

// Install downloads the Chromium runtime Playwright drives. Used by setup.
func Install() error {
	return playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	})
}

// pwPage adapts a playwright.Page to the Page port.
type pwPage struct {
	page       playwright.Page
	navTimeout time.Duration
}

func (p *pwPage) Goto(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   p.timeoutMs(ctx, p.navTimeout),
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (p *pwPage) WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) error {
	err := p.locate(sel).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: p.timeoutMs(ctx, timeout),
	})
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", describe(sel), err)
	}
	return nil
}

func (p *pwPage) IsVisible(_ context.Context, sel Selector) (bool, error) {
	return p.locate(sel).IsVisible()
}

func (p *pwPage) Click(ctx context.Context, sel Selector) error {
	err := p.locate(sel).Click(playwright.LocatorClickOptions{
		Timeout: p.timeoutMs(ctx, p.navTimeout),
	})
	if err != nil {
		return fmt.Errorf("clicking %s: %w", describe(sel), err)
	}
	return nil
}

func (p *pwPage) Fill(ctx context.Context, sel Selector, value string) error {
	err := p.locate(sel).Fill(value, playwright.LocatorFillOptions{
		Timeout: p.timeoutMs(ctx, p.navTimeout),
	})
	if err != nil {
		return fmt.Errorf("filling %s: %w", describe(sel), err)
	}
	return nil
}

func (p *pwPage) Text(ctx context.Context, sel Selector) (string, error) {
	txt, err := p.locate(sel).InnerText(playwright.LocatorInnerTextOptions{
		Timeout: p.timeoutMs(ctx, p.navTimeout),
	})
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", describe(sel), err)
	}
	return txt, nil
}

func (p *pwPage) ContainerText(ctx context.Context, sel Selector) (string, error) {
	txt, err := p.locate(sel).Locator("xpath=..").InnerText(playwright.LocatorInnerTextOptions{
		Timeout: p.timeoutMs(ctx, p.navTimeout),
	})
	if err != nil {
		return "", fmt.Errorf("reading container of %s: %w", describe(sel), err)
	}
	return txt, nil
}

func (p *pwPage) Screenshot(_ context.Context, path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot to %s: %w", path, err)
	}
	return nil
}

func (p *pwPage) ExportPDF(_ context.Context, path string) error {
	_, err := p.page.PDF(playwright.PagePdfOptions{
		Path: playwright.String(path),
	})
	if err != nil {
		return fmt.Errorf("pdf to %s: %w", path, err)
	}
	return nil
}

func (p *pwPage) locate(sel Selector) playwright.Locator {
	if sel.Within != "" {
		scope := p.page.GetByRole(playwright.AriaRole(sel.Within))
		return locateIn(scope, sel)
	}

	switch {
	case sel.Role != "":
		return p.page.GetByRole(playwright.AriaRole(sel.Role), playwright.PageGetByRoleOptions{
			Name:  roleName(sel),
			Exact: exactOrNil(sel),
		})
	case sel.Label != "":
		return p.page.GetByLabel(sel.Label)
	default:
		return p.page.GetByText(sel.Text, playwright.PageGetByTextOptions{
			Exact: exactOrNil(sel),
		})
	}
}

func locateIn(scope playwright.Locator, sel Selector) playwright.Locator {
	switch {
	case sel.Role != "":
		return scope.GetByRole(playwright.AriaRole(sel.Role), playwright.LocatorGetByRoleOptions{
			Name:  roleName(sel),
			Exact: exactOrNil(sel),
		})
	case sel.Label != "":
		return scope.GetByLabel(sel.Label)
	default:
		return scope.GetByText(sel.Text, playwright.LocatorGetByTextOptions{
			Exact: exactOrNil(sel),
		})
	}
}

func roleName(sel Selector) interface{} {
	if sel.NameRegex != "" {
		return regexp.MustCompile(sel.NameRegex)
	}
	if sel.Name != "" {
		return sel.Name
	}
	return nil
}

func exactOrNil(sel Selector) *bool {
	if sel.Exact {
		return playwright.Bool(true)
	}
	return nil
}

// timeoutMs converts the context deadline (or fallback) to Playwright's
// millisecond timeout option.
func (p *pwPage) timeoutMs(ctx context.Context, fallback time.Duration) *float64 {
	d := fallback
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < d || d <= 0 {
			d = until
		}
	}
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d.Milliseconds()))
}

func describe(sel Selector) string {
	switch {
	case sel.Role != "" && sel.NameRegex != "":
		return fmt.Sprintf("%s ~%q", sel.Role, sel.NameRegex)
	case sel.Role != "":
		return fmt.Sprintf("%s %q", sel.Role, sel.Name)
	case sel.Label != "":
		return fmt.Sprintf("label %q", sel.Label)
	default:
		return fmt.Sprintf("text %q", sel.Text)
	}
}
