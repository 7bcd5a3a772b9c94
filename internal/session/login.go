// Package session ensures the vendor web session is authenticated before a
// run starts. Login is a precondition supplied to the orchestrator, never one
// of its states.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/tenbis-tools/tenbuy/internal/browser"
)

const (
	loginProbeTimeout = 10 * time.Second
	otpWaitTimeout    = 60 * time.Second
)

var loginButton = browser.Selector{Role: "button", Name: "Login"}

// LoggedIn reports whether the persistent context already carries a valid
// session, by probing for the Login button on the landing page.
//
// TODO: distinguish a slow page load from a logged-in state; a dedicated
// account-menu probe would be more reliable than the button's absence.
func LoggedIn(ctx context.Context, page browser.Page) bool {
	if err := page.WaitVisible(ctx, loginButton, loginProbeTimeout); err != nil {
		// Button never appeared: the account menu is shown instead.
		return true
	}
	visible, err := page.IsVisible(ctx, loginButton)
	if err != nil {
		return false
	}
	return !visible
}

// EnsureLoggedIn performs the interactive email+OTP login when the persistent
// context has no valid session. The OTP is prompted on the terminal, so this
// path only works in an interactive invocation; scheduled runs rely on the
// session persisted in the user data dir.
func EnsureLoggedIn(ctx context.Context, page browser.Page, email string) error {
	if LoggedIn(ctx, page) {
		return nil
	}
	if email == "" {
		return errors.New("session: not logged in and no email configured")
	}

	if err := page.Click(ctx, loginButton); err != nil {
		return fmt.Errorf("opening login form: %w", err)
	}
	if err := page.Fill(ctx, browser.Selector{Label: "Email address"}, email); err != nil {
		return fmt.Errorf("filling email: %w", err)
	}
	if err := page.Click(ctx, browser.Selector{Role: "button", Name: "Login", Within: "dialog"}); err != nil {
		return fmt.Errorf("submitting email: %w", err)
	}

	otpInput := browser.Selector{Label: "Insert the code"}
	if err := page.WaitVisible(ctx, otpInput, otpWaitTimeout); err != nil {
		return fmt.Errorf("waiting for OTP prompt: %w", err)
	}

	otp, err := promptOTP()
	if err != nil {
		return fmt.Errorf("reading OTP: %w", err)
	}

	if err := page.Fill(ctx, otpInput, otp); err != nil {
		return fmt.Errorf("filling OTP: %w", err)
	}
	if err := page.Click(ctx, browser.Selector{Role: "button", Name: "Accept"}); err != nil {
		return fmt.Errorf("confirming OTP: %w", err)
	}
	return nil
}

func promptOTP() (string, error) {
	var otp string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("One-time code").
			Description("Enter the code sent to your email or phone").
			Value(&otp).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("code required")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(otp), nil
}
