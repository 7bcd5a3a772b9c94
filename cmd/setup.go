package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/config"
)

var flagSkipInstall bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup: configure the account and item, install the browser",
	RunE:  runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&flagSkipInstall, "skip-install", false, "Skip the browser runtime download")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	firstName := cfg.Vendor.FirstName
	email := cfg.Vendor.Email
	itemURL := cfg.Item.URL
	price := strconv.FormatFloat(cfg.Item.PriceILS, 'f', -1, 64)
	dryRun := cfg.General.DryRun

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First name").
				Description("As the vendor greets you (\"Hi, <name>\")").
				Value(&firstName).
				Validate(required("first name")),
			huh.NewInput().
				Title("Account email").
				Description("Used only for the interactive login; leave empty to rely on TENBUY_EMAIL").
				Value(&email),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Item URL").
				Value(&itemURL).
				Validate(required("item URL")),
			huh.NewInput().
				Title("Item price (ILS)").
				Value(&price).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return errors.New("enter a positive amount")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Dry run by default?").
				Description("Every step runs except the final order commit").
				Value(&dryRun),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Vendor.FirstName = strings.TrimSpace(firstName)
	cfg.Vendor.Email = strings.TrimSpace(email)
	cfg.Item.URL = strings.TrimSpace(itemURL)
	cfg.Item.PriceILS, _ = strconv.ParseFloat(strings.TrimSpace(price), 64)
	cfg.General.DryRun = dryRun

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("\n  Config saved to %s\n", config.Path())

	if !flagSkipInstall {
		fmt.Println("  Installing browser runtime (one-time download)...")
		if err := browser.Install(); err != nil {
			return fmt.Errorf("browser install: %w", err)
		}
		fmt.Println("  Browser runtime ready.")
	}

	fmt.Println("\n  Try it: tenbuy run --dry-run")
	return nil
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(what + " required")
		}
		return nil
	}
}
