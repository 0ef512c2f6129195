package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the sheet source, storage backends and other options.

Values resolve from defaults, then ~/.palomar/config.toml, then PALOMAR_*
environment variables (also read from a .env file).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one setting",
	Long: `Validates and stores one setting in the config file.
Run "palomar settings keys" for the recognised keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the recognised setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to choose the sheet source step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Source]")
	cmd.Printf("  Kind: %s\n", settings.Source.Kind.Description())
	switch settings.Source.Kind {
	case domain.SourceFile:
		cmd.Printf("  File: %s\n", orNotSet(settings.Source.FilePath))
	case domain.SourceGViz, domain.SourceDrive:
		cmd.Printf("  Sheet ID: %s\n", settings.Source.SheetID)
		cmd.Printf("  Sheet name: %s\n", settings.Source.SheetName)
	}
	if settings.Source.Kind == domain.SourceDrive {
		cmd.Printf("  API Key: %s\n", maskedOrNotSet(settings.Source.APIKey))
		cmd.Printf("  Access token: %s\n", maskedOrNotSet(settings.Source.AccessToken))
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Snapshot: %s\n", settings.Storage.Snapshot)
	cmd.Printf("  Overlay: %s\n", settings.Storage.Overlay)
	cmd.Printf("  Data dir: %s\n", orDefault(settings.Storage.DataDir, "~/.palomar/data"))
	if settings.Storage.Snapshot == domain.StoreRedis || settings.Storage.Overlay == domain.StoreRedis {
		cmd.Printf("  Redis URL: %s\n", orNotSet(settings.Storage.RedisURL))
	}
	cmd.Println()

	cmd.Println("[Catalogue]")
	cmd.Printf("  Photo dir: %s\n", orNotSet(settings.PhotoDir))
	cmd.Printf("  Refresh interval: %s\n", settings.RefreshInterval)
	cmd.Printf("  Timezone: %s\n", orDefault(settings.Timezone, "local"))

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Palomar Setup Wizard")
	cmd.Println("====================")
	cmd.Println()

	cmd.Println("Where is the catalogue sheet?")
	kinds := []domain.SourceKind{domain.SourceGViz, domain.SourceDrive, domain.SourceFile}
	current := 1
	for i, k := range kinds {
		if k == settings.Source.Kind {
			current = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, k.Description())
	}
	cmd.Printf("Select [1-%d] (default %d): ", len(kinds), current)
	settings.Source.Kind = kinds[parseChoice(readLine(reader), len(kinds), current)-1]
	cmd.Println()

	if settings.Source.Kind == domain.SourceFile {
		cmd.Printf("CSV file path [%s]: ", settings.Source.FilePath)
		settings.Source.FilePath = orDefault(readLine(reader), settings.Source.FilePath)
	} else {
		cmd.Printf("Sheet ID [%s]: ", settings.Source.SheetID)
		settings.Source.SheetID = orDefault(readLine(reader), settings.Source.SheetID)
		cmd.Printf("Sheet name [%s]: ", settings.Source.SheetName)
		settings.Source.SheetName = orDefault(readLine(reader), settings.Source.SheetName)
	}

	if settings.Source.Kind == domain.SourceDrive {
		cmd.Print("Google API key (leave blank to keep): ")
		if key := readPassword(reader); key != "" {
			settings.Source.APIKey = key
		}
		cmd.Println()
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println()
	cmd.Println("Settings saved.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal, or a plain line otherwise.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func maskedOrNotSet(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func orNotSet(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
