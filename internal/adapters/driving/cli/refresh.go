package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the sheet and store it as the offline copy",
	Long: `Fetches the catalogue sheet once. When the sheet cannot be fetched or
parsed the stored offline copy is used instead; the command only fails
when neither is available.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	catalog, err := requireCatalog()
	if err != nil {
		return err
	}

	res, err := catalog.Refresh(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if res.Stale() {
		cmd.Printf("Sheet unavailable, loaded %d birds from the offline copy\n", res.Count)
		if res.Cause != nil {
			cmd.Printf("  Cause: %v\n", res.Cause)
		}
		return nil
	}
	cmd.Printf("Fetched %d birds from the sheet\n", res.Count)
	return nil
}
