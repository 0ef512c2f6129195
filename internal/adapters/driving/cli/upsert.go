package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

var overlayJSON bool

var upsertCmd = &cobra.Command{
	Use:   "upsert [numero] [field=value ...]",
	Short: "Add or edit a bird in the local overlay",
	Long: `Writes a record to the local overlay. Fields given are merged over the
existing record with the same ring number; fields left out keep their value.
The sheet itself is never modified.

Fields: nombre, color, fenotipo, sexo, descripcion, padre, madre, pareja,
fechaNacimiento, fechaLlegada, tipo, estado, foto

Example:
  palomar upsert ES-21-0042 nombre="Luna" estado="en palomar"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpsert,
}

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "List the birds edited locally",
	Args:  cobra.NoArgs,
	RunE:  runOverlay,
}

func init() {
	overlayCmd.Flags().BoolVar(&overlayJSON, "json", false, "output birds as JSON")
	rootCmd.AddCommand(upsertCmd)
	rootCmd.AddCommand(overlayCmd)
}

func runUpsert(cmd *cobra.Command, args []string) error {
	catalog, err := requireCatalog()
	if err != nil {
		return err
	}

	bird := domain.Bird{Identifier: args[0]}
	if err := parseAssignments(&bird, args[1:]); err != nil {
		return err
	}

	stored, err := catalog.Upsert(commandContext(cmd), bird)
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	cmd.Printf("Saved %s (%s)\n", stored.Identifier, stored.DisplayName)
	return nil
}

func runOverlay(cmd *cobra.Command, _ []string) error {
	catalog, err := requireCatalog()
	if err != nil {
		return err
	}

	birds, err := catalog.Overlay(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("overlay failed: %w", err)
	}

	if overlayJSON {
		if birds == nil {
			birds = []domain.Bird{}
		}
		return printJSON(cmd, birds)
	}
	if len(birds) == 0 {
		cmd.Println("No local edits.")
		return nil
	}
	printBirdTable(cmd, birds, terminalWidth())
	return nil
}
