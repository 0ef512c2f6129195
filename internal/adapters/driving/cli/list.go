package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

var (
	listSearch string
	listStatus string
	listKind   string
	listSex    string
	listJSON   bool

	showJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the birds in the catalogue",
	Long: `Lists the merged catalogue: the sheet (or its offline copy) with local
edits applied. --search matches part of the name; --estado, --tipo and
--sexo match the column exactly.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show [numero]",
	Short: "Show one bird with its family, photos and dates",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [reference]",
	Short: "Find the bird a parent or partner reference points at",
	Long: `Resolves a reference as written in the Padre, Madre or Pareja columns:
first by ring number, then by name. Matching ignores case and surrounding
spaces; the first bird in catalogue order wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by part of the name")
	listCmd.Flags().StringVar(&listStatus, "estado", "", "filter by status (en palomar, desaparecida, fallecida)")
	listCmd.Flags().StringVar(&listKind, "tipo", "", "filter by kind (Local, Rescatada, Comprada)")
	listCmd.Flags().StringVar(&listSex, "sexo", "", "filter by sex")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output birds as JSON")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the bird as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	birds, err := catalog.List(commandContext(cmd), domain.ListFilter{
		Search: listSearch,
		Status: listStatus,
		Kind:   listKind,
		Sex:    listSex,
	})
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		if birds == nil {
			birds = []domain.Bird{}
		}
		return printJSON(cmd, birds)
	}
	if len(birds) == 0 {
		cmd.Println("No birds found.")
		return nil
	}
	printBirdTable(cmd, birds, terminalWidth())
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	detail, err := catalog.Detail(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if showJSON {
		return printJSON(cmd, detail)
	}
	printDetail(cmd, detail)
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	b, ok, err := catalog.Resolve(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no bird matches %q: %w", args[0], domain.ErrNotFound)
	}
	cmd.Printf("%s  %s\n", b.Identifier, b.DisplayName)
	return nil
}

