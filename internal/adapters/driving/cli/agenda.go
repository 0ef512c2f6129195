package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

var (
	agendaField string
	agendaYear  int
	agendaJSON  bool
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Group birds by arrival or birth date",
	Long: `Groups the catalogue by calendar date, oldest first. Birds whose date
is missing or cannot be read are left out.

Fields:
  llegada     arrival date (default)
  nacimiento  birth date`,
	Args: cobra.NoArgs,
	RunE: runAgenda,
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years present in the agenda, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runYears,
}

func init() {
	agendaCmd.Flags().StringVarP(&agendaField, "field", "f", string(domain.DateFieldArrival),
		"date column (llegada or nacimiento)")
	agendaCmd.Flags().IntVarP(&agendaYear, "year", "y", domain.AllYears, "only show this year (0 = all)")
	agendaCmd.Flags().BoolVar(&agendaJSON, "json", false, "output the agenda as JSON")
	yearsCmd.Flags().StringVarP(&agendaField, "field", "f", string(domain.DateFieldArrival),
		"date column (llegada or nacimiento)")

	rootCmd.AddCommand(agendaCmd)
	rootCmd.AddCommand(yearsCmd)
}

func buildAgenda(cmd *cobra.Command, year int) (domain.Agenda, error) {
	field, err := domain.ParseDateField(agendaField)
	if err != nil {
		return domain.Agenda{}, err
	}
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return domain.Agenda{}, err
	}
	agenda, err := catalog.Agenda(commandContext(cmd), domain.AgendaQuery{Field: field, Year: year})
	if err != nil {
		return domain.Agenda{}, fmt.Errorf("agenda failed: %w", err)
	}
	return agenda, nil
}

func runAgenda(cmd *cobra.Command, _ []string) error {
	agenda, err := buildAgenda(cmd, agendaYear)
	if err != nil {
		return err
	}

	if agendaJSON {
		return printJSON(cmd, agenda)
	}

	if len(agenda.Groups) == 0 {
		cmd.Println("No dated birds.")
		return nil
	}

	cmd.Printf("Agenda by %s\n", agenda.Field.Label())
	for _, g := range agenda.Groups {
		cmd.Println()
		cmd.Printf("%s (%d)\n", g.Key, len(g.Birds))
		for _, b := range g.Birds {
			cmd.Printf("  %s  %s\n", b.Identifier, b.DisplayName)
		}
	}
	return nil
}

func runYears(cmd *cobra.Command, _ []string) error {
	agenda, err := buildAgenda(cmd, domain.AllYears)
	if err != nil {
		return err
	}
	for _, y := range agenda.Years {
		cmd.Println(y)
	}
	return nil
}
