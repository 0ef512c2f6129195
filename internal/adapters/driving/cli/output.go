package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 100

// terminalWidth returns the width of stdout, or defaultWidth when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printBirdTable writes one bird per line sized to width.
func printBirdTable(cmd *cobra.Command, birds []domain.Bird, width int) {
	const idWidth, statusWidth, kindWidth = 12, 14, 10
	nameWidth := width - idWidth - statusWidth - kindWidth - 6
	if nameWidth < 12 {
		nameWidth = 12
	}

	cmd.Printf("%-*s  %-*s  %-*s  %s\n",
		idWidth, "NUMERO", nameWidth, "NOMBRE", statusWidth, "ESTADO", "TIPO")
	for _, b := range birds {
		cmd.Printf("%-*s  %-*s  %-*s  %s\n",
			idWidth, clip(b.Identifier, idWidth),
			nameWidth, clip(b.DisplayName, nameWidth),
			statusWidth, clip(deref(b.Status), statusWidth),
			clip(deref(b.Kind), kindWidth))
	}
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// describeRelation renders a family link with the bird it resolves to.
func describeRelation(rel domain.Relation) string {
	if !rel.Resolved() {
		return rel.Raw + " (not in the catalogue)"
	}
	if domain.SameIdentifier(rel.Raw, rel.Bird.Identifier) {
		return fmt.Sprintf("%s (%s)", rel.Bird.Identifier, rel.Bird.DisplayName)
	}
	return fmt.Sprintf("%s (%s)", rel.Raw, rel.Bird.Identifier)
}

// printDetail writes every field of a bird followed by its family, photos and dates.
func printDetail(cmd *cobra.Command, d domain.BirdDetail) {
	labelWidth := 0
	for _, key := range domain.FieldOrder {
		if n := len(domain.FieldLabels[key]); n > labelWidth {
			labelWidth = n
		}
	}

	for _, key := range domain.FieldOrder {
		value, ok := d.Bird.Value(key)
		if !ok {
			continue
		}
		switch key {
		case domain.FieldFather:
			value = describeRelation(d.Relations.Father)
		case domain.FieldMother:
			value = describeRelation(d.Relations.Mother)
		case domain.FieldPartner:
			value = describeRelation(d.Relations.Partner)
		}
		cmd.Printf("%-*s  %s\n", labelWidth+1, domain.FieldLabels[key]+":", value)
	}

	if len(d.Relations.Offspring) > 0 {
		cmd.Println()
		cmd.Println("Crias:")
		for _, c := range d.Relations.Offspring {
			cmd.Printf("  %s  %s\n", c.Identifier, c.DisplayName)
		}
	}
	if len(d.Photos) > 0 {
		cmd.Println()
		cmd.Println("Fotos:")
		for _, p := range d.Photos {
			cmd.Printf("  %s\n", p)
		}
	}
	if len(d.Agenda) > 0 {
		cmd.Println()
		cmd.Println("Agenda:")
		for _, l := range d.Agenda {
			cmd.Printf("  %s: %s\n", l.Field.Label(), l.Key)
		}
	}
}

// parseAssignments turns key=value arguments into a patch over a bird.
func parseAssignments(b *domain.Bird, args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidInput, arg)
		}
		if err := b.Set(strings.TrimSpace(key), value); err != nil {
			return err
		}
	}
	return nil
}
