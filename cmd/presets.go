package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/fulmenhq/stylelint-provision/pkg/presets"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in stylelint presets",
		Long: `List the presets offered by the preset question and accepted by --preset,
with the config package and version specifier each one installs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				return writePresetsJSON(cmd.OutOrStdout())
			}
			writePresetsTable(cmd.OutOrStdout())
			return nil
		},
	}
}

type presetRow struct {
	Name    string `json:"name"`
	Package string `json:"package"`
	Version string `json:"version"`
}

func presetRows() []presetRow {
	all := presets.All()
	rows := make([]presetRow, len(all))
	for i, p := range all {
		rows[i] = presetRow{Name: string(p), Package: p.Package(), Version: p.Version()}
	}
	return rows
}

func writePresetsJSON(w io.Writer) error {
	data, err := json.MarshalIndent(presetRows(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writePresetsTable(w io.Writer) {
	header := []string{"NAME", "PACKAGE", "VERSION"}
	rows := [][]string{header}
	for _, r := range presetRows() {
		rows = append(rows, []string{r.Name, r.Package, r.Version})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}
