package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/traffic-cli/internal/area"
)

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List the registered junctions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := validateFormat(format); err != nil {
			return err
		}
		areas := area.Default().All()
		return writeOutput(os.Stdout, format, areas, func(w io.Writer) {
			formatAreas(w, areas)
		})
	},
}

// formatAreas writes a tabular list of areas to w.
func formatAreas(out io.Writer, areas []area.Area) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "AREA\tLAT\tLNG")
	_, _ = fmt.Fprintln(w, "----\t---\t---")
	for _, a := range areas {
		_, _ = fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", a.Name, a.Coordinates.Lat, a.Coordinates.Lng)
	}
	_ = w.Flush()
}

func init() {
	areasCmd.Flags().String("format", formatTable, "output format: table, json, or yaml")
	rootCmd.AddCommand(areasCmd)
}
