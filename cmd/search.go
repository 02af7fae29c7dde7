package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/traffic-cli/pkg/geocode"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Geocode a place in the configured city",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := validateFormat(format); err != nil {
			return err
		}

		query := strings.Join(args, " ")
		if cfg.Map.City != "" {
			query += ", " + cfg.Map.City
		}

		res, err := newGeocoder(cfg).Search(cmd.Context(), query)
		if err != nil {
			return eris.Wrap(err, "search")
		}
		if !res.Matched {
			return eris.Errorf("search: no location found for %q", query)
		}

		return writeOutput(os.Stdout, format, res, func(w io.Writer) {
			formatLocation(w, query, res)
		})
	},
}

func formatLocation(out io.Writer, query string, r *geocode.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Query:\t%s\n", query)
	if r.DisplayName != "" {
		_, _ = fmt.Fprintf(w, "Place:\t%s\n", r.DisplayName)
	}
	_, _ = fmt.Fprintf(w, "Latitude:\t%.6f\n", r.Latitude)
	_, _ = fmt.Fprintf(w, "Longitude:\t%.6f\n", r.Longitude)
	_ = w.Flush()
}

func init() {
	searchCmd.Flags().String("format", formatTable, "output format: table, json, or yaml")
	rootCmd.AddCommand(searchCmd)
}
