package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/traffic-cli/internal/density"
)

type classification struct {
	Density float64       `json:"density" yaml:"density"`
	Tier    density.Tier  `json:"tier" yaml:"tier"`
	Label   string        `json:"label" yaml:"label"`
	Style   density.Style `json:"style" yaml:"style"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <density>",
	Short: "Classify a density value into a traffic tier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := validateFormat(format); err != nil {
			return err
		}
		c, err := classifyArg(args[0])
		if err != nil {
			return err
		}
		return writeOutput(os.Stdout, format, c, func(w io.Writer) {
			formatClassification(w, c)
		})
	},
}

func classifyArg(raw string) (classification, error) {
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return classification{}, eris.Wrapf(err, "classify: parse density %q", raw)
	}
	tier, style := density.Classify(d)
	return classification{
		Density: density.Clamp(d),
		Tier:    tier,
		Label:   tier.Label(),
		Style:   style,
	}, nil
}

func formatClassification(out io.Writer, c classification) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Density:\t%.3f\n", c.Density)
	_, _ = fmt.Fprintf(w, "Tier:\t%s\n", c.Label)
	_, _ = fmt.Fprintf(w, "Color:\t%s\n", c.Style.Color)
	_, _ = fmt.Fprintf(w, "Opacity:\t%.2f\n", c.Style.Opacity)
	_, _ = fmt.Fprintf(w, "Fill opacity:\t%.2f\n", c.Style.FillOpacity)
	_ = w.Flush()
}

func init() {
	classifyCmd.Flags().String("format", formatTable, "output format: table, json, or yaml")
	rootCmd.AddCommand(classifyCmd)
}
