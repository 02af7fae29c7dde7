package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/traffic-cli/internal/formgate"
	"github.com/sells-group/traffic-cli/internal/session"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict traffic density for an area",
	Long: `Runs a traffic density prediction for one area, or for every registered
area with --all, and prints the density, tier, and error metrics.`,
	Example: `  predict --area Ameerpet --time 8 --day 1 --weather sunny --vehicle car --random-events no --peak-hours yes
  predict --all --time 18 --day 5 --weather rainy --vehicle bus --random-events yes --peak-hours yes --format json`,
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.String("area", "", "area to predict for")
	f.String("time", "", "hour of day, 0-23")
	f.String("day", "", "day of week, 1 (Monday) to 7 (Sunday)")
	f.String("weather", "", "weather: sunny, cloudy, rainy, foggy, or stormy")
	f.String("vehicle", "", "vehicle type: car, bike, bus, truck, or auto")
	f.String("random-events", "", "random events: yes or no")
	f.String("peak-hours", "", "peak hours: yes or no")
	f.Bool("all", false, "predict for every registered area")
	f.Int("concurrency", 4, "parallel predictions with --all")
	f.String("format", formatTable, "output format: table, json, or yaml")
	rootCmd.AddCommand(predictCmd)
}

// predictInputs collects the non-area form values from flags.
func predictInputs(cmd *cobra.Command) map[string]string {
	flagFor := map[string]string{
		formgate.FieldTime:         "time",
		formgate.FieldDay:          "day",
		formgate.FieldWeather:      "weather",
		formgate.FieldVehicleType:  "vehicle",
		formgate.FieldRandomEvents: "random-events",
		formgate.FieldPeakHours:    "peak-hours",
	}
	out := make(map[string]string, len(flagFor))
	for field, name := range flagFor {
		v, _ := cmd.Flags().GetString(name)
		out[field] = v
	}
	return out
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}

	deps, err := newSessionDeps(cfg)
	if err != nil {
		return err
	}
	settings := session.SettingsFromConfig(cfg)
	inputs := predictInputs(cmd)

	var areas []string
	if all, _ := cmd.Flags().GetBool("all"); all {
		areas = deps.Areas.Names()
	} else {
		a, _ := cmd.Flags().GetString("area")
		if a == "" {
			return eris.New("predict: --area or --all is required")
		}
		areas = []string{a}
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	var bar *progressbar.ProgressBar
	if len(areas) > 1 {
		bar = progressbar.NewOptions(len(areas),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("predicting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	preds, err := predictAreas(ctx, deps, settings, areas, inputs, concurrency, func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	return writeOutput(os.Stdout, format, preds, func(w io.Writer) {
		formatPredictions(w, preds)
	})
}

// predictAreas runs one headless session per area, at most concurrency at a
// time, and returns the predictions in the order of areas.
func predictAreas(
	ctx context.Context,
	deps session.Deps,
	settings session.Settings,
	areas []string,
	inputs map[string]string,
	concurrency int,
	progress func(),
) ([]session.Prediction, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	preds := make([]session.Prediction, len(areas))
	for i, name := range areas {
		g.Go(func() error {
			p, err := predictOne(gctx, deps, settings, name, inputs)
			if err != nil {
				return eris.Wrapf(err, "predict: %s", name)
			}
			preds[i] = *p
			progress()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("predictions complete", zap.Int("areas", len(areas)))
	return preds, nil
}

func predictOne(ctx context.Context, deps session.Deps, settings session.Settings, name string, inputs map[string]string) (*session.Prediction, error) {
	s := session.New(deps, settings)
	defer s.Close()

	if err := s.SelectArea(name); err != nil {
		return nil, err
	}
	for _, field := range formgate.Required {
		if field == formgate.FieldArea {
			continue
		}
		if err := s.SetField(field, inputs[field]); err != nil {
			return nil, err
		}
	}
	return s.Predict(ctx)
}

// formatPredictions writes a tabular list of predictions to w.
func formatPredictions(out io.Writer, preds []session.Prediction) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "AREA\tDENSITY\tTIER\tMAE\tRMSE")
	_, _ = fmt.Fprintln(w, "----\t-------\t----\t---\t----")
	for _, p := range preds {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.3f\n",
			p.Area,
			p.Percent,
			p.Label,
			p.Result.MAE,
			p.Result.RMSE,
		)
	}
	_ = w.Flush()
}
