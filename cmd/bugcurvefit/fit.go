package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zredjet/bugcurvefit/internal/fit"
	"github.com/zredjet/bugcurvefit/internal/model"
	"github.com/zredjet/bugcurvefit/internal/opt"
	"github.com/zredjet/bugcurvefit/internal/report"
	"github.com/zredjet/bugcurvefit/internal/series"
)

var (
	dataPath      string
	jsonOut       string
	modelNames    []string
	lossName      string
	optimizerName string
	holdout       int
	seed          int64
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit growth models to a defect time series",
	Long: `Reads a CSV dataset (time, cumulative count, optional auxiliary columns),
fits the requested growth models, and prints a report ranked by the selection
criterion. Use --json to also write the full results as JSON.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringVar(&dataPath, "data", "", "Dataset CSV path (required)")
	fitCmd.Flags().StringVar(&jsonOut, "json", "", "Write full results as JSON to this path")
	fitCmd.Flags().StringSliceVar(&modelNames, "models", nil, "Models to fit (default: all)")
	fitCmd.Flags().StringVar(&lossName, "loss", "sse", "Estimation criterion: sse or mle")
	fitCmd.Flags().StringVar(&optimizerName, "optimizer", "de",
		fmt.Sprintf("Search algorithm: %s", strings.Join(opt.OptimizerNames(), ", ")))
	fitCmd.Flags().IntVar(&holdout, "holdout", 0, "Reserve the last N observations for validation")
	fitCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")

	fitCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	data, err := series.LoadCSV(dataPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	models := model.All()
	if len(modelNames) > 0 {
		models = models[:0]
		for _, name := range modelNames {
			m, err := model.ByName(name)
			if err != nil {
				return err
			}
			models = append(models, m)
		}
	}

	optimizer, err := opt.ByName(optimizerName, seed)
	if err != nil {
		return err
	}

	slog.Info("Starting batch fit",
		"data", dataPath,
		"observations", data.Len(),
		"models", len(models),
		"loss", lossName,
		"optimizer", optimizerName,
	)

	start := time.Now()
	results := fit.FitAll(models, data, fit.Options{
		Loss:      lossName,
		Optimizer: optimizer,
		Holdout:   holdout,
		Seed:      seed,
	})
	elapsed := time.Since(start)

	if err := report.Write(os.Stdout, results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if best, err := fit.Best(results); err == nil {
		fmt.Printf("\nBest model: %s (%s=%.4g, R2=%.4f, asymptote=%.4g)\n",
			best.Model, best.Criterion, best.Score, best.RSquared, best.Limit)
	} else {
		fmt.Printf("\nNo model ranked: %v\n", err)
	}

	slog.Info("Batch fit complete", "elapsed", elapsed, "models", len(models))

	if jsonOut != "" {
		f, err := os.Create(jsonOut)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		fmt.Printf("Wrote %s\n", jsonOut)
	}

	return nil
}
