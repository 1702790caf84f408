// Command fishfit fits the linear weight model from a morphometric dataset and
// writes the JSON artifact the server loads.
//
// Usage:
//
//	fishfit --data data/raw/fish.csv --out models/linear_regression_fish.json
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"FishBiomass/pkg/estimator"
	"FishBiomass/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "fishfit",
		Usage: "Fit the fish weight regression and save the model artifact",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Value: "data/raw/fish.csv", Usage: "CSV with Weight, Length1, Length2, Length3, Height, Width columns"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "models/linear_regression_fish.json", Usage: "Model artifact to write", EnvVars: []string{"MODEL_PATH"}},
			&cli.Float64Flag{Name: "test-size", Value: 0.2, Usage: "Fraction of rows held out for evaluation"},
			&cli.Int64Flag{Name: "seed", Value: 42, Usage: "Shuffle seed"},
			&cli.StringFlag{Name: "split-dir", Usage: "Also write train.csv and test.csv to this directory"},
		},
		Action: runFit,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFit(c *cli.Context) error {
	logger := log.NewLogger()

	res, err := fit(c.String("data"), c.String("out"), c.Float64("test-size"), c.Int64("seed"), c.String("split-dir"))
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"train_rows":   res.trainRows,
		"test_rows":    res.testRows,
		"holdout_mae":  res.model.HoldoutMAE,
		"intercept":    res.model.Intercept,
		"coefficients": res.model.Coefficients,
		"out":          c.String("out"),
	}).Info("Model fitted")
	return nil
}

type fitResult struct {
	model     *estimator.LinearModel
	trainRows int
	testRows  int
}

func fit(dataPath, outPath string, testSize float64, seed int64, splitDir string) (*fitResult, error) {
	f, err := os.Open(dataPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := readDataset(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataPath, err)
	}

	train, test, err := split(ds, testSize, seed)
	if err != nil {
		return nil, err
	}

	if splitDir != "" {
		if err := writeSplit(splitDir, train, test); err != nil {
			return nil, err
		}
	}

	model, err := estimator.Fit(train.rows, train.weights)
	if err != nil {
		return nil, err
	}
	model.HoldoutMAE = estimator.MeanAbsoluteError(model, test.rows, test.weights)

	if err := model.Save(outPath); err != nil {
		return nil, err
	}

	return &fitResult{model: model, trainRows: train.Len(), testRows: test.Len()}, nil
}

func writeSplit(dir string, train, test *dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, d := range map[string]*dataset{"train.csv": train, "test.csv": test} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := d.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
