package main

import (
	"fmt"

	"FishBiomass/internal/api/prediction"
	"github.com/urfave/cli/v2"
)

func manualCommand() *cli.Command {
	return &cli.Command{
		Name:  "manual",
		Usage: "Predict weight from five measured dimensions (cm)",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "length1", Value: 23.2, Usage: "Standard length"},
			&cli.Float64Flag{Name: "length2", Value: 25.4, Usage: "Fork length"},
			&cli.Float64Flag{Name: "length3", Value: 30.0, Usage: "Total length"},
			&cli.Float64Flag{Name: "height", Value: 11.52, Usage: "Body height"},
			&cli.Float64Flag{Name: "width", Value: 4.02, Usage: "Body width"},
			&cli.StringFlag{Name: "tank-id", Value: prediction.DefaultManualTankID, Usage: "Tank or batch identifier"},
		},
		Action: runManual,
	}
}

func runManual(c *cli.Context) error {
	values := map[string]float64{}
	for _, name := range []string{"length1", "length2", "length3", "height", "width"} {
		v := c.Float64(name)
		if v < 0 {
			return fmt.Errorf("--%s must be non-negative", name)
		}
		values[name] = v
	}

	req := prediction.ManualPredictionRequest{
		Length1: floatPtr(values["length1"]),
		Length2: floatPtr(values["length2"]),
		Length3: floatPtr(values["length3"]),
		Height:  floatPtr(values["height"]),
		Width:   floatPtr(values["width"]),
	}

	resp, err := clientFrom(c).PredictManual(c.Context, req, c.String("tank-id"))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Predicted weight: %.2f g (tank = %s)\n", resp.PredictedWeight, resp.TankID)
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
