// Command fishclient is the operator client for the biomass service.
//
// Usage:
//
//	fishclient manual --length1 23.2 --length2 25.4 --length3 30 --height 11.52 --width 4.02
//	fishclient image --file fish.jpg --quantity 40 --tank-id tank_3 --out fish_annotated.png
//	fishclient history --log data/log_predictions.csv --tank-id tank_3
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "fishclient",
		Usage: "Estimate fish weight and tank biomass through the prediction API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8000/api/v1",
				Usage:   "Base URL of the prediction API",
				EnvVars: []string{"FISH_API_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 20 * time.Second,
				Usage: "HTTP request timeout",
			},
		},
		Commands: []*cli.Command{
			manualCommand(),
			imageCommand(),
			historyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func clientFrom(c *cli.Context) *apiClient {
	return newAPIClient(c.String("api-url"), c.Duration("timeout"))
}
