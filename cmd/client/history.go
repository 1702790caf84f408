package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	predictionRepository "FishBiomass/internal/api/prediction/repository"
	"github.com/urfave/cli/v2"
)

const dateLayout = "2006-01-02"

type observation struct {
	Timestamp       time.Time
	Source          string
	TankID          string
	PredictedWeight float64
	Quantity        int
	BiomassKg       float64
}

type historyFilter struct {
	Tanks   map[string]bool
	Sources map[string]bool
	From    time.Time
	To      time.Time
}

func (f historyFilter) match(o observation) bool {
	if len(f.Tanks) > 0 && !f.Tanks[o.TankID] {
		return false
	}
	if len(f.Sources) > 0 && !f.Sources[o.Source] {
		return false
	}
	day := o.Timestamp.UTC().Truncate(24 * time.Hour)
	if !f.From.IsZero() && day.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && day.After(f.To) {
		return false
	}
	return true
}

type tankSummary struct {
	TankID          string
	Count           int
	TotalBiomassKg  float64
	MeanBiomassKg   float64
	MeanWeightG     float64
	LatestBiomassKg float64
	Latest          time.Time
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Summarise the prediction log per tank",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log", Value: "data/log_predictions.csv", Usage: "Observation log written by the server", EnvVars: []string{"LOG_PATH"}},
			&cli.StringSliceFlag{Name: "tank-id", Usage: "Only these tanks (repeatable)"},
			&cli.StringSliceFlag{Name: "source", Usage: "Only these sources: manual, image (repeatable)"},
			&cli.StringFlag{Name: "from", Usage: "First day to include (YYYY-MM-DD, UTC)"},
			&cli.StringFlag{Name: "to", Usage: "Last day to include (YYYY-MM-DD, UTC)"},
			&cli.IntFlag{Name: "tail", Value: 20, Usage: "Number of most recent rows to list"},
		},
		Action: runHistory,
	}
}

func runHistory(c *cli.Context) error {
	filter := historyFilter{
		Tanks:   toSet(c.StringSlice("tank-id")),
		Sources: toSet(c.StringSlice("source")),
	}

	var err error
	if filter.From, err = parseDay(c.String("from")); err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	if filter.To, err = parseDay(c.String("to")); err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	f, err := os.Open(c.String("log"))
	if os.IsNotExist(err) {
		fmt.Fprintln(c.App.Writer, "No predictions recorded yet.")
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := readObservations(f)
	if err != nil {
		return err
	}

	filtered := make([]observation, 0, len(rows))
	for _, o := range rows {
		if filter.match(o) {
			filtered = append(filtered, o)
		}
	}

	if len(filtered) == 0 {
		fmt.Fprintln(c.App.Writer, "No data for the selected filters.")
		return nil
	}

	printHistory(c.App.Writer, filtered, summarize(filtered), c.Int("tail"))
	return nil
}

// readObservations parses the log, ordered by timestamp.
func readObservations(r io.Reader) ([]observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(predictionRepository.Header)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range predictionRepository.Header {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected column %d %q, want %q", i, header[i], name)
		}
	}

	var out []observation
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		o, err := parseObservation(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func parseObservation(rec []string) (observation, error) {
	ts, err := time.Parse(time.RFC3339Nano, rec[0])
	if err != nil {
		return observation{}, fmt.Errorf("timestamp: %w", err)
	}
	weight, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return observation{}, fmt.Errorf("predicted_weight_g: %w", err)
	}
	quantity, err := strconv.Atoi(rec[4])
	if err != nil {
		return observation{}, fmt.Errorf("quantity: %w", err)
	}
	biomass, err := strconv.ParseFloat(rec[5], 64)
	if err != nil {
		return observation{}, fmt.Errorf("biomass_kg: %w", err)
	}

	return observation{
		Timestamp:       ts,
		Source:          rec[1],
		TankID:          rec[2],
		PredictedWeight: weight,
		Quantity:        quantity,
		BiomassKg:       biomass,
	}, nil
}

// summarize expects rows ordered by timestamp.
func summarize(rows []observation) []tankSummary {
	byTank := map[string]*tankSummary{}
	var weightSums = map[string]float64{}

	for _, o := range rows {
		s, ok := byTank[o.TankID]
		if !ok {
			s = &tankSummary{TankID: o.TankID}
			byTank[o.TankID] = s
		}
		s.Count++
		s.TotalBiomassKg += o.BiomassKg
		weightSums[o.TankID] += o.PredictedWeight
		s.Latest = o.Timestamp
		s.LatestBiomassKg = o.BiomassKg
	}

	out := make([]tankSummary, 0, len(byTank))
	for id, s := range byTank {
		s.MeanBiomassKg = s.TotalBiomassKg / float64(s.Count)
		s.MeanWeightG = weightSums[id] / float64(s.Count)
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TankID < out[j].TankID })
	return out
}

func printHistory(w io.Writer, rows []observation, summary []tankSummary, tail int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "TANK\tPREDICTIONS\tMEAN WEIGHT (g)\tMEAN BIOMASS (kg)\tLATEST BIOMASS (kg)\tLATEST")
	for _, s := range summary {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.2f\t%.2f\t%s\n",
			s.TankID, s.Count, s.MeanWeightG, s.MeanBiomassKg, s.LatestBiomassKg, s.Latest.UTC().Format(time.RFC3339))
	}
	tw.Flush()

	if tail <= 0 {
		return
	}
	if tail > len(rows) {
		tail = len(rows)
	}

	fmt.Fprintf(w, "\nLast %d predictions:\n", tail)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tSOURCE\tTANK\tWEIGHT (g)\tQTY\tBIOMASS (kg)")
	for _, o := range rows[len(rows)-tail:] {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%d\t%.2f\n",
			o.Timestamp.UTC().Format(time.RFC3339), o.Source, o.TankID, o.PredictedWeight, o.Quantity, o.BiomassKg)
	}
	tw.Flush()
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func parseDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, v)
}
