package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"FishBiomass/internal/entity"
)

const targetColumn = "Weight"

// dataset keeps the original records alongside the parsed features so split
// files can be written back with every source column.
type dataset struct {
	header  []string
	records [][]string
	rows    [][5]float64
	weights []float64
}

func readDataset(r io.Reader) (*dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	target, ok := index[targetColumn]
	if !ok {
		return nil, fmt.Errorf("missing %q column", targetColumn)
	}
	var featureCols [5]int
	for i, name := range entity.FeatureNames {
		col, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("missing %q column", name)
		}
		featureCols[i] = col
	}

	ds := &dataset{header: header}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		w, err := strconv.ParseFloat(rec[target], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, targetColumn, err)
		}

		var row [5]float64
		for i, col := range featureCols {
			if row[i], err = strconv.ParseFloat(rec[col], 64); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, entity.FeatureNames[i], err)
			}
		}

		ds.records = append(ds.records, rec)
		ds.rows = append(ds.rows, row)
		ds.weights = append(ds.weights, w)
	}

	if len(ds.rows) == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return ds, nil
}

func (d *dataset) Len() int {
	return len(d.rows)
}

func (d *dataset) subset(idx []int) *dataset {
	out := &dataset{header: d.header}
	for _, i := range idx {
		out.records = append(out.records, d.records[i])
		out.rows = append(out.rows, d.rows[i])
		out.weights = append(out.weights, d.weights[i])
	}
	return out
}

func (d *dataset) write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.header); err != nil {
		return err
	}
	if err := cw.WriteAll(d.records); err != nil {
		return err
	}
	return cw.Error()
}

// split shuffles with seed and holds out ceil(n*testSize) rows.
func split(d *dataset, testSize float64, seed int64) (train, test *dataset, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be within (0,1), got %v", testSize)
	}

	n := d.Len()
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest >= n {
		return nil, nil, fmt.Errorf("test size %v leaves no training rows out of %d", testSize, n)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return d.subset(perm[nTest:]), d.subset(perm[:nTest]), nil
}
