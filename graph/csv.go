package graph

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var countColumns = []string{"last_shot_type", "last_shot_direction", "shot_type", "shot_direction", "count"}

// ReadCSV reads a count table. The header must name the five count columns;
// their order and any extra columns do not matter.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read count table header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	positions := make([]int, len(countColumns))
	for i, name := range countColumns {
		pos, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: count table is missing column %q", ErrConfig, name)
		}
		positions[i] = pos
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read count table line %d: %w", line, err)
		}
		for _, pos := range positions {
			if pos >= len(row) {
				return nil, fmt.Errorf("%w: count table line %d has %d fields", ErrConfig, line, len(row))
			}
		}
		count, err := parseCount(row[positions[4]])
		if err != nil {
			return nil, fmt.Errorf("%w: count table line %d: %v", ErrConfig, line, err)
		}
		records = append(records, Record{
			LastType:      row[positions[0]],
			LastDirection: row[positions[1]],
			Type:          row[positions[2]],
			Direction:     row[positions[3]],
			Count:         count,
		})
	}
	return records, nil
}

// parseCount accepts integers, and integral floats as written by dataframe tools.
func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int64(f), nil
}

// WriteCSV writes the flattened probability table.
func WriteCSV(w io.Writer, g *Graph) error {
	writer := csv.NewWriter(w)

	header := append(append([]string{}, countColumns...), "probability")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write probability header: %w", err)
	}
	for _, row := range g.Rows() {
		err := writer.Write([]string{
			row.Source.Type.String(),
			row.Source.Direction.String(),
			row.Target.Type.String(),
			row.Target.Direction.String(),
			strconv.FormatInt(row.Count, 10),
			strconv.FormatFloat(row.Probability, 'g', -1, 64),
		})
		if err != nil {
			return fmt.Errorf("failed to write probability row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
