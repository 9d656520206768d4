package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// CountRow is the Parquet layout of a count table, as written by the
// aggregation step that sums per-file transition counts.
type CountRow struct {
	LastShotType      string `parquet:"last_shot_type,dict"`
	LastShotDirection string `parquet:"last_shot_direction,dict"`
	ShotType          string `parquet:"shot_type,dict"`
	ShotDirection     string `parquet:"shot_direction,dict"`
	Count             int64  `parquet:"count"`
}

// ProbabilityRow is the Parquet layout of an exported graph.
type ProbabilityRow struct {
	LastShotType      string  `parquet:"last_shot_type,dict"`
	LastShotDirection string  `parquet:"last_shot_direction,dict"`
	ShotType          string  `parquet:"shot_type,dict"`
	ShotDirection     string  `parquet:"shot_direction,dict"`
	Count             int64   `parquet:"count"`
	Probability       float64 `parquet:"probability"`
}

// ReadParquet reads a count table from a Parquet file.
func ReadParquet(path string) ([]Record, error) {
	rows, err := parquet.ReadFile[CountRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record{
			LastType:      row.LastShotType,
			LastDirection: row.LastShotDirection,
			Type:          row.ShotType,
			Direction:     row.ShotDirection,
			Count:         row.Count,
		}
	}
	return records, nil
}

// WriteCountsParquet writes a count table, e.g. the output of a Counter.
func WriteCountsParquet(path string, records []Record) error {
	rows := make([]CountRow, len(records))
	for i, record := range records {
		rows[i] = CountRow{
			LastShotType:      record.LastType,
			LastShotDirection: record.LastDirection,
			ShotType:          record.Type,
			ShotDirection:     record.Direction,
			Count:             record.Count,
		}
	}
	return writeParquet(path, rows, parquet.KeyValueMetadata("schema", "shot_transition_counts_v1"))
}

// WriteParquet exports the flattened probability table of g.
func WriteParquet(path string, g *Graph) error {
	graphRows := g.Rows()
	rows := make([]ProbabilityRow, len(graphRows))
	for i, row := range graphRows {
		rows[i] = ProbabilityRow{
			LastShotType:      row.Source.Type.String(),
			LastShotDirection: row.Source.Direction.String(),
			ShotType:          row.Target.Type.String(),
			ShotDirection:     row.Target.Direction.String(),
			Count:             row.Count,
			Probability:       row.Probability,
		}
	}
	return writeParquet(path, rows,
		parquet.KeyValueMetadata("schema", "shot_transition_probs_v1"),
		parquet.KeyValueMetadata("temperature", strconv.FormatFloat(g.Temperature(), 'g', -1, 64)),
		parquet.KeyValueMetadata("scaling", g.Scaling().String()),
	)
}

func writeParquet[T any](path string, rows []T, options ...parquet.WriterOption) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Write to a temp file and rename atomically.
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	options = append(options, parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}))
	if err := parquet.WriteFile(tmpPath, rows, options...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
