package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of outputDir named by the run ID.
func NewWriter(outputDir, runID string) (*Writer, error) {
	baseDir := filepath.Join(outputDir, runID)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteEpisodeRecords(records []EpisodeRecord) error {
	header := []string{
		"run_id", "episode", "seed", "steps", "reward",
		"agent_points", "opponent_points", "agent_games", "opponent_games", "agent_sets", "opponent_sets",
		"faults", "illegal_actions", "winner", "duration",
	}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			record.RunID,
			strconv.Itoa(record.Episode),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(record.Steps),
			strconv.FormatFloat(record.Reward, 'f', -1, 64),
			strconv.Itoa(record.AgentPoints),
			strconv.Itoa(record.OpponentPoints),
			strconv.Itoa(record.AgentGames),
			strconv.Itoa(record.OpponentGames),
			strconv.Itoa(record.AgentSets),
			strconv.Itoa(record.OpponentSets),
			strconv.Itoa(record.Faults),
			strconv.Itoa(record.IllegalActions),
			record.Winner,
			record.Duration.String(),
		}
	}
	return w.write("episodes.csv", header, rows)
}

func (w *Writer) WriteSummary(summary Summary) error {
	header := []string{
		"episodes", "steps", "total_reward", "mean_reward",
		"agent_points", "opponent_points", "agent_games", "opponent_games", "agent_sets", "opponent_sets",
		"faults", "illegal_actions", "matches_won", "matches_lost",
	}
	row := []string{
		strconv.Itoa(summary.Episodes),
		strconv.Itoa(summary.Steps),
		strconv.FormatFloat(summary.TotalReward, 'f', -1, 64),
		strconv.FormatFloat(summary.MeanReward(), 'f', -1, 64),
		strconv.Itoa(summary.AgentPoints),
		strconv.Itoa(summary.OpponentPoints),
		strconv.Itoa(summary.AgentGames),
		strconv.Itoa(summary.OpponentGames),
		strconv.Itoa(summary.AgentSets),
		strconv.Itoa(summary.OpponentSets),
		strconv.Itoa(summary.Faults),
		strconv.Itoa(summary.IllegalActions),
		strconv.Itoa(summary.MatchesWon),
		strconv.Itoa(summary.MatchesLost),
	}
	return w.write("summary.csv", header, [][]string{row})
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	// Create a file
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
