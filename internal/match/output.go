package match

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// output is the on-disk shape of a ranking run.
type output struct {
	MatchedJobs   []*Match    `json:"matched_jobs"`
	TotalMatches  int         `json:"total_matches"`
	Unscored      []*Unscored `json:"unscored,omitempty"`
	TotalUnscored int         `json:"total_unscored,omitempty"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// WriteResult saves the ranking result to path, creating parent
// directories as needed.
func WriteResult(path string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	out := output{
		MatchedJobs:   result.Matches,
		TotalMatches:  len(result.Matches),
		Unscored:      result.Unscored,
		TotalUnscored: len(result.Unscored),
		GeneratedAt:   time.Now().UTC(),
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing match output: %w", err)
	}

	return nil
}

// ReadMatches loads the matched jobs from a previously written result
// file.
func ReadMatches(path string) ([]*Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var out output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing match output %s: %w", path, err)
	}

	return out.MatchedJobs, nil
}
