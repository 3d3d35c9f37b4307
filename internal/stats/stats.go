// Package stats parses the periodic war-statistics snapshot shown in the
// artifact's stats panel.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Snapshot is the top-level statistics document.
type Snapshot struct {
	TimestampUTC string `json:"timestamp_utc"`
	Timestamp    string `json:"timestamp"`
	Russia       Side   `json:"russia"`
	Ukraine      Side   `json:"ukraine"`
}

// Side holds one side's personnel and equipment figures.
type Side struct {
	Personnel             *Personnel `json:"personnel"`
	PersonnelDeadUALosses *int       `json:"personnel_dead_ualosses"`
	EquipmentOryx         *Equipment `json:"equipment_oryx"`
}

// Personnel is the reported casualty figure.
type Personnel struct {
	Personnel int `json:"personnel"`
}

// Equipment aggregates visually-confirmed equipment losses.
type Equipment struct {
	TotalBillionUSD float64             `json:"total_billion_usd_estimated"`
	Categories      map[string]Category `json:"categories"`
}

// Category is one equipment category's loss estimate.
type Category struct {
	USDEstimated *float64 `json:"usd_estimated"`
	Count        int      `json:"count"`
}

// CategoryRow is a category ranked by estimated USD value.
type CategoryRow struct {
	Name string  `json:"name"`
	USD  float64 `json:"usd"`
}

// Load reads a statistics snapshot from disk.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}

	return &snap, nil
}

// UpdatedAt returns the snapshot timestamp, preferring the UTC field.
func (s *Snapshot) UpdatedAt() string {
	if s.TimestampUTC != "" {
		return s.TimestampUTC
	}
	return s.Timestamp
}

// TopCategories returns up to n categories with an estimated value of at
// least minUSD, sorted by value descending. Ties keep name order so the
// output is stable between runs.
func TopCategories(categories map[string]Category, n int, minUSD float64) []CategoryRow {
	rows := make([]CategoryRow, 0, len(categories))
	for name, cat := range categories {
		if cat.USDEstimated == nil || *cat.USDEstimated < minUSD {
			continue
		}
		rows = append(rows, CategoryRow{Name: name, USD: *cat.USDEstimated})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].USD != rows[j].USD {
			return rows[i].USD > rows[j].USD
		}
		return rows[i].Name < rows[j].Name
	})

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
