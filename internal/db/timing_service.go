package db

import (
	"context"
	"fmt"

	"github.com/balkashynov/llmlog/internal/models"
	"github.com/balkashynov/llmlog/internal/stats"
)

// ModelStats is the per-model duration summary
type ModelStats struct {
	LLMName string  `gorm:"column:llm_name" json:"llm_name"`
	Count   int64   `gorm:"column:call_count" json:"count"`
	MinMS   int     `gorm:"column:min_ms" json:"min_ms"`
	AvgMS   float64 `gorm:"column:avg_ms" json:"avg_ms"`
	MaxMS   int     `gorm:"column:max_ms" json:"max_ms"`
}

// ModelReport is ModelStats plus a nearest-rank percentile
type ModelReport struct {
	ModelStats
	Percentile   float64 `json:"percentile"`
	PercentileMS *int    `json:"percentile_ms"`
}

// InsertTimingRecords bulk inserts already validated rows. Callers wrap it in
// RunInTransaction so one import is all or nothing.
func (s *Store) InsertTimingRecords(ctx context.Context, rows []models.TimingRecord) error {
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("failed to insert timing records: %w", err)
	}
	return nil
}

// PerformanceOverview returns count/min/avg/max duration per model, ordered by model name
func (s *Store) PerformanceOverview(ctx context.Context, f Filter) ([]ModelStats, error) {
	var out []ModelStats

	q := s.db.WithContext(ctx).Model(&models.TimingRecord{})
	err := f.applyTiming(q).
		Select("llm_calls.llm_name AS llm_name, COUNT(*) AS call_count, " +
			"MIN(llm_calls.duration_ms) AS min_ms, AVG(llm_calls.duration_ms) AS avg_ms, MAX(llm_calls.duration_ms) AS max_ms").
		Group("llm_calls.llm_name").
		Order("llm_calls.llm_name").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query performance overview: %w", err)
	}

	return out, nil
}

// DurationsByModel returns the raw durations per model for percentile computation
func (s *Store) DurationsByModel(ctx context.Context, f Filter) (map[string][]int, error) {
	var rows []struct {
		LLMName    string `gorm:"column:llm_name"`
		DurationMS *int   `gorm:"column:duration_ms"`
	}

	q := s.db.WithContext(ctx).Model(&models.TimingRecord{})
	err := f.applyTiming(q).
		Select("llm_calls.llm_name, llm_calls.duration_ms").
		Order("llm_calls.llm_name, llm_calls.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query durations: %w", err)
	}

	result := make(map[string][]int)
	for _, r := range rows {
		if r.DurationMS == nil {
			continue
		}
		result[r.LLMName] = append(result[r.LLMName], *r.DurationMS)
	}
	return result, nil
}

// PerformanceReport joins the overview with the p-th nearest-rank percentile
// of each model's durations.
func (s *Store) PerformanceReport(ctx context.Context, f Filter, p float64) ([]ModelReport, error) {
	overview, err := s.PerformanceOverview(ctx, f)
	if err != nil {
		return nil, err
	}
	durations, err := s.DurationsByModel(ctx, f)
	if err != nil {
		return nil, err
	}

	reports := make([]ModelReport, 0, len(overview))
	for _, row := range overview {
		report := ModelReport{ModelStats: row, Percentile: p}
		if v, ok := stats.NearestRankPercentile(durations[row.LLMName], p); ok {
			report.PercentileMS = &v
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// TimingRecordsForBatch returns the rows written by one import, in file order
func (s *Store) TimingRecordsForBatch(ctx context.Context, batchID string) ([]models.TimingRecord, error) {
	var rows []models.TimingRecord
	err := s.db.WithContext(ctx).
		Where("import_batch_id = ?", batchID).
		Order("source_line_no ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchID, err)
	}
	return rows, nil
}
