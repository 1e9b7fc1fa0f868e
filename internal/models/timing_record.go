package models

import "time"

// TimingRecord is one observed backend call with a measured duration
type TimingRecord struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	ImportedAt    time.Time  `gorm:"not null" json:"imported_at"`
	SourceFile    string     `gorm:"not null" json:"source_file"`
	SourceLineNo  *int       `json:"source_line_no"`
	LLMName       string     `gorm:"column:llm_name;not null;index:idx_llm_calls_llm" json:"llm_name"`
	CallTimestamp *time.Time `gorm:"index:idx_llm_calls_time" json:"call_timestamp"`
	DurationMS    int        `gorm:"column:duration_ms;not null;index:idx_llm_calls_duration" json:"duration_ms"`
	RawLine       *string    `json:"raw_line,omitempty"`
	ImportBatchID string     `gorm:"not null" json:"import_batch_id"`
}

func (TimingRecord) TableName() string {
	return "llm_calls"
}
