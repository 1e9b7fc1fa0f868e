package models

import "time"

// Session represents one imported transcript
type Session struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	SessionGUID      *string    `gorm:"column:session_guid" json:"session_guid"`
	SessionTimestamp *time.Time `gorm:"index:idx_sessions_time" json:"session_timestamp"`
	LLMName          string     `gorm:"column:llm_name;not null;index:idx_sessions_llm" json:"llm_name"`
	SourceFile       string     `gorm:"not null" json:"source_file"`
	ImportedAt       time.Time  `gorm:"not null" json:"imported_at"`
	ImportBatchID    string     `gorm:"not null" json:"import_batch_id"`
	Checksum         string     `gorm:"not null;uniqueIndex" json:"checksum"`

	// Relationships
	Interactions []Interaction `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE;" json:"interactions,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

// StartedOrImported returns the session start, falling back to the import time
func (s Session) StartedOrImported() time.Time {
	if s.SessionTimestamp != nil {
		return *s.SessionTimestamp
	}
	return s.ImportedAt
}
