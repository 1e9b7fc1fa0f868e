package models

import (
	"strconv"
	"time"
)

// Interaction is one prompt/response exchange within a session.
// Comment and Rating are the only fields changed after import.
type Interaction struct {
	ID                   uint       `gorm:"primarykey" json:"id"`
	SessionID            uint       `gorm:"not null;index:idx_interactions_session" json:"session_id"`
	InteractionTimestamp *time.Time `gorm:"index:idx_interactions_time" json:"interaction_timestamp"`
	OffsetMS             int        `gorm:"column:offset_ms;not null;index:idx_interactions_offset" json:"offset_ms"`
	SituationID          string     `gorm:"not null;index:idx_interactions_situation" json:"situation_id"`
	Prompt               string     `gorm:"not null" json:"prompt"`
	Response             string     `gorm:"not null" json:"response"`
	Comment              *string    `json:"comment"`
	Rating               Rating     `gorm:"type:text;index:idx_interactions_rating;check:chk_interactions_rating,rating IN ('okay','not_okay')" json:"rating,omitempty"`
	LLMName              *string    `gorm:"column:llm_name;index:idx_interactions_llm" json:"llm_name"`
	Position             *int       `gorm:"column:index_in_session" json:"index_in_session"`
	Extra                *string    `json:"extra,omitempty"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// TimeLabel renders the absolute timestamp, or the offset when none was derived
func (i Interaction) TimeLabel() string {
	if i.InteractionTimestamp != nil {
		return i.InteractionTimestamp.UTC().Format(time.RFC3339)
	}
	return OffsetLabel(i.OffsetMS)
}

// OffsetLabel is the display form of an offset when no absolute time exists
func OffsetLabel(offsetMS int) string {
	return "t=" + strconv.Itoa(offsetMS) + " ms"
}

// FormatTime renders optional timestamps as RFC3339 in UTC, "" when unknown
func FormatTime(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
