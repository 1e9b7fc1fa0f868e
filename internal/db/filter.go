package db

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Filter narrows the aggregate queries. Zero fields are ignored and the set
// fields combine with AND. From and To are inclusive.
type Filter struct {
	ModelContains string
	Model         string
	Situation     string // review only
	From          *time.Time
	To            *time.Time
}

// Timing records without a call timestamp fall back to the import time
const timingTimeExpr = "COALESCE(llm_calls.call_timestamp, llm_calls.imported_at)"

const reviewTimeExpr = "COALESCE(interactions.interaction_timestamp, sessions.session_timestamp, sessions.imported_at)"

func (f Filter) applyTiming(q *gorm.DB) *gorm.DB {
	if f.ModelContains != "" {
		q = q.Where(`llm_calls.llm_name LIKE ? ESCAPE '\'`, containsPattern(f.ModelContains))
	}
	if f.Model != "" {
		q = q.Where("llm_calls.llm_name = ?", f.Model)
	}
	return f.applyRange(q, timingTimeExpr)
}

func (f Filter) applyReview(q *gorm.DB) *gorm.DB {
	if f.ModelContains != "" {
		q = q.Where(`interactions.llm_name LIKE ? ESCAPE '\'`, containsPattern(f.ModelContains))
	}
	if f.Model != "" {
		q = q.Where("interactions.llm_name = ?", f.Model)
	}
	if f.Situation != "" {
		q = q.Where("interactions.situation_id = ?", f.Situation)
	}
	return f.applyRange(q, reviewTimeExpr)
}

// Timestamps are stored in UTC text form, so bounds are compared in UTC too
func (f Filter) applyRange(q *gorm.DB, expr string) *gorm.DB {
	if f.From != nil {
		q = q.Where(expr+" >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where(expr+" <= ?", f.To.UTC())
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern matches s literally anywhere in a LIKE operand
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
