package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/llmlog/internal/models"
)

// ReviewItem is an interaction with its parent session's start time
type ReviewItem struct {
	models.Interaction
	SessionTimestamp *time.Time `json:"session_timestamp"`
}

// ReviewResult holds the filtered interactions and their rating tallies
type ReviewResult struct {
	Items   []ReviewItem `json:"items"`
	Okay    int          `json:"okay"`
	NotOkay int          `json:"not_okay"`
}

// OKScore is okay/(okay+not_okay); ok is false when nothing is rated
func (r ReviewResult) OKScore() (score float64, ok bool) {
	rated := r.Okay + r.NotOkay
	if rated == 0 {
		return 0, false
	}
	return float64(r.Okay) / float64(rated), true
}

// GetInteraction returns one interaction
func (s *Store) GetInteraction(ctx context.Context, id uint) (*models.Interaction, error) {
	var interaction models.Interaction
	err := s.db.WithContext(ctx).First(&interaction, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("interaction #%d: %w", id, ErrInteractionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load interaction #%d: %w", id, err)
	}
	return &interaction, nil
}

// UpdateInteractionAnnotation sets exactly the comment and rating of one
// interaction. An invalid rating is rejected before touching the database;
// a nil or blank comment clears it.
func (s *Store) UpdateInteractionAnnotation(ctx context.Context, id uint, comment *string, rating models.Rating) error {
	if !rating.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRating, string(rating))
	}

	var commentValue interface{}
	if comment != nil {
		if trimmed := strings.TrimSpace(*comment); trimmed != "" {
			commentValue = trimmed
		}
	}

	res := s.db.WithContext(ctx).Model(&models.Interaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"comment": commentValue,
			"rating":  rating,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update interaction #%d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("interaction #%d: %w", id, ErrInteractionNotFound)
	}
	return nil
}

// ModelsAndSituations lists the distinct model names, session models first
// and then interaction models not seen yet, plus the sorted distinct situation ids.
func (s *Store) ModelsAndSituations(ctx context.Context) ([]string, []string, error) {
	db := s.db.WithContext(ctx)

	var sessionModels []string
	if err := db.Model(&models.Session{}).Distinct().Order("llm_name").Pluck("llm_name", &sessionModels).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list session models: %w", err)
	}

	var interactionModels []string
	if err := db.Model(&models.Interaction{}).Where("llm_name IS NOT NULL").
		Distinct().Order("llm_name").Pluck("llm_name", &interactionModels).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list interaction models: %w", err)
	}

	var situations []string
	if err := db.Model(&models.Interaction{}).Distinct().Order("situation_id").Pluck("situation_id", &situations).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list situations: %w", err)
	}

	return dedupe(append(sessionModels, interactionModels...)), situations, nil
}

// Review returns the filtered interactions ordered by absolute time (session
// start or import time when unknown), then offset and position.
func (s *Store) Review(ctx context.Context, f Filter) (ReviewResult, error) {
	var interactions []models.Interaction

	q := s.db.WithContext(ctx).Model(&models.Interaction{}).
		Select("interactions.*").
		Joins("JOIN sessions ON sessions.id = interactions.session_id")
	err := f.applyReview(q).
		Order(reviewTimeExpr + " ASC").
		Order("interactions.offset_ms ASC").
		Order("COALESCE(interactions.index_in_session, 0) ASC").
		Find(&interactions).Error
	if err != nil {
		return ReviewResult{}, fmt.Errorf("failed to query review: %w", err)
	}

	starts, err := s.sessionStarts(ctx, interactions)
	if err != nil {
		return ReviewResult{}, err
	}

	result := ReviewResult{Items: make([]ReviewItem, 0, len(interactions))}
	for _, interaction := range interactions {
		switch interaction.Rating {
		case models.RatingOkay:
			result.Okay++
		case models.RatingNotOkay:
			result.NotOkay++
		}
		result.Items = append(result.Items, ReviewItem{
			Interaction:      interaction,
			SessionTimestamp: starts[interaction.SessionID],
		})
	}
	return result, nil
}

// sessionStarts maps each referenced session to its start time
func (s *Store) sessionStarts(ctx context.Context, interactions []models.Interaction) (map[uint]*time.Time, error) {
	starts := make(map[uint]*time.Time)
	if len(interactions) == 0 {
		return starts, nil
	}

	ids := make([]uint, 0)
	seen := make(map[uint]bool)
	for _, interaction := range interactions {
		if !seen[interaction.SessionID] {
			seen[interaction.SessionID] = true
			ids = append(ids, interaction.SessionID)
		}
	}

	var sessions []models.Session
	if err := s.db.WithContext(ctx).Select("id", "session_timestamp").Where("id IN ?", ids).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to load session start times: %w", err)
	}
	for _, session := range sessions {
		starts[session.ID] = session.SessionTimestamp
	}
	return starts, nil
}

// dedupe drops empty and repeated names, keeping first occurrences in order
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
