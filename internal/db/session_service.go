package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/llmlog/internal/models"
)

// SessionSummary is a session row with the number of interactions beneath it
type SessionSummary struct {
	models.Session
	InteractionCount int64 `json:"interaction_count"`
}

// InsertSessionWithInteractions inserts the session, stamps its generated ID
// onto every interaction and bulk inserts them, all in one transaction. The
// interactions slice is updated in place with their IDs.
func (s *Store) InsertSessionWithInteractions(ctx context.Context, session *models.Session, interactions []models.Interaction) (uint, error) {
	err := s.RunInTransaction(ctx, func(tx *Store) error {
		if err := tx.db.Omit(clause.Associations).Create(session).Error; err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}

		for i := range interactions {
			interactions[i].SessionID = session.ID
		}
		if len(interactions) == 0 {
			return nil
		}
		if err := tx.db.CreateInBatches(interactions, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert interactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return session.ID, nil
}

// SessionExists reports whether a session with this checksum was imported
func (s *Store) SessionExists(ctx context.Context, checksum string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Session{}).Where("checksum = ?", checksum).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up session checksum: %w", err)
	}
	return count > 0, nil
}

// GetSession returns one session without its interactions
func (s *Store) GetSession(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session #%d: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session #%d: %w", id, err)
	}
	return &session, nil
}

// ListSessions returns every session, newest first by start time (import time
// when the start is unknown), each with its interaction count.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Order("COALESCE(session_timestamp, imported_at) DESC").
		Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var counts []struct {
		SessionID uint
		Total     int64
	}
	err = s.db.WithContext(ctx).Model(&models.Interaction{}).
		Select("session_id, COUNT(*) AS total").
		Group("session_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}

	bySession := make(map[uint]int64, len(counts))
	for _, c := range counts {
		bySession[c.SessionID] = c.Total
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, SessionSummary{Session: session, InteractionCount: bySession[session.ID]})
	}
	return summaries, nil
}

// InteractionsForSession returns the interactions of a session in document order
func (s *Store) InteractionsForSession(ctx context.Context, sessionID uint) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("offset_ms ASC").
		Order("COALESCE(index_in_session, 0) ASC").
		Find(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions for session #%d: %w", sessionID, err)
	}
	return interactions, nil
}

// DeleteSession removes a session; its interactions go with it
func (s *Store) DeleteSession(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Session{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete session #%d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session #%d: %w", id, ErrSessionNotFound)
	}
	return nil
}
