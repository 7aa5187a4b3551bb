package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nati35/NEMO/internal/domain"
)

// LoadUserProgress returns the stored progress, or a zero progress for a
// user that never studied.
func (s *Store) LoadUserProgress(ctx context.Context, userID string) (domain.UserProgress, error) {
	var p domain.UserProgress
	err := s.get(ctx, &p, `
		SELECT id, points, streak_days, last_study_date
		FROM users WHERE id = ?
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserProgress{UserID: userID}, nil
		}
		return domain.UserProgress{}, fmt.Errorf("failed to load progress for user %s: %w", userID, err)
	}
	p.LastStudyDate = utcPtr(p.LastStudyDate)
	return p, nil
}

// SaveUserProgress inserts or replaces a user's progress.
func (s *Store) SaveUserProgress(ctx context.Context, p domain.UserProgress) error {
	_, err := s.exec(ctx, `
		INSERT INTO users (id, points, streak_days, last_study_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			points = EXCLUDED.points,
			streak_days = EXCLUDED.streak_days,
			last_study_date = EXCLUDED.last_study_date
	`, p.UserID, p.Points, p.StreakDays, dbTimePtr(p.LastStudyDate))
	if err != nil {
		return fmt.Errorf("failed to save progress for user %s: %w", p.UserID, err)
	}
	return nil
}

// AppendReviewLog inserts one immutable review event.
func (s *Store) AppendReviewLog(ctx context.Context, entry domain.ReviewLog) error {
	if entry.ID == "" {
		entry.ID = newID()
	}
	_, err := s.exec(ctx, `
		INSERT INTO review_logs (id, card_id, user_id, rating, scheduled_date, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.CardID, entry.UserID, entry.Rating, dbTime(entry.ScheduledDate), dbTime(entry.ReviewedAt))
	if err != nil {
		return fmt.Errorf("failed to append review log for card %s: %w", entry.CardID, err)
	}
	return nil
}

// ReviewLogs returns a user's review history, oldest first.
func (s *Store) ReviewLogs(ctx context.Context, userID string) ([]domain.ReviewLog, error) {
	var logs []domain.ReviewLog
	err := s.selectAll(ctx, &logs, `
		SELECT id, card_id, user_id, rating, scheduled_date, reviewed_at
		FROM review_logs
		WHERE user_id = ?
		ORDER BY reviewed_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review logs for user %s: %w", userID, err)
	}
	for i := range logs {
		logs[i].ScheduledDate = logs[i].ScheduledDate.UTC()
		logs[i].ReviewedAt = logs[i].ReviewedAt.UTC()
	}
	return logs, nil
}
