package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/models"
)

const (
	sessionsTable = "sessions"

	// sessionRowID pins the table to a single row.
	sessionRowID = 1
)

type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository returns a [SessionRepository] backed by the sessions
// table of db.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *sessionRepository) Load(ctx context.Context) (models.StoredToken, error) {
	query, args, err := sq.Select("user_id", "token", "saved_at").
		From(sessionsTable).
		Where(sq.Eq{"id": sessionRowID}).
		ToSql()
	if err != nil {
		return models.StoredToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var token models.StoredToken
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&token.UserID, &token.Token, &token.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredToken{}, ErrLocalSessionNotFound
	}
	if err != nil {
		s.logger.Err(err).
			Str("func", "sessionRepository.Load").
			Msg("failed to read stored session")
		return models.StoredToken{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return token, nil
}

func (s *sessionRepository) Save(ctx context.Context, token models.StoredToken) error {
	query, args, err := sq.Insert(sessionsTable).
		Options("OR REPLACE").
		Columns("id", "user_id", "token", "saved_at").
		Values(sessionRowID, token.UserID, token.Token, token.SavedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "sessionRepository.Save").
			Int64("user_id", token.UserID).
			Msg("failed to store session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sessionRepository) Clear(ctx context.Context) error {
	query, args, err := sq.Delete(sessionsTable).
		Where(sq.Eq{"id": sessionRowID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "sessionRepository.Clear").
			Msg("failed to clear stored session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
