package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/s0up4200/cinestream/movies"
)

// ListWatchlist returns the user's rows, oldest first.
func (s *Store) ListWatchlist(ctx context.Context, userID int64) ([]movies.WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, movie_id, added_at FROM watchlist WHERE user_id = $1 ORDER BY added_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	entries := []movies.WatchlistEntry{}
	for rows.Next() {
		var e movies.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.MovieID, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return entries, nil
}

// GetWatchlistEntry returns one row or ErrNotFound.
func (s *Store) GetWatchlistEntry(ctx context.Context, userID, movieID int64) (*movies.WatchlistEntry, error) {
	var e movies.WatchlistEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, movie_id, added_at FROM watchlist WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID,
	).Scan(&e.ID, &e.UserID, &e.MovieID, &e.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist entry: %w", err)
	}
	return &e, nil
}

// AddToWatchlist inserts a row. An existing row returns ErrDuplicate.
func (s *Store) AddToWatchlist(ctx context.Context, userID, movieID int64) (*movies.WatchlistEntry, error) {
	e := movies.WatchlistEntry{UserID: userID, MovieID: movieID}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO watchlist (user_id, movie_id) VALUES ($1, $2) RETURNING id, added_at`,
		userID, movieID,
	).Scan(&e.ID, &e.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return &e, nil
}

// RemoveFromWatchlist deletes a row. Removing an absent row is not an error.
func (s *Store) RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.Debug().Int64("user_id", userID).Int64("movie_id", movieID).Int64("rows", n).Msg("Removed from watchlist")
	}
	return nil
}
