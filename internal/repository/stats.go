package repository

import (
	"context"
	"database/sql"

	"librarymgmt/internal/model"

	"github.com/pkg/errors"
)

// UpsertBorrowerStats folds one lifecycle event into the per-borrower
// counters. Unknown event types are ignored so the consumer can mark them
// consumed.
func (r *repository) UpsertBorrowerStats(ctx context.Context, ev model.Event) error {
	var borrow, ret, fine int
	switch ev.Type {
	case model.EventBorrowed:
		borrow = 1
	case model.EventReturned:
		ret = 1
	case model.EventFineCreated:
		fine = 1
	default:
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
	insert into borrower_stats (username, borrow_count, return_count, fine_count)
	values ($1, $2, $3, $4)
	on conflict (username) do update
	set borrow_count = borrower_stats.borrow_count + excluded.borrow_count,
	    return_count = borrower_stats.return_count + excluded.return_count,
	    fine_count   = borrower_stats.fine_count + excluded.fine_count`,
		ev.Username, borrow, ret, fine)
	return err
}

// GetBorrowerStats returns zero counters for a borrower with no events yet;
// an empty history is not an error.
func (r *repository) GetBorrowerStats(ctx context.Context, username string) (model.BorrowerStats, error) {
	var stats model.BorrowerStats
	q := `select username, borrow_count, return_count, fine_count from borrower_stats where username = $1`
	if err := r.db.GetContext(ctx, &stats, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowerStats{Username: username}, nil
		}
		return model.BorrowerStats{}, err
	}
	return stats, nil
}
