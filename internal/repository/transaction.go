package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"librarymgmt/internal/errs"
	"librarymgmt/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, transaction_uid, username, book_uid, approved_by, borrow_date,
	due_date, return_date, status, renewal_count, max_renewals, notes`

// BorrowBook runs the whole eligibility gate and the inventory decrement as
// one transaction. The book row is locked first, so two borrows of the last
// copy serialize and the loser sees available_copies = 0.
func (r *repository) BorrowBook(ctx context.Context, req model.BorrowBookRequest, now time.Time) (model.Transaction, error) {
	var trx model.Transaction
	err := r.withTxRetry(ctx, func(tx *sqlx.Tx) error {
		var book model.Book
		q := `select ` + bookColumns + ` from books where book_uid = $1 for update`
		if err := tx.GetContext(ctx, &book, q, req.BookUid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if !book.IsActive {
			return errs.ErrBookInactive
		}
		if book.AvailableCopies <= 0 {
			return errs.ErrBookUnavailable
		}

		var active int
		if err := tx.GetContext(ctx, &active, `
		select count(*) from transactions
		where username = $1 and status in ('BORROWED', 'OVERDUE')`, req.Username); err != nil {
			return err
		}
		if active >= req.MaxBooksAllowed {
			return errors.Wrapf(errs.ErrBorrowLimit, "limit of %d books", req.MaxBooksAllowed)
		}

		// Overdue is derived from due_date, not trusted from the cached
		// status column.
		var overdue int
		if err := tx.GetContext(ctx, &overdue, `
		select count(*) from transactions
		where username = $1
		  and (status = 'OVERDUE' or (status = 'BORROWED' and due_date < $2))`,
			req.Username, model.DateOf(now)); err != nil {
			return err
		}
		if overdue > 0 {
			return errs.ErrHasOverdue
		}

		var pending struct {
			Total decimal.Decimal `db:"total"`
			Count int             `db:"count"`
		}
		if err := tx.GetContext(ctx, &pending, `
		select coalesce(sum(amount), 0) as total, count(*) as count
		from fines where username = $1 and status = 'PENDING'`, req.Username); err != nil {
			return err
		}
		if pending.Count > 0 {
			return errors.Wrapf(errs.ErrUnpaidFines, "unpaid fines totaling %s", pending.Total.StringFixed(2))
		}

		dueDate := model.DateOf(now).AddDate(0, 0, model.DefaultLoanDays)
		q, args, err := qb.Insert(transactionsTableName).
			Columns("transaction_uid", "username", "book_uid", "borrow_date", "due_date",
				"status", "renewal_count", "max_renewals", "notes").
			Values(uuid.New(), req.Username, req.BookUid, now, dueDate,
				model.StatusBorrowed, 0, model.DefaultMaxRenewals, req.Notes).
			Suffix("returning " + transactionColumns).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &trx, q, args...); err != nil {
			return err
		}

		return r.decrementCopies(ctx, tx, book.ID)
	})
	return trx, err
}

// ReturnBook transitions to RETURNED, increments the copy count and creates
// the fine off the pre-transition due date, all atomically. Days overdue are
// snapshotted before the row changes; that snapshot alone decides whether a
// fine exists, and it is returned so callers can report it.
func (r *repository) ReturnBook(ctx context.Context, transactionUid, username string, librarian bool, now time.Time) (model.Transaction, *model.Fine, int, error) {
	var (
		trx         model.Transaction
		fine        *model.Fine
		daysOverdue int
	)
	err := r.withTxRetry(ctx, func(tx *sqlx.Tx) error {
		fine = nil
		q := `select ` + transactionColumns + ` from transactions where transaction_uid = $1 for update`
		if err := tx.GetContext(ctx, &trx, q, transactionUid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if trx.Username != username && !librarian {
			return errs.ErrPermissionDenied
		}
		if trx.Status == model.StatusReturned {
			return errs.ErrAlreadyReturned
		}

		daysOverdue = trx.DaysOverdue(now)

		if err := tx.GetContext(ctx, &trx, `
		update transactions
		set status = 'RETURNED', return_date = $2
		where id = $1
		returning `+transactionColumns, trx.ID, now); err != nil {
			return err
		}

		if err := r.incrementCopies(ctx, tx, trx.BookUid); err != nil {
			return err
		}

		if daysOverdue > 0 {
			f, err := r.insertFine(ctx, tx, model.Fine{
				FineUid:        uuid.NewString(),
				TransactionUid: trx.TransactionUid,
				Username:       trx.Username,
				Amount:         model.CalculateFine(daysOverdue, r.ratePerDay),
				Reason:         fmt.Sprintf("Overdue by %d days", daysOverdue),
				Status:         model.FinePending,
			}, now)
			if err != nil {
				return err
			}
			fine = &f
		}
		return nil
	})
	if err != nil {
		return model.Transaction{}, nil, 0, err
	}
	return trx, fine, daysOverdue, nil
}

// RenewTransaction reports the first failing clause instead of a generic
// refusal: limit, then overdue, then wrong status.
func (r *repository) RenewTransaction(ctx context.Context, transactionUid, username string, days int, now time.Time) (model.Transaction, error) {
	var trx model.Transaction
	err := r.withTxRetry(ctx, func(tx *sqlx.Tx) error {
		q := `select ` + transactionColumns + ` from transactions where transaction_uid = $1 for update`
		if err := tx.GetContext(ctx, &trx, q, transactionUid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if trx.Username != username {
			return errs.ErrPermissionDenied
		}
		if trx.CanRenew(now) {
			return tx.GetContext(ctx, &trx, `
			update transactions
			set due_date = due_date + $2::int, renewal_count = renewal_count + 1
			where id = $1
			returning `+transactionColumns, trx.ID, days)
		}
		if trx.RenewalCount >= trx.MaxRenewals {
			return errors.Wrapf(errs.ErrRenewalLimit, "already renewed %d times", trx.MaxRenewals)
		}
		if trx.IsOverdue(now) {
			return errs.ErrOverdueRenewal
		}
		return errs.ErrNotBorrowed
	})
	return trx, err
}

func (r *repository) GetTransaction(ctx context.Context, transactionUid string) (model.Transaction, error) {
	q, args, err := qb.Select(transactionColumns).
		From(transactionsTableName).
		Where(sq.Eq{"transaction_uid": transactionUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Transaction{}, err
	}

	var trx model.Transaction
	if err := r.db.GetContext(ctx, &trx, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, errs.ErrNotFound
		}
		return model.Transaction{}, err
	}
	return trx, nil
}

func (r *repository) ListTransactions(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error) {
	q := qb.Select(transactionColumns).
		From(transactionsTableName).
		OrderBy("borrow_date desc")

	if f.Username != "" {
		q = q.Where(sq.Eq{"username": f.Username})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": f.Status})
	}
	if f.DateFrom != nil {
		q = q.Where(sq.GtOrEq{"borrow_date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(sq.LtOrEq{"borrow_date": *f.DateTo})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var items []model.Transaction
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListActiveBorrows(ctx context.Context, username string) ([]model.Transaction, error) {
	q, args, err := qb.Select(transactionColumns).
		From(transactionsTableName).
		Where(sq.Eq{"username": username}).
		Where(sq.Eq{"status": []model.TransactionStatus{model.StatusBorrowed, model.StatusOverdue}}).
		OrderBy("due_date").
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []model.Transaction
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListOverdue(ctx context.Context, now time.Time) ([]model.Transaction, error) {
	q := `
	select ` + transactionColumns + `
	from transactions
	where status in ('BORROWED', 'OVERDUE') and due_date < $1
	order by due_date`

	var items []model.Transaction
	if err := r.db.SelectContext(ctx, &items, q, model.DateOf(now)); err != nil {
		return nil, err
	}
	return items, nil
}

// MaterializeOverdue refreshes the cached status column for reporting; reads
// never depend on it.
func (r *repository) MaterializeOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	update transactions
	set status = 'OVERDUE'
	where status = 'BORROWED' and due_date < $1`,
		model.DateOf(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
