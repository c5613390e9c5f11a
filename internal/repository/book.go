package repository

import (
	"context"
	"database/sql"

	"librarymgmt/internal/errs"
	"librarymgmt/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const bookColumns = `id, book_uid, title, author, is_active, total_copies, available_copies`

func (r *repository) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	q, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"book_uid": bookUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, showAll bool) ([]model.Book, error) {
	q := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"is_active": true}).
		OrderBy("title")

	if !showAll {
		q = q.Where(sq.Gt{"available_copies": 0})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

// SetTotalCopies moves the ceiling and re-clamps available_copies to it in
// the same statement, so the 0 <= available <= total invariant survives any
// direct total_copies edit.
func (r *repository) SetTotalCopies(ctx context.Context, bookUid string, totalCopies int) (model.Book, error) {
	q := `
	update books
	set total_copies     = $2,
	    available_copies = least(available_copies, $2)
	where book_uid = $1
	returning ` + bookColumns

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, bookUid, totalCopies); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

// decrementCopies is the only borrow-side writer of available_copies. The
// guard in the WHERE clause should never fire after the policy check held
// the row lock; if it does, that is an invariant violation, not a user error.
func (r *repository) decrementCopies(ctx context.Context, tx *sqlx.Tx, bookID int) error {
	res, err := tx.ExecContext(ctx, `
	update books
	set available_copies = available_copies - 1
	where id = $1 and available_copies > 0`, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		r.log.Error("available_copies underflow prevented", zap.Int("book_id", bookID))
		return errs.ErrInventoryExhausted
	}
	return nil
}

// incrementCopies clamps at total_copies so a racing double return can never
// push the counter past the ceiling.
func (r *repository) incrementCopies(ctx context.Context, tx *sqlx.Tx, bookUid string) error {
	_, err := tx.ExecContext(ctx, `
	update books
	set available_copies = least(available_copies + 1, total_copies)
	where book_uid = $1`, bookUid)
	return err
}
