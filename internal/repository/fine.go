package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"librarymgmt/internal/errs"
	"librarymgmt/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const fineColumns = `id, fine_uid, transaction_uid, username, amount, reason, status,
	paid_date, payment_method, payment_reference, waived_by, waived_reason, notes, created_at`

func (r *repository) insertFine(ctx context.Context, tx *sqlx.Tx, f model.Fine, now time.Time) (model.Fine, error) {
	q, args, err := qb.Insert(finesTableName).
		Columns("fine_uid", "transaction_uid", "username", "amount", "reason", "status", "notes", "created_at").
		Values(f.FineUid, f.TransactionUid, f.Username, f.Amount, f.Reason, f.Status, f.Notes, now).
		Suffix("returning " + fineColumns).
		ToSql()
	if err != nil {
		return model.Fine{}, err
	}

	var out model.Fine
	if err := tx.GetContext(ctx, &out, q, args...); err != nil {
		return model.Fine{}, err
	}
	return out, nil
}

// CreateFine is the librarian's manual path; the automatic path is inside
// ReturnBook. The referenced transaction must belong to the fined borrower.
func (r *repository) CreateFine(ctx context.Context, req model.CreateFineRequest, now time.Time) (model.Fine, error) {
	var fine model.Fine
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var owner string
		if err := tx.GetContext(ctx, &owner,
			`select username from transactions where transaction_uid = $1`, req.TransactionUid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if owner != req.Username {
			return errs.ErrTransactionMismatch
		}

		var err error
		fine, err = r.insertFine(ctx, tx, model.Fine{
			FineUid:        uuid.NewString(),
			TransactionUid: req.TransactionUid,
			Username:       req.Username,
			Amount:         req.Amount.Round(2),
			Reason:         req.Reason,
			Status:         model.FinePending,
			Notes:          req.Notes,
		}, now)
		return err
	})
	return fine, err
}

func (r *repository) GetFine(ctx context.Context, fineUid string) (model.Fine, error) {
	q, args, err := qb.Select(fineColumns).
		From(finesTableName).
		Where(sq.Eq{"fine_uid": fineUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Fine{}, err
	}

	var fine model.Fine
	if err := r.db.GetContext(ctx, &fine, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Fine{}, errs.ErrNotFound
		}
		return model.Fine{}, err
	}
	return fine, nil
}

func (r *repository) lockPendingFine(ctx context.Context, tx *sqlx.Tx, fineUid string) (model.Fine, error) {
	var fine model.Fine
	q := `select ` + fineColumns + ` from fines where fine_uid = $1 for update`
	if err := tx.GetContext(ctx, &fine, q, fineUid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Fine{}, errs.ErrNotFound
		}
		return model.Fine{}, err
	}
	if fine.Status != model.FinePending {
		return model.Fine{}, errors.Wrapf(errs.ErrFineNotPending,
			"this fine has already been %s", strings.ToLower(string(fine.Status)))
	}
	return fine, nil
}

// PayFine: PENDING -> PAID, terminal. Only the fined borrower pays.
func (r *repository) PayFine(ctx context.Context, fineUid, username string, req model.PayFineRequest, now time.Time) (model.Fine, error) {
	var fine model.Fine
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := r.lockPendingFine(ctx, tx, fineUid)
		if err != nil {
			return err
		}
		if locked.Username != username {
			return errs.ErrPermissionDenied
		}
		return tx.GetContext(ctx, &fine, `
		update fines
		set status = 'PAID', paid_date = $2, payment_method = $3, payment_reference = $4
		where id = $1
		returning `+fineColumns, locked.ID, now, req.PaymentMethod, req.PaymentReference)
	})
	return fine, err
}

// WaiveFine: PENDING -> WAIVED, terminal. Role gating happens at the handler.
func (r *repository) WaiveFine(ctx context.Context, fineUid, waivedBy, reason string) (model.Fine, error) {
	var fine model.Fine
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := r.lockPendingFine(ctx, tx, fineUid)
		if err != nil {
			return err
		}
		return tx.GetContext(ctx, &fine, `
		update fines
		set status = 'WAIVED', waived_by = $2, waived_reason = $3
		where id = $1
		returning `+fineColumns, locked.ID, waivedBy, reason)
	})
	return fine, err
}

func (r *repository) ListFines(ctx context.Context, username string) ([]model.Fine, error) {
	q, args, err := qb.Select(fineColumns).
		From(finesTableName).
		Where(sq.Eq{"username": username}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var fines []model.Fine
	if err := r.db.SelectContext(ctx, &fines, q, args...); err != nil {
		return nil, err
	}
	return fines, nil
}

func (r *repository) ListPendingFines(ctx context.Context) ([]model.Fine, error) {
	q, args, err := qb.Select(fineColumns).
		From(finesTableName).
		Where(sq.Eq{"status": model.FinePending}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var fines []model.Fine
	if err := r.db.SelectContext(ctx, &fines, q, args...); err != nil {
		return nil, err
	}
	return fines, nil
}
