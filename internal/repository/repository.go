package repository

import (
	"context"
	"time"

	"librarymgmt/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, showAll bool) ([]model.Book, error)
	SetTotalCopies(ctx context.Context, bookUid string, totalCopies int) (model.Book, error)

	BorrowBook(ctx context.Context, req model.BorrowBookRequest, now time.Time) (model.Transaction, error)
	ReturnBook(ctx context.Context, transactionUid, username string, librarian bool, now time.Time) (model.Transaction, *model.Fine, int, error)
	RenewTransaction(ctx context.Context, transactionUid, username string, days int, now time.Time) (model.Transaction, error)
	GetTransaction(ctx context.Context, transactionUid string) (model.Transaction, error)
	ListTransactions(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error)
	ListActiveBorrows(ctx context.Context, username string) ([]model.Transaction, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.Transaction, error)
	MaterializeOverdue(ctx context.Context, now time.Time) (int64, error)

	CreateFine(ctx context.Context, req model.CreateFineRequest, now time.Time) (model.Fine, error)
	GetFine(ctx context.Context, fineUid string) (model.Fine, error)
	PayFine(ctx context.Context, fineUid, username string, req model.PayFineRequest, now time.Time) (model.Fine, error)
	WaiveFine(ctx context.Context, fineUid, waivedBy, reason string) (model.Fine, error)
	ListFines(ctx context.Context, username string) ([]model.Fine, error)
	ListPendingFines(ctx context.Context) ([]model.Fine, error)

	UpsertBorrowerStats(ctx context.Context, ev model.Event) error
	GetBorrowerStats(ctx context.Context, username string) (model.BorrowerStats, error)
}

type repository struct {
	db         *sqlx.DB
	log        *zap.Logger
	ratePerDay decimal.Decimal
}

func NewRepository(db *sqlx.DB, log *zap.Logger, ratePerDay decimal.Decimal) (*repository, error) {
	return &repository{
		db:         db,
		log:        log.Named("repo"),
		ratePerDay: ratePerDay,
	}, nil
}

const (
	booksTableName        = `books`
	transactionsTableName = `transactions`
	finesTableName        = `fines`
	statsTableName        = `borrower_stats`

	txAttempts = 3
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// withTxRetry reruns the whole transaction on serialization and deadlock
// failures; everything else propagates on the first attempt.
func (r *repository) withTxRetry(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		if err = r.withTx(ctx, fn); !isRetryable(err) {
			return err
		}
		r.log.Warn("tx conflict, retrying", zap.Int("attempt", attempt), zap.Error(err))
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}
