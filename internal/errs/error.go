package errs

import (
	"errors"
)

var (
	ErrNotFound = errors.New("not found")

	// borrow eligibility
	ErrBookInactive    = errors.New("this book is not active in the system")
	ErrBookUnavailable = errors.New("this book is not available for borrowing")
	ErrBorrowLimit     = errors.New("borrowing limit reached")
	ErrHasOverdue      = errors.New("you have overdue books, please return them before borrowing new ones")
	ErrUnpaidFines     = errors.New("you have unpaid fines, please pay them before borrowing")

	// return / renewal
	ErrAlreadyReturned = errors.New("this book has already been returned")
	ErrRenewalLimit    = errors.New("renewal limit reached")
	ErrOverdueRenewal  = errors.New("overdue books cannot be renewed")
	ErrNotBorrowed     = errors.New("only borrowed books can be renewed")

	// fines
	ErrFineNotPending      = errors.New("fine is not pending")
	ErrTransactionMismatch = errors.New("transaction does not belong to this user")

	ErrPermissionDenied = errors.New("permission denied")

	// invariant violation, indicates a concurrency bug upstream
	ErrInventoryExhausted = errors.New("no available copies to decrement")
)

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		AdditionalProperties string `json:"additionalProperties"`
	} `json:"errors"`
}
