package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusBorrowed TransactionStatus = "BORROWED"
	StatusOverdue  TransactionStatus = "OVERDUE"
	StatusReturned TransactionStatus = "RETURNED"
)

type FineStatus string

const (
	FinePending FineStatus = "PENDING"
	FinePaid    FineStatus = "PAID"
	FineWaived  FineStatus = "WAIVED"
)

const (
	DefaultLoanDays    = 14
	DefaultRenewalDays = 14
	DefaultMaxRenewals = 2
)

type Book struct {
	ID              int    `json:"-" db:"id"`
	BookUid         string `json:"bookUid" db:"book_uid"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	IsActive        bool   `json:"isActive" db:"is_active"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
}

type Transaction struct {
	ID             int               `json:"-" db:"id"`
	TransactionUid string            `json:"transactionUid" db:"transaction_uid"`
	Username       string            `json:"username" db:"username"`
	BookUid        string            `json:"bookUid" db:"book_uid"`
	ApprovedBy     *string           `json:"approvedBy,omitempty" db:"approved_by"`
	BorrowDate     time.Time         `json:"borrowDate" db:"borrow_date"`
	DueDate        time.Time         `json:"dueDate" db:"due_date"`
	ReturnDate     *time.Time        `json:"returnDate,omitempty" db:"return_date"`
	Status         TransactionStatus `json:"status" db:"status"`
	RenewalCount   int               `json:"renewalCount" db:"renewal_count"`
	MaxRenewals    int               `json:"maxRenewals" db:"max_renewals"`
	Notes          string            `json:"notes" db:"notes"`
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOverdue derives overdueness from the due date at call time. The stored
// status column is only a cache (refreshed on write and by the sweep), so a
// row still marked BORROWED counts as overdue once today is past its due
// date. A return on the due date itself is not overdue.
func (t Transaction) IsOverdue(now time.Time) bool {
	if t.Status != StatusBorrowed && t.Status != StatusOverdue {
		return false
	}
	return DateOf(now).After(DateOf(t.DueDate))
}

func (t Transaction) DaysOverdue(now time.Time) int {
	if !t.IsOverdue(now) {
		return 0
	}
	return int(DateOf(now).Sub(DateOf(t.DueDate)).Hours() / 24)
}

// DaysUntilDue is nil once the book is returned; negative while overdue.
func (t Transaction) DaysUntilDue(now time.Time) *int {
	if t.Status == StatusReturned {
		return nil
	}
	days := int(DateOf(t.DueDate).Sub(DateOf(now)).Hours() / 24)
	return &days
}

func (t Transaction) CanRenew(now time.Time) bool {
	return t.Status == StatusBorrowed &&
		t.RenewalCount < t.MaxRenewals &&
		!t.IsOverdue(now)
}

// TransactionView is a Transaction with its derived fields materialized for
// serialization.
type TransactionView struct {
	Transaction
	IsOverdue    bool `json:"isOverdue"`
	DaysOverdue  int  `json:"daysOverdue"`
	DaysUntilDue *int `json:"daysUntilDue,omitempty"`
	CanRenew     bool `json:"canRenew"`
}

func (t Transaction) View(now time.Time) TransactionView {
	return TransactionView{
		Transaction:  t,
		IsOverdue:    t.IsOverdue(now),
		DaysOverdue:  t.DaysOverdue(now),
		DaysUntilDue: t.DaysUntilDue(now),
		CanRenew:     t.CanRenew(now),
	}
}

type Fine struct {
	ID               int             `json:"-" db:"id"`
	FineUid          string          `json:"fineUid" db:"fine_uid"`
	TransactionUid   string          `json:"transactionUid" db:"transaction_uid"`
	Username         string          `json:"username" db:"username"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	Reason           string          `json:"reason" db:"reason"`
	Status           FineStatus      `json:"status" db:"status"`
	PaidDate         *time.Time      `json:"paidDate,omitempty" db:"paid_date"`
	PaymentMethod    string          `json:"paymentMethod,omitempty" db:"payment_method"`
	PaymentReference string          `json:"paymentReference,omitempty" db:"payment_reference"`
	WaivedBy         *string         `json:"waivedBy,omitempty" db:"waived_by"`
	WaivedReason     string          `json:"waivedReason,omitempty" db:"waived_reason"`
	Notes            string          `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
}

func (f Fine) IsPaid() bool {
	return f.Status == FinePaid
}

// CalculateFine is days * rate, rounded half-up to the cent. Zero or negative
// day counts never produce a fine.
func CalculateFine(daysOverdue int, ratePerDay decimal.Decimal) decimal.Decimal {
	if daysOverdue <= 0 {
		return decimal.Zero
	}
	return ratePerDay.Mul(decimal.NewFromInt(int64(daysOverdue))).Round(2)
}

type FineSummary struct {
	TotalPending decimal.Decimal `json:"totalPending"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	TotalFines   int             `json:"totalFines"`
}

func SummarizeFines(fines []Fine) FineSummary {
	s := FineSummary{TotalPending: decimal.Zero, TotalPaid: decimal.Zero, TotalFines: len(fines)}
	for _, f := range fines {
		switch f.Status {
		case FinePending:
			s.TotalPending = s.TotalPending.Add(f.Amount)
		case FinePaid:
			s.TotalPaid = s.TotalPaid.Add(f.Amount)
		}
	}
	return s
}

type FineReport struct {
	Fines   []Fine      `json:"fines"`
	Summary FineSummary `json:"summary"`
}

type PendingFinesReport struct {
	Fines        []Fine          `json:"fines"`
	TotalPending decimal.Decimal `json:"totalPending"`
	Count        int             `json:"count"`
}

type BorrowerStats struct {
	Username    string `json:"username" db:"username"`
	BorrowCount int    `json:"borrowCount" db:"borrow_count"`
	ReturnCount int    `json:"returnCount" db:"return_count"`
	FineCount   int    `json:"fineCount" db:"fine_count"`
}
