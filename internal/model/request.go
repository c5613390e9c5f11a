package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BorrowBookRequest struct {
	BookUid string `json:"bookUid" validate:"required,uuid"`
	Notes   string `json:"notes"`

	// Filled from the caller's claims, not the body.
	Username        string `json:"-" validate:"required"`
	MaxBooksAllowed int    `json:"-" validate:"min=1"`
}

type RenewRequest struct {
	Days int `json:"days" validate:"omitempty,min=1,max=30"`
}

type ReturnResult struct {
	Transaction TransactionView `json:"transaction"`
	Message     string          `json:"message"`
	FineCreated bool            `json:"fineCreated"`
	Fine        *Fine           `json:"fine,omitempty"`
	DaysOverdue int             `json:"daysOverdue,omitempty"`
}

type TransactionFilter struct {
	Username string
	Status   TransactionStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

type CreateFineRequest struct {
	TransactionUid string          `json:"transactionUid" validate:"required,uuid"`
	Username       string          `json:"username" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Reason         string          `json:"reason" validate:"required,max=200"`
	Notes          string          `json:"notes"`
}

type PayFineRequest struct {
	PaymentMethod    string `json:"paymentMethod" validate:"required,max=50"`
	PaymentReference string `json:"paymentReference" validate:"max=100"`
}

type WaiveFineRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type SetCopiesRequest struct {
	TotalCopies int `json:"totalCopies" validate:"required,min=1"`
}
