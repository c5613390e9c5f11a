package handler

import (
	"context"

	"librarymgmt/internal/model"
	"librarymgmt/internal/service"
	"librarymgmt/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, showAll bool) ([]model.Book, error)
	SetTotalCopies(ctx context.Context, bookUid string, totalCopies int) (model.Book, error)

	BorrowBook(ctx context.Context, req model.BorrowBookRequest) (model.TransactionView, error)
	ReturnBook(ctx context.Context, actor auth.Profile, transactionUid string) (model.ReturnResult, error)
	RenewTransaction(ctx context.Context, actor auth.Profile, transactionUid string, days int) (model.TransactionView, error)
	ListTransactions(ctx context.Context, actor auth.Profile, f model.TransactionFilter) ([]model.TransactionView, error)
	ListActiveBorrows(ctx context.Context, username string) ([]model.TransactionView, error)
	ListOverdue(ctx context.Context) ([]model.TransactionView, error)

	CreateFine(ctx context.Context, req model.CreateFineRequest) (model.Fine, error)
	PayFine(ctx context.Context, actor auth.Profile, fineUid string, req model.PayFineRequest) (model.Fine, error)
	WaiveFine(ctx context.Context, actor auth.Profile, fineUid string, req model.WaiveFineRequest) (model.Fine, error)
	ListMyFines(ctx context.Context, username string) (model.FineReport, error)
	ListPendingFines(ctx context.Context) (model.PendingFinesReport, error)

	GetBorrowerStats(ctx context.Context, username string) (model.BorrowerStats, error)
}

var _ LibraryService = (*service.Service)(nil)
