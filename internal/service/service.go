package service

import (
	"context"
	"encoding/json"
	"time"

	"librarymgmt/internal/model"
	"librarymgmt/internal/repository"
	"librarymgmt/pkg/auth"
	"librarymgmt/pkg/kafka"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	producer sarama.SyncProducer
}

// NewService wires the repository and an optional event producer; a nil
// producer disables event emission (tests).
func NewService(repo repository.Repository, producer sarama.SyncProducer, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		producer: producer,
	}
}

func (s *Service) now() time.Time {
	return time.Now().UTC()
}

func (s *Service) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookUid)
}

func (s *Service) ListBooks(ctx context.Context, showAll bool) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, showAll)
}

func (s *Service) SetTotalCopies(ctx context.Context, bookUid string, totalCopies int) (model.Book, error) {
	return s.repo.SetTotalCopies(ctx, bookUid, totalCopies)
}

func (s *Service) BorrowBook(ctx context.Context, req model.BorrowBookRequest) (model.TransactionView, error) {
	now := s.now()
	trx, err := s.repo.BorrowBook(ctx, req, now)
	if err != nil {
		return model.TransactionView{}, err
	}
	s.publish(model.Event{
		Type:           model.EventBorrowed,
		Username:       trx.Username,
		BookUid:        trx.BookUid,
		TransactionUid: trx.TransactionUid,
		OccurredAt:     now,
	})
	return trx.View(now), nil
}

func (s *Service) ReturnBook(ctx context.Context, actor auth.Profile, transactionUid string) (model.ReturnResult, error) {
	now := s.now()
	trx, fine, daysOverdue, err := s.repo.ReturnBook(ctx, transactionUid, actor.Username, actor.IsLibrarian(), now)
	if err != nil {
		return model.ReturnResult{}, err
	}

	s.publish(model.Event{
		Type:           model.EventReturned,
		Username:       trx.Username,
		BookUid:        trx.BookUid,
		TransactionUid: trx.TransactionUid,
		OccurredAt:     now,
	})

	res := model.ReturnResult{
		Transaction: trx.View(now),
		Message:     "Book returned successfully",
		FineCreated: fine != nil,
	}
	if fine != nil {
		res.Fine = fine
		res.DaysOverdue = daysOverdue
		s.publish(model.Event{
			Type:           model.EventFineCreated,
			Username:       fine.Username,
			TransactionUid: fine.TransactionUid,
			FineUid:        fine.FineUid,
			Amount:         fine.Amount.StringFixed(2),
			OccurredAt:     now,
		})
	}
	return res, nil
}

func (s *Service) RenewTransaction(ctx context.Context, actor auth.Profile, transactionUid string, days int) (model.TransactionView, error) {
	if days <= 0 {
		days = model.DefaultRenewalDays
	}
	now := s.now()
	trx, err := s.repo.RenewTransaction(ctx, transactionUid, actor.Username, days, now)
	if err != nil {
		return model.TransactionView{}, err
	}
	return trx.View(now), nil
}

func (s *Service) ListTransactions(ctx context.Context, actor auth.Profile, f model.TransactionFilter) ([]model.TransactionView, error) {
	if !actor.IsLibrarian() {
		f.Username = actor.Username
	}
	items, err := s.repo.ListTransactions(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.views(items), nil
}

func (s *Service) ListActiveBorrows(ctx context.Context, username string) ([]model.TransactionView, error) {
	items, err := s.repo.ListActiveBorrows(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.views(items), nil
}

func (s *Service) ListOverdue(ctx context.Context) ([]model.TransactionView, error) {
	now := s.now()
	items, err := s.repo.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	return s.views(items), nil
}

func (s *Service) MaterializeOverdue(ctx context.Context) (int64, error) {
	return s.repo.MaterializeOverdue(ctx, s.now())
}

func (s *Service) CreateFine(ctx context.Context, req model.CreateFineRequest) (model.Fine, error) {
	now := s.now()
	fine, err := s.repo.CreateFine(ctx, req, now)
	if err != nil {
		return model.Fine{}, err
	}
	s.publish(model.Event{
		Type:           model.EventFineCreated,
		Username:       fine.Username,
		TransactionUid: fine.TransactionUid,
		FineUid:        fine.FineUid,
		Amount:         fine.Amount.StringFixed(2),
		OccurredAt:     now,
	})
	return fine, nil
}

func (s *Service) PayFine(ctx context.Context, actor auth.Profile, fineUid string, req model.PayFineRequest) (model.Fine, error) {
	now := s.now()
	fine, err := s.repo.PayFine(ctx, fineUid, actor.Username, req, now)
	if err != nil {
		return model.Fine{}, err
	}
	s.publish(model.Event{
		Type:       model.EventFinePaid,
		Username:   fine.Username,
		FineUid:    fine.FineUid,
		Amount:     fine.Amount.StringFixed(2),
		OccurredAt: now,
	})
	return fine, nil
}

func (s *Service) WaiveFine(ctx context.Context, actor auth.Profile, fineUid string, req model.WaiveFineRequest) (model.Fine, error) {
	fine, err := s.repo.WaiveFine(ctx, fineUid, actor.Username, req.Reason)
	if err != nil {
		return model.Fine{}, err
	}
	s.publish(model.Event{
		Type:       model.EventFineWaived,
		Username:   fine.Username,
		FineUid:    fine.FineUid,
		Amount:     fine.Amount.StringFixed(2),
		OccurredAt: s.now(),
	})
	return fine, nil
}

func (s *Service) ListMyFines(ctx context.Context, username string) (model.FineReport, error) {
	fines, err := s.repo.ListFines(ctx, username)
	if err != nil {
		return model.FineReport{}, err
	}
	return model.FineReport{
		Fines:   fines,
		Summary: model.SummarizeFines(fines),
	}, nil
}

func (s *Service) ListPendingFines(ctx context.Context) (model.PendingFinesReport, error) {
	fines, err := s.repo.ListPendingFines(ctx)
	if err != nil {
		return model.PendingFinesReport{}, err
	}
	report := model.PendingFinesReport{
		Fines: fines,
		Count: len(fines),
	}
	report.TotalPending = model.SummarizeFines(fines).TotalPending
	return report, nil
}

func (s *Service) GetBorrowerStats(ctx context.Context, username string) (model.BorrowerStats, error) {
	return s.repo.GetBorrowerStats(ctx, username)
}

// ApplyEvent is the consumer-side entry point feeding borrower_stats.
func (s *Service) ApplyEvent(ctx context.Context, ev model.Event) error {
	return s.repo.UpsertBorrowerStats(ctx, ev)
}

func (s *Service) views(items []model.Transaction) []model.TransactionView {
	now := s.now()
	views := make([]model.TransactionView, 0, len(items))
	for _, trx := range items {
		views = append(views, trx.View(now))
	}
	return views
}

// publish is best effort: the DB transaction already committed, losing a
// stats event must not fail the request.
func (s *Service) publish(ev model.Event) {
	if s.producer == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("marshal event", zap.Error(err))
		return
	}
	if _, _, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: kafka.LibraryTopic,
		Key:   sarama.StringEncoder(ev.Username),
		Value: sarama.ByteEncoder(b),
	}); err != nil {
		s.log.Error("publish event", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}
