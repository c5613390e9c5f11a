package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"librarymgmt/internal/errs"
	"librarymgmt/internal/handler"
	"librarymgmt/internal/model"
	"librarymgmt/pkg/auth"
	"librarymgmt/pkg/validate"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "librarymgmt/internal/handler/mocks"
)

var (
	student = auth.Profile{Username: "student1", Role: auth.RoleStudent, MaxBooksAllowed: 5}
	curator = auth.Profile{Username: "librarian1", Role: auth.RoleLibrarian, MaxBooksAllowed: 5}

	testNow = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
)

// withProfile stands in for the jwt middleware.
func withProfile(p auth.Profile) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(auth.SetAuthContext(c.Request().Context(), p)))
			return next(c)
		}
	}
}

func authCtx(p auth.Profile) context.Context {
	return auth.SetAuthContext(context.Background(), p)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func newRouter(p auth.Profile, method, path string, hf echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.Add(method, path, hf, withProfile(p))
	return e
}

func activeView(uid string) model.TransactionView {
	trx := model.Transaction{
		TransactionUid: uid,
		Username:       "student1",
		BookUid:        "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
		BorrowDate:     testNow,
		DueDate:        testNow.AddDate(0, 0, model.DefaultLoanDays),
		Status:         model.StatusBorrowed,
		MaxRenewals:    model.DefaultMaxRenewals,
	}
	return trx.View(testNow)
}

func TestHandler_BorrowBook(t *testing.T) {
	t.Parallel()
	const bookUid = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	view := activeView("7f8c9e4a-0f3b-4b62-a0d4-6f2a8d9b1c55")
	borrowReq := model.BorrowBookRequest{
		BookUid:         bookUid,
		Username:        student.Username,
		MaxBooksAllowed: student.MaxBooksAllowed,
	}

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			body: fmt.Sprintf(`{"bookUid":%q}`, bookUid),
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					BorrowBook(authCtx(student), borrowReq).
					Return(view, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: mustJSON(t, view),
			},
		},
		{
			name: "err. no copies available",
			body: fmt.Sprintf(`{"bookUid":%q}`, bookUid),
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					BorrowBook(authCtx(student), borrowReq).
					Return(model.TransactionView{}, errs.ErrBookUnavailable)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"this book is not available for borrowing"}`,
			},
			wantErr: true,
		},
		{
			name: "err. borrower has overdue books",
			body: fmt.Sprintf(`{"bookUid":%q}`, bookUid),
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					BorrowBook(authCtx(student), borrowReq).
					Return(model.TransactionView{}, errs.ErrHasOverdue)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"you have overdue books, please return them before borrowing new ones"}`,
			},
			wantErr: true,
		},
		{
			name: "err. unpaid fines",
			body: fmt.Sprintf(`{"bookUid":%q}`, bookUid),
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					BorrowBook(authCtx(student), borrowReq).
					Return(model.TransactionView{}, errs.ErrUnpaidFines)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"you have unpaid fines, please pay them before borrowing"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := newRouter(student, http.MethodPost, "/api/v1/transactions/borrow", h.BorrowBook)

			r := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/borrow", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()
	const trxUid = "7f8c9e4a-0f3b-4b62-a0d4-6f2a8d9b1c55"

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	returnedView := func() model.TransactionView {
		v := activeView(trxUid)
		ret := testNow
		v.Transaction.Status = model.StatusReturned
		v.Transaction.ReturnDate = &ret
		v.IsOverdue = false
		v.DaysOverdue = 0
		v.DaysUntilDue = nil
		v.CanRenew = false
		return v
	}()
	fine := model.Fine{
		FineUid:        "3b1f0b6c-8e1a-4f07-9f4c-5d2e7a9b0c11",
		TransactionUid: trxUid,
		Username:       student.Username,
		Amount:         decimal.RequireFromString("3.00"),
		Reason:         "Overdue by 3 days",
		Status:         model.FinePending,
		CreatedAt:      testNow,
	}
	okResult := model.ReturnResult{
		Transaction: returnedView,
		Message:     "Book returned successfully",
		FineCreated: true,
		Fine:        &fine,
		DaysOverdue: 3,
	}

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name: "ok. overdue return creates a fine",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnBook(authCtx(student), student, trxUid).
					Return(okResult, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: mustJSON(t, okResult),
			},
		},
		{
			name: "err. already returned",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnBook(authCtx(student), student, trxUid).
					Return(model.ReturnResult{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"this book has already been returned"}`,
			},
			wantErr: true,
		},
		{
			name: "err. unknown transaction",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnBook(authCtx(student), student, trxUid).
					Return(model.ReturnResult{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := newRouter(student, http.MethodPost, "/api/v1/transactions/:transactionUid/return", h.ReturnBook)

			r := httptest.NewRequest(http.MethodPost,
				fmt.Sprintf("/api/v1/transactions/%s/return", trxUid), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_RenewTransaction(t *testing.T) {
	t.Parallel()
	const trxUid = "7f8c9e4a-0f3b-4b62-a0d4-6f2a8d9b1c55"

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	renewedView := func() model.TransactionView {
		v := activeView(trxUid)
		v.Transaction.DueDate = v.Transaction.DueDate.AddDate(0, 0, 7)
		v.Transaction.RenewalCount = 1
		return v.Transaction.View(testNow)
	}()

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			body: `{"days":7}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					RenewTransaction(authCtx(student), student, trxUid, 7).
					Return(renewedView, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: mustJSON(t, renewedView),
			},
		},
		{
			name: "err. renewal limit reached",
			body: `{"days":7}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					RenewTransaction(authCtx(student), student, trxUid, 7).
					Return(model.TransactionView{}, errs.ErrRenewalLimit)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"renewal limit reached"}`,
			},
			wantErr: true,
		},
		{
			name: "err. overdue cannot be renewed",
			body: `{"days":7}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					RenewTransaction(authCtx(student), student, trxUid, 7).
					Return(model.TransactionView{}, errs.ErrOverdueRenewal)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"overdue books cannot be renewed"}`,
			},
			wantErr: true,
		},
		{
			name: "ok. empty body uses the default period",
			body: "",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					RenewTransaction(authCtx(student), student, trxUid, 0).
					Return(renewedView, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: mustJSON(t, renewedView),
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := newRouter(student, http.MethodPost, "/api/v1/transactions/:transactionUid/renew", h.RenewTransaction)

			r := httptest.NewRequest(http.MethodPost,
				fmt.Sprintf("/api/v1/transactions/%s/renew", trxUid), strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_PayFine(t *testing.T) {
	t.Parallel()
	const fineUid = "3b1f0b6c-8e1a-4f07-9f4c-5d2e7a9b0c11"

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	payReq := model.PayFineRequest{PaymentMethod: "card", PaymentReference: "ref-42"}
	paidAt := testNow
	paid := model.Fine{
		FineUid:          fineUid,
		TransactionUid:   "7f8c9e4a-0f3b-4b62-a0d4-6f2a8d9b1c55",
		Username:         student.Username,
		Amount:           decimal.RequireFromString("3.00"),
		Reason:           "Overdue by 3 days",
		Status:           model.FinePaid,
		PaidDate:         &paidAt,
		PaymentMethod:    "card",
		PaymentReference: "ref-42",
		CreatedAt:        testNow,
	}

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					PayFine(authCtx(student), student, fineUid, payReq).
					Return(paid, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: mustJSON(t, paid),
			},
		},
		{
			name: "err. fine is not pending",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					PayFine(authCtx(student), student, fineUid, payReq).
					Return(model.Fine{}, errs.ErrFineNotPending)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"fine is not pending"}`,
			},
			wantErr: true,
		},
		{
			name: "err. someone else's fine",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					PayFine(authCtx(student), student, fineUid, payReq).
					Return(model.Fine{}, errs.ErrPermissionDenied)
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"permission denied"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := newRouter(student, http.MethodPost, "/api/v1/fines/:fineUid/pay", h.PayFine)

			r := httptest.NewRequest(http.MethodPost,
				fmt.Sprintf("/api/v1/fines/%s/pay", fineUid),
				strings.NewReader(`{"paymentMethod":"card","paymentReference":"ref-42"}`))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_WaiveFine(t *testing.T) {
	t.Parallel()
	const fineUid = "3b1f0b6c-8e1a-4f07-9f4c-5d2e7a9b0c11"

	waiveReq := model.WaiveFineRequest{Reason: "damaged in transit"}
	waivedBy := curator.Username
	waived := model.Fine{
		FineUid:        fineUid,
		TransactionUid: "7f8c9e4a-0f3b-4b62-a0d4-6f2a8d9b1c55",
		Username:       student.Username,
		Amount:         decimal.RequireFromString("3.00"),
		Reason:         "Overdue by 3 days",
		Status:         model.FineWaived,
		WaivedBy:       &waivedBy,
		WaivedReason:   "damaged in transit",
		CreatedAt:      testNow,
	}

	var tests = []struct {
		name         string
		profile      auth.Profile
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
		expectedBody string
		wantErr      bool
	}{
		{
			name:    "ok. librarian waives",
			profile: curator,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					WaiveFine(authCtx(curator), curator, fineUid, waiveReq).
					Return(waived, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: mustJSON(t, waived),
		},
		{
			name:         "err. student cannot waive",
			profile:      student,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"only librarians can waive fines"}`,
			wantErr:      true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := newRouter(tt.profile, http.MethodPost, "/api/v1/fines/:fineUid/waive", h.WaiveFine)

			r := httptest.NewRequest(http.MethodPost,
				fmt.Sprintf("/api/v1/fines/%s/waive", fineUid),
				strings.NewReader(`{"reason":"damaged in transit"}`))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ListPendingFines(t *testing.T) {
	t.Parallel()

	report := model.PendingFinesReport{
		Fines: []model.Fine{
			{
				FineUid:        "3b1f0b6c-8e1a-4f07-9f4c-5d2e7a9b0c11",
				TransactionUid: "7f8c9e4a-0f3b-4b62-a0d4-6f2a8d9b1c55",
				Username:       student.Username,
				Amount:         decimal.RequireFromString("3.00"),
				Reason:         "Overdue by 3 days",
				Status:         model.FinePending,
				CreatedAt:      testNow,
			},
		},
		TotalPending: decimal.RequireFromString("3.00"),
		Count:        1,
	}

	var tests = []struct {
		name         string
		profile      auth.Profile
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
		expectedBody string
		wantErr      bool
	}{
		{
			name:    "ok. librarian report",
			profile: curator,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ListPendingFines(authCtx(curator)).
					Return(report, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: mustJSON(t, report),
		},
		{
			name:         "err. student denied",
			profile:      student,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"only librarians can view pending fines"}`,
			wantErr:      true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := newRouter(tt.profile, http.MethodGet, "/api/v1/fines/pending", h.ListPendingFines)

			r := httptest.NewRequest(http.MethodGet, "/api/v1/fines/pending", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetBorrowerStats(t *testing.T) {
	t.Parallel()

	stats := model.BorrowerStats{
		Username:    student.Username,
		BorrowCount: 4,
		ReturnCount: 3,
		FineCount:   1,
	}

	var tests = []struct {
		name         string
		profile      auth.Profile
		username     string
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
		expectedBody string
		wantErr      bool
	}{
		{
			name:     "ok. own stats",
			profile:  student,
			username: student.Username,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					GetBorrowerStats(authCtx(student), student.Username).
					Return(stats, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: mustJSON(t, stats),
		},
		{
			name:     "ok. librarian reads any borrower",
			profile:  curator,
			username: student.Username,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					GetBorrowerStats(authCtx(curator), student.Username).
					Return(stats, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: mustJSON(t, stats),
		},
		{
			name:         "err. student reads someone else",
			profile:      student,
			username:     "student2",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"permission denied"}`,
			wantErr:      true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := newRouter(tt.profile, http.MethodGet, "/api/v1/stats/:username", h.GetBorrowerStats)

			r := httptest.NewRequest(http.MethodGet, "/api/v1/stats/"+tt.username, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
