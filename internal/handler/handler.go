package handler

import (
	"net/http"
	"time"

	"librarymgmt/internal/errs"
	"librarymgmt/internal/model"
	"librarymgmt/pkg/auth"
	mw "librarymgmt/pkg/middleware"
	"librarymgmt/pkg/validate"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	svc LibraryService
	log *zap.Logger
}

func New(svc LibraryService, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		mw.NewRateLimiter(apiRPS),
		mw.JwtAuthentication,
	)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookUid", h.GetBook)
	api.POST("/books/:bookUid/copies", h.SetTotalCopies)

	api.GET("/transactions", h.ListTransactions)
	api.GET("/transactions/my", h.ListActiveBorrows)
	api.GET("/transactions/overdue", h.ListOverdue)
	api.POST("/transactions/borrow", h.BorrowBook)
	api.POST("/transactions/:transactionUid/return", h.ReturnBook)
	api.POST("/transactions/:transactionUid/renew", h.RenewTransaction)

	api.GET("/fines/my", h.ListMyFines)
	api.GET("/fines/pending", h.ListPendingFines)
	api.POST("/fines", h.CreateFine)
	api.POST("/fines/:fineUid/pay", h.PayFine)
	api.POST("/fines/:fineUid/waive", h.WaiveFine)

	api.GET("/stats/:username", h.GetBorrowerStats)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func profile(c echo.Context) (auth.Profile, error) {
	p, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Profile{}, echo.NewHTTPError(http.StatusUnauthorized, "no auth context")
	}
	return p, nil
}

// httpError maps the error taxonomy onto status codes: eligibility and
// state-machine refusals are the caller's problem (400), missing rows 404,
// ownership/role failures 403, invariant violations stay 500.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrBookInactive),
		errors.Is(err, errs.ErrBookUnavailable),
		errors.Is(err, errs.ErrBorrowLimit),
		errors.Is(err, errs.ErrHasOverdue),
		errors.Is(err, errs.ErrUnpaidFines),
		errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrRenewalLimit),
		errors.Is(err, errs.ErrOverdueRenewal),
		errors.Is(err, errs.ErrNotBorrowed),
		errors.Is(err, errs.ErrFineNotPending),
		errors.Is(err, errs.ErrTransactionMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) GetBook(c echo.Context) error {
	bookUid := c.Param("bookUid")
	if bookUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty bookUid")
	}
	book, err := h.svc.GetBook(c.Request().Context(), bookUid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	showAll := c.QueryParam("showAll") == "true"
	books, err := h.svc.ListBooks(c.Request().Context(), showAll)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) SetTotalCopies(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	if !p.IsLibrarian() {
		return echo.NewHTTPError(http.StatusForbidden, "only librarians can manage inventory")
	}
	bookUid := c.Param("bookUid")
	if bookUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty bookUid")
	}
	var req model.SetCopiesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	book, err := h.svc.SetTotalCopies(c.Request().Context(), bookUid, req.TotalCopies)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) BorrowBook(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	var req model.BorrowBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Username = p.Username
	req.MaxBooksAllowed = p.MaxBooksAllowed
	if err := c.Validate(req); err != nil {
		return err
	}

	trx, err := h.svc.BorrowBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, trx)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	transactionUid := c.Param("transactionUid")
	if transactionUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty transactionUid")
	}
	res, err := h.svc.ReturnBook(c.Request().Context(), p, transactionUid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) RenewTransaction(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	transactionUid := c.Param("transactionUid")
	if transactionUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty transactionUid")
	}
	var req model.RenewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	trx, err := h.svc.RenewTransaction(c.Request().Context(), p, transactionUid, req.Days)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, trx)
}

func (h *Handler) ListTransactions(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	f := model.TransactionFilter{
		Status: model.TransactionStatus(c.QueryParam("status")),
	}
	if v := c.QueryParam("dateFrom"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid dateFrom")
		}
		f.DateFrom = &t
	}
	if v := c.QueryParam("dateTo"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid dateTo")
		}
		f.DateTo = &t
	}
	items, err := h.svc.ListTransactions(c.Request().Context(), p, f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListActiveBorrows(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListActiveBorrows(c.Request().Context(), p.Username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListOverdue(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	if !p.IsLibrarian() {
		return echo.NewHTTPError(http.StatusForbidden, "only librarians can view the overdue report")
	}
	items, err := h.svc.ListOverdue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateFine(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	if !p.IsLibrarian() {
		return echo.NewHTTPError(http.StatusForbidden, "only librarians can create fines")
	}
	var req model.CreateFineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if req.Amount.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must not be negative")
	}
	fine, err := h.svc.CreateFine(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, fine)
}

func (h *Handler) PayFine(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	fineUid := c.Param("fineUid")
	if fineUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty fineUid")
	}
	var req model.PayFineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	fine, err := h.svc.PayFine(c.Request().Context(), p, fineUid, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, fine)
}

func (h *Handler) WaiveFine(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	if !p.IsLibrarian() {
		return echo.NewHTTPError(http.StatusForbidden, "only librarians can waive fines")
	}
	fineUid := c.Param("fineUid")
	if fineUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty fineUid")
	}
	var req model.WaiveFineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	fine, err := h.svc.WaiveFine(c.Request().Context(), p, fineUid, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, fine)
}

func (h *Handler) ListMyFines(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	report, err := h.svc.ListMyFines(c.Request().Context(), p.Username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ListPendingFines(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	if !p.IsLibrarian() {
		return echo.NewHTTPError(http.StatusForbidden, "only librarians can view pending fines")
	}
	report, err := h.svc.ListPendingFines(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) GetBorrowerStats(c echo.Context) error {
	p, err := profile(c)
	if err != nil {
		return err
	}
	username := c.Param("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty username")
	}
	if username != p.Username && !p.IsLibrarian() {
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}
	stats, err := h.svc.GetBorrowerStats(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
