package http

import (
	"log/slog"
	"net/http"

	"loanledger/internal/usecase/loan"
	"loanledger/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	Collateral    decimal.Decimal `json:"collateral" validate:"wei"`
	InterestRate  uint32          `json:"interest_rate"`
	DurationYears uint32          `json:"duration_years"`
}

type paymentReq struct {
	Payment decimal.Decimal `json:"payment" validate:"wei"`
}

func (h *LoanHandler) fail(c echo.Context, err error) error {
	status, body := mapError(err)
	if status == http.StatusInternalServerError {
		slog.Error("http.internal_error", "path", c.Path(), "err", err)
	}
	return c.JSON(status, body)
}

// bind decodes and validates the body; it writes the error response itself
// and reports whether the handler should continue.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "BadRequest"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    "ValidationFailed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	borrower, err := callerAccount(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req requestLoanReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Request(c.Request().Context(), loan.RequestLoanInput{
		Borrower:      borrower,
		Collateral:    req.Collateral,
		InterestRate:  req.InterestRate,
		DurationYears: req.DurationYears,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) FundLoan(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	lender, err := callerAccount(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req paymentReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Fund(c.Request().Context(), loan.FundLoanInput{LoanID: loanID, Lender: lender, Payment: req.Payment})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) AmountDue(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	at, err := parseAt(c.QueryParam("at"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.AmountDue(c.Request().Context(), loanID, at)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	payer, err := callerAccount(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req paymentReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Repay(c.Request().Context(), loan.RepayLoanInput{LoanID: loanID, Payer: payer, Payment: req.Payment})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ClaimCollateral(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	caller, err := callerAccount(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.ClaimCollateral(c.Request().Context(), loan.ClaimCollateralInput{LoanID: loanID, Caller: caller})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) LoanEvents(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	evs, err := h.uc.Events(c.Request().Context(), loanID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": loanID, "events": evs})
}

func (h *LoanHandler) LoanTransfers(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ts, err := h.uc.Transfers(c.Request().Context(), loanID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": loanID, "transfers": ts})
}

func (h *LoanHandler) AccountLoans(c echo.Context) error {
	account := c.Param("account_id")
	if !id.IsHex32(account) {
		return badRequest(c, "invalid account_id")
	}
	ls, err := h.uc.ListByAccount(c.Request().Context(), account)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"account_id": account, "loans": ls})
}

func (h *LoanHandler) Escrow(c echo.Context) error {
	dto, err := h.uc.Escrow(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
