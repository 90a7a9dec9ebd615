package http

import "github.com/labstack/echo/v4"

// Register mounts the ledger API on e. ws serves the live notification feed
// and may be nil.
func Register(e *echo.Echo, h *Handler, loans *LoanHandler, ws echo.HandlerFunc) {
	e.GET("/health", h.Health)

	e.POST("/loans", loans.RequestLoan)
	g := e.Group("/loans/:loan_id")
	g.GET("", loans.GetLoan)
	g.POST("/fund", loans.FundLoan)
	g.GET("/amount-due", loans.AmountDue)
	g.POST("/repay", loans.RepayLoan)
	g.POST("/claim", loans.ClaimCollateral)
	g.GET("/events", loans.LoanEvents)
	g.GET("/transfers", loans.LoanTransfers)

	e.GET("/accounts/:account_id/loans", loans.AccountLoans)
	e.GET("/ledger/escrow", loans.Escrow)

	if ws != nil {
		e.GET("/ws/events", ws)
	}
}
