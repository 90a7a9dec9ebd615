package loan

import "errors"

var (
	ErrInvalidCollateral      = errors.New("collateral must be greater than zero")
	ErrInvalidDuration        = errors.New("duration exceeds the supported range")
	ErrNotFound               = errors.New("loan not found")
	ErrAlreadyFunded          = errors.New("loan already funded")
	ErrNotFunded              = errors.New("loan not funded")
	ErrAlreadyRepaid          = errors.New("loan already repaid")
	ErrAlreadyClaimed         = errors.New("collateral already claimed")
	ErrIncorrectPaymentAmount = errors.New("incorrect payment amount")
	ErrExpired                = errors.New("loan expired")
	ErrStillActive            = errors.New("loan still active")
	ErrArithmeticOverflow     = errors.New("arithmetic overflow")
	ErrDivisionByZero         = errors.New("division by zero")
)

var codes = map[error]string{
	ErrInvalidCollateral:      "InvalidCollateral",
	ErrInvalidDuration:        "InvalidDuration",
	ErrNotFound:               "LoanNotFound",
	ErrAlreadyFunded:          "AlreadyFunded",
	ErrNotFunded:              "LoanNotFunded",
	ErrAlreadyRepaid:          "AlreadyRepaid",
	ErrAlreadyClaimed:         "AlreadyClaimed",
	ErrIncorrectPaymentAmount: "IncorrectPaymentAmount",
	ErrExpired:                "LoanExpired",
	ErrStillActive:            "LoanStillActive",
	ErrArithmeticOverflow:     "ArithmeticOverflow",
	ErrDivisionByZero:         "DivisionByZero",
}

// Code returns the stable rejection code for a ledger error, or "" when err
// is not one of the sentinels above (wrapped errors are unwrapped).
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
