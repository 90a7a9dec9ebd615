package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loanledger/internal/domain/event"
	domain "loanledger/internal/domain/loan"
	"loanledger/internal/domain/transfer"
	"loanledger/internal/domain/uow"
	"loanledger/pkg/id"
	"loanledger/pkg/keylock"

	"github.com/shopspring/decimal"
)

// Usecase is the loan ledger. Every transition runs under a per-loan lock
// inside one transaction: either the state change, its journal entries and
// its notification all commit, or nothing does.
type Usecase struct {
	loans     domain.Repository
	transfers transfer.Repository
	events    event.Repository
	uow       uow.UnitOfWork

	gateway   transfer.Gateway
	publisher event.Publisher
	mode      domain.InterestMode
	now       func() time.Time
	log       *slog.Logger

	locks keylock.Locker[uint64]
}

type Option func(*Usecase)

func WithGateway(g transfer.Gateway) Option { return func(u *Usecase) { u.gateway = g } }
func WithPublisher(p event.Publisher) Option { return func(u *Usecase) { u.publisher = p } }
func WithInterestMode(m domain.InterestMode) Option { return func(u *Usecase) { u.mode = m } }
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }
func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

// NewUsecase: pass the read repos and a UoW for tx flows.
func NewUsecase(loans domain.Repository, transfers transfer.Repository, events event.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		loans:     loans,
		transfers: transfers,
		events:    events,
		uow:       tx,
		gateway:   transfer.AcceptAll{},
		mode:      domain.InterestSimple,
		now:       func() time.Time { return time.Now().UTC() },
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Usecase) InterestMode() domain.InterestMode { return u.mode }

// Request creates a loan for the borrower and takes custody of the collateral.
func (u *Usecase) Request(ctx context.Context, in RequestLoanInput) (*LoanDTO, error) {
	now := u.now()
	l, err := domain.New(in.Borrower, in.Collateral, in.InterestRate, in.DurationYears, now)
	if err != nil {
		return nil, u.reject("request", 0, err)
	}

	var evt *event.Event
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		if err := u.move(ctx, r, l.ID, transfer.KindCollateralDeposit, l.Borrower, transfer.EscrowAccount, l.Collateral); err != nil {
			return err
		}
		evt, err = u.record(ctx, r, l.ID, event.KindLoanRequested, l.Borrower, l.Collateral, now)
		return err
	})
	if err != nil {
		return nil, u.reject("request", 0, err)
	}

	u.log.Info("loan.requested", "loan_id", l.ID, "borrower", l.Borrower,
		"collateral", l.Collateral.String(), "due_date", l.DueDate)
	u.publish(ctx, evt)
	return toDTO(l), nil
}

// Fund pays the exact loan amount to the borrower and records the lender.
func (u *Usecase) Fund(ctx context.Context, in FundLoanInput) (*LoanDTO, error) {
	unlock := u.locks.Lock(in.LoanID)
	defer unlock()

	now := u.now()
	var (
		out *LoanDTO
		evt *event.Event
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if err := l.Fund(in.Lender, in.Payment, now); err != nil {
			return err
		}
		if err := u.move(ctx, r, l.ID, transfer.KindFunding, in.Lender, l.Borrower, in.Payment); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		var err error
		if evt, err = u.record(ctx, r, l.ID, event.KindLoanFunded, in.Lender, l.LoanAmount, now); err != nil {
			return err
		}
		out = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, u.reject("fund", in.LoanID, err)
	}

	u.log.Info("loan.funded", "loan_id", in.LoanID, "lender", in.Lender)
	u.publish(ctx, evt)
	return out, nil
}

// Repay settles a funded loan before its due date: the payment goes to the
// lender and the collateral back to the borrower.
func (u *Usecase) Repay(ctx context.Context, in RepayLoanInput) (*RepaymentDTO, error) {
	unlock := u.locks.Lock(in.LoanID)
	defer unlock()

	now := u.now()
	var (
		out *RepaymentDTO
		evt *event.Event
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		due, returned, err := l.Repay(in.Payment, now, u.mode)
		if err != nil {
			return err
		}
		if err := u.move(ctx, r, l.ID, transfer.KindRepayment, in.Payer, *l.Lender, due); err != nil {
			return err
		}
		if err := u.move(ctx, r, l.ID, transfer.KindCollateralReturn, transfer.EscrowAccount, l.Borrower, returned); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		if evt, err = u.record(ctx, r, l.ID, event.KindLoanRepaid, in.Payer, due, now); err != nil {
			return err
		}
		out = &RepaymentDTO{Loan: toDTO(l), AmountPaid: due, CollateralReturned: returned}
		return nil
	})
	if err != nil {
		return nil, u.reject("repay", in.LoanID, err)
	}

	u.log.Info("loan.repaid", "loan_id", in.LoanID, "amount", out.AmountPaid.String())
	u.publish(ctx, evt)
	return out, nil
}

// ClaimCollateral hands the collateral of an overdue, unrepaid loan to its
// lender. Anyone may trigger it; the value only ever goes to the lender.
func (u *Usecase) ClaimCollateral(ctx context.Context, in ClaimCollateralInput) (*ClaimDTO, error) {
	unlock := u.locks.Lock(in.LoanID)
	defer unlock()

	now := u.now()
	var (
		out *ClaimDTO
		evt *event.Event
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		seized, err := l.ClaimCollateral(now)
		if err != nil {
			return err
		}
		if err := u.move(ctx, r, l.ID, transfer.KindCollateralSeizure, transfer.EscrowAccount, *l.Lender, seized); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		if evt, err = u.record(ctx, r, l.ID, event.KindCollateralClaimed, *l.Lender, seized, now); err != nil {
			return err
		}
		out = &ClaimDTO{Loan: toDTO(l), CollateralTaken: seized}
		return nil
	})
	if err != nil {
		return nil, u.reject("claim", in.LoanID, err)
	}

	u.log.Info("loan.defaulted", "loan_id", in.LoanID, "caller", in.Caller,
		"collateral", out.CollateralTaken.String())
	u.publish(ctx, evt)
	return out, nil
}

// AmountDue is the read-only repayment quote for the loan at the given time;
// a zero at means now.
func (u *Usecase) AmountDue(ctx context.Context, loanID uint64, at time.Time) (*AmountDueDTO, error) {
	if at.IsZero() {
		at = u.now()
	}
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	due, err := l.AmountDue(at, u.mode)
	if err != nil {
		return nil, err
	}
	return &AmountDueDTO{
		LoanID:       l.ID,
		At:           at.UTC(),
		YearsElapsed: domain.YearsElapsed(l.StartDate, at),
		InterestMode: string(u.mode),
		AmountDue:    due,
	}, nil
}

func (u *Usecase) Get(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) ListByAccount(ctx context.Context, account string) ([]LoanDTO, error) {
	ls, err := u.loans.ListByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

func (u *Usecase) Events(ctx context.Context, loanID uint64) ([]event.Event, error) {
	if _, err := u.loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return u.events.ListByLoanID(ctx, loanID)
}

func (u *Usecase) Transfers(ctx context.Context, loanID uint64) ([]transfer.Transfer, error) {
	if _, err := u.loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return u.transfers.ListByLoanID(ctx, loanID)
}

// Escrow reconciles the custody journal against open loans in one snapshot.
func (u *Usecase) Escrow(ctx context.Context) (*EscrowDTO, error) {
	var out EscrowDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ts, err := r.Transfers.ListEscrow(ctx)
		if err != nil {
			return err
		}
		open, err := r.Loans.ListOpen(ctx)
		if err != nil {
			return err
		}
		out.JournalBalance = decimal.Zero
		for i := range ts {
			out.JournalBalance = out.JournalBalance.Add(ts[i].EscrowDelta())
		}
		out.OpenCollateral = decimal.Zero
		for i := range open {
			out.OpenCollateral = out.OpenCollateral.Add(open[i].Collateral)
		}
		out.OpenLoans = len(open)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Consistent = out.JournalBalance.Equal(out.OpenCollateral)
	if !out.Consistent {
		u.log.Error("escrow.mismatch", "journal", out.JournalBalance.String(), "open", out.OpenCollateral.String())
	}
	return &out, nil
}

func (u *Usecase) move(ctx context.Context, r uow.Repos, loanID uint64, kind transfer.Kind, from, to string, amount decimal.Decimal) error {
	t := &transfer.Transfer{
		TransferID:  id.NewID32(),
		LoanID:      loanID,
		Kind:        kind,
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
	}
	if err := r.Transfers.Create(ctx, t); err != nil {
		return fmt.Errorf("journal %s: %w", kind, err)
	}
	if t.Outbound() {
		if err := u.gateway.Deliver(ctx, t); err != nil {
			return fmt.Errorf("deliver %s to %s: %w", kind, to, err)
		}
	}
	return nil
}

func (u *Usecase) record(ctx context.Context, r uow.Repos, loanID uint64, kind event.Kind, actor string, amount decimal.Decimal, now time.Time) (*event.Event, error) {
	e := &event.Event{
		EventID:    id.NewEventID(),
		LoanID:     loanID,
		Kind:       kind,
		Actor:      actor,
		Amount:     decimal.NewNullDecimal(amount),
		OccurredAt: now.UTC(),
	}
	if err := r.Events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("record %s: %w", kind, err)
	}
	return e, nil
}

// publish runs after commit; the outbox row is the record of truth, so a
// subscriber failure is logged and not returned.
func (u *Usecase) publish(ctx context.Context, e *event.Event) {
	if u.publisher == nil || e == nil {
		return
	}
	if err := u.publisher.Publish(ctx, *e); err != nil {
		u.log.Warn("event.publish_failed", "event_id", e.EventID, "kind", e.Kind, "err", err)
	}
}

func (u *Usecase) reject(op string, loanID uint64, err error) error {
	if code := domain.Code(err); code != "" {
		u.log.Info("loan.rejected", "op", op, "loan_id", loanID, "code", code)
	} else {
		u.log.Warn("loan.failed", "op", op, "loan_id", loanID, "err", err)
	}
	return err
}
