package transactions

import (
	"context"
	"errors"
	"time"

	"github.com/elektra-pos/elektra-pos/internal/pos"
	"github.com/elektra-pos/elektra-pos/internal/shared"
)

var (
	ErrInvalidAmount      = errors.New("transactions: payment amount must be positive")
	ErrAlreadySettled     = errors.New("transactions: transaction is already paid in full")
	ErrTempoPaymentMethod = errors.New("transactions: tempo is not a settlement method")
)

// AuditPort records who did what.
type AuditPort interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

type Service struct {
	repo  Repository
	audit AuditPort
}

func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Transaction, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListPayments(ctx context.Context, transactionID string) ([]Payment, error) {
	if _, err := s.repo.Get(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, transactionID)
}

func (s *Service) ListTempoDue(ctx context.Context) ([]Transaction, error) {
	return s.repo.ListTempoDue(ctx)
}

type AddPaymentParams struct {
	Amount int64
	Method pos.PaymentMethod
	Notes  string
}

// AddPayment records money received against a transaction and re-resolves
// its payment status from the new paid total. Overpayment is accepted and
// keeps the status at paid.
func (s *Service) AddPayment(ctx context.Context, transactionID string, params AddPaymentParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if params.Method == pos.MethodTempo {
		return nil, ErrTempoPaymentMethod
	}

	actor := shared.ActorFromContext(ctx)
	var updated *Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		t, err := tx.GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if t.PaymentStatus == pos.StatusPaid {
			return ErrAlreadySettled
		}

		p := Payment{Amount: params.Amount, Method: params.Method}
		if params.Notes != "" {
			p.Notes = &params.Notes
		}
		if actor.Name != "" {
			p.CreatedBy = &actor.Name
		}
		if err := tx.InsertPayment(ctx, transactionID, p); err != nil {
			return err
		}

		paid := t.PaidAmount + params.Amount
		status := pos.ResolveStatus(t.TotalAmount, paid)
		if err := tx.UpdatePaymentState(ctx, transactionID, paid, status); err != nil {
			return err
		}

		t.PaidAmount = paid
		t.PaymentStatus = status
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "transactions.add_payment",
			Entity:   "transaction",
			EntityID: transactionID,
			Meta:     map[string]any{"amount": params.Amount, "method": params.Method},
		})
	}
	return updated, nil
}

// TodayRevenue sums transaction totals dated today.
func (s *Service) TodayRevenue(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.RevenueOn(ctx, now)
}

func (s *Service) OutstandingTotal(ctx context.Context) (int64, error) {
	return s.repo.OutstandingTotal(ctx)
}

// FormatAmount renders a whole-Rupiah amount for receipts and listings.
func FormatAmount(amount int64) string {
	return shared.FormatRupiah(amount)
}
