package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovchar/trainbook/internal/domain"
)

type PaymentRepository interface {
	HasSucceeded(ctx context.Context, bookingID string) (bool, error)
	CreatePending(ctx context.Context, payment *domain.Payment) error
	Finalize(ctx context.Context, payment *domain.Payment, approved bool) error
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) HasSucceeded(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id=$1 AND status=$2)`, bookingID, domain.PaymentStatusSucceeded).Scan(&exists)
	return exists, err
}

func (r *PGPaymentRepository) CreatePending(ctx context.Context, payment *domain.Payment) error {
	details, err := json.Marshal(payment.Source)
	if err != nil {
		return err
	}

	payment.Status = domain.PaymentStatusPending
	_, err = r.db.Exec(ctx, `INSERT INTO payments (id, booking_id, amount, currency, source_type, source_details, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		payment.ID, payment.BookingID, payment.Amount, payment.Currency, payment.Source.Object, details, payment.Status, payment.CreatedAt)
	return err
}

// Finalize commits the payment outcome and the booking confirmation as a
// single transaction. The booking row is locked so a concurrent submission
// cannot confirm an expired or already-settled booking: an approval is
// demoted to failed if the re-check under the lock does not hold.
func (r *PGPaymentRepository) Finalize(ctx context.Context, payment *domain.Payment, approved bool) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var status domain.BookingStatus
	var expiresAt time.Time
	if err := tx.QueryRow(ctx, `SELECT status, expires_at FROM bookings WHERE id=$1 FOR UPDATE`, payment.BookingID).Scan(&status, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookingNotFound
		}
		return err
	}

	if approved && demoteApproval(status, expiresAt, time.Now()) {
		approved = false
	}

	newStatus := domain.PaymentStatusFailed
	if approved {
		newStatus = domain.PaymentStatusSucceeded
	}

	if _, err := tx.Exec(ctx, `UPDATE payments SET status=$1 WHERE id=$2`, newStatus, payment.ID); err != nil {
		// payments carries a partial unique index on (booking_id) where
		// status='succeeded' as a backstop against double submission
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyPaid
		}
		return err
	}

	if approved {
		if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$1 WHERE id=$2`, domain.BookingStatusConfirmed, payment.BookingID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	payment.Status = newStatus
	return nil
}

// demoteApproval reports whether a processor approval must be downgraded to
// a failed payment: the booking stopped being pending, or its hold lapsed,
// while the charge was in flight.
func demoteApproval(status domain.BookingStatus, expiresAt, now time.Time) bool {
	return status != domain.BookingStatusPending || expiresAt.Before(now)
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
