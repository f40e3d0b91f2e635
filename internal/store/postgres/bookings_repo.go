package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

var _ store.BookingRepository = (*BookingRepo)(nil)

type bookingTx struct {
	tx bun.Tx
}

func (r *BookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, bool, error) {
	var (
		out     domain.Booking
		created bool
	)
	err := r.inUserTransaction(ctx, b.UserID, func(ctx context.Context, tx bookingTx) error {
		var err error
		out, created, err = tx.create(ctx, b)
		return err
	})
	if err != nil {
		return domain.Booking{}, false, err
	}
	return out, created, nil
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) Get(ctx context.Context, userID string, bookingID uuid.UUID) (domain.Booking, error) {
	return getBooking(ctx, r.db, userID, bookingID)
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, userID string, bookingID uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	var out domain.Booking
	err := r.inUserTransaction(ctx, userID, func(ctx context.Context, tx bookingTx) error {
		b, err := getBooking(ctx, tx.tx, userID, bookingID)
		if err != nil {
			return err
		}
		if b.Status == status {
			return store.ErrConflict
		}
		b.Status = status
		_, err = tx.tx.NewUpdate().
			Model(&b).
			Column("status", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

// inUserTransaction serializes writes per user so that idempotent creates and
// status transitions observe each other.
func (r *BookingRepo) inUserTransaction(ctx context.Context, userID string, fn func(ctx context.Context, tx bookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockUser(ctx context.Context, tx bun.Tx, userID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "bookings:"+userID).Exec(ctx)
	return err
}

func getBooking(ctx context.Context, db bun.IDB, userID string, bookingID uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := db.NewSelect().
		Model(&b).
		Where("id = ?", bookingID).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (r bookingTx) create(ctx context.Context, b domain.Booking) (domain.Booking, bool, error) {
	m := b

	// ON CONFLICT keeps the transaction usable for the idempotency lookup.
	res, err := r.tx.NewInsert().
		Model(&m).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.Booking{}, false, store.ErrNotFound
		}
		return domain.Booking{}, false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Booking{}, false, err
	}
	if affected > 0 {
		return m, true, nil
	}

	var existing domain.Booking
	err = r.tx.NewSelect().
		Model(&existing).
		Where("id = ?", m.ID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Booking{}, false, err
	}
	if !sameBooking(existing, b) {
		return domain.Booking{}, false, store.ErrIdempotencyConflict
	}
	return existing, false, nil
}

func sameBooking(a, b domain.Booking) bool {
	return a.UserID == b.UserID &&
		a.ServiceID == b.ServiceID &&
		a.Day() == b.Day() &&
		a.TimeSlot == b.TimeSlot &&
		a.Notes == b.Notes
}
