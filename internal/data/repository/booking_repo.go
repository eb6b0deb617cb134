package repository

import (
	"context"
	"fmt"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Save inserts or updates the booking. Versions older than the stored one are ignored.
	Save(ctx context.Context, booking *entity.Booking) error
	// FindAll returns every stored booking; the ledger loads them once on startup.
	FindAll(ctx context.Context) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, room_id, customer_id, check_in, check_out, guest_count, status,
		       cancel_reason, checked_in_at, checked_out_at, version, created_at, updated_at`

func (r *bookingRepository) Save(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			guest_count = EXCLUDED.guest_count,
			status = EXCLUDED.status,
			cancel_reason = EXCLUDED.cancel_reason,
			checked_in_at = EXCLUDED.checked_in_at,
			checked_out_at = EXCLUDED.checked_out_at,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE bookings.version < EXCLUDED.version
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.CustomerID,
		booking.CheckIn,
		booking.CheckOut,
		booking.GuestCount,
		booking.Status,
		booking.CancelReason,
		nullTime(booking.CheckedInAt),
		nullTime(booking.CheckedOutAt),
		booking.Version,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to save booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.Int64("version", booking.Version),
		)
		return fmt.Errorf("save booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all bookings", zap.Error(err))
		return nil, fmt.Errorf("find all bookings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		booking      entity.Booking
		checkedInAt  *time.Time
		checkedOutAt *time.Time
	)
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.CustomerID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.GuestCount,
		&booking.Status,
		&booking.CancelReason,
		&checkedInAt,
		&checkedOutAt,
		&booking.Version,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if checkedInAt != nil {
		booking.CheckedInAt = *checkedInAt
	}
	if checkedOutAt != nil {
		booking.CheckedOutAt = *checkedOutAt
	}
	booking.CheckIn = entity.Day(booking.CheckIn)
	booking.CheckOut = entity.Day(booking.CheckOut)
	return &booking, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
