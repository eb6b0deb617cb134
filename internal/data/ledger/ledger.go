// Package ledger holds the authoritative booking records of the running
// process. Records are never removed once acknowledged; every committed
// version is queued and written to the backing store by a background flusher,
// so callers never wait on storage while holding a room lock.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the durable side of the ledger. Save must be an upsert that ignores
// versions older than the one already stored.
type Store interface {
	Save(ctx context.Context, booking *entity.Booking) error
	FindAll(ctx context.Context) ([]*entity.Booking, error)
}

type Ledger struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]entity.Booking

	store Store
	log   *zap.Logger

	flushMu sync.Mutex
	dirtyMu sync.Mutex
	dirty   map[uuid.UUID]entity.Booking
	notify  chan struct{}
}

func New(store Store, log *zap.Logger) *Ledger {
	return &Ledger{
		bookings: make(map[uuid.UUID]entity.Booking),
		store:    store,
		log:      log.With(zap.String("component", "ledger")),
		dirty:    make(map[uuid.UUID]entity.Booking),
		notify:   make(chan struct{}, 1),
	}
}

// Load replaces the in-memory records with the content of the store.
func (l *Ledger) Load(ctx context.Context) ([]entity.Booking, error) {
	rows, err := l.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	loaded := make(map[uuid.UUID]entity.Booking, len(rows))
	for _, b := range rows {
		loaded[b.ID] = *b
	}

	l.mu.Lock()
	l.bookings = loaded
	l.mu.Unlock()

	l.log.Info("Ledger loaded", zap.Int("bookings", len(loaded)))
	return l.Snapshot(), nil
}

func (l *Ledger) Get(id uuid.UUID) (entity.Booking, error) {
	l.mu.RLock()
	b, ok := l.bookings[id]
	l.mu.RUnlock()

	if !ok {
		return entity.Booking{}, apperror.New(apperror.NotFound, "booking %s not found", id)
	}
	return b, nil
}

// Add records a new booking.
func (l *Ledger) Add(b entity.Booking) error {
	l.mu.Lock()
	if _, exists := l.bookings[b.ID]; exists {
		l.mu.Unlock()
		return apperror.New(apperror.Conflict, "booking %s already exists", b.ID)
	}
	l.bookings[b.ID] = b
	l.mu.Unlock()

	l.markDirty(b)
	return nil
}

// Commit replaces the stored record with next, which must be exactly one
// version ahead of it.
func (l *Ledger) Commit(next entity.Booking) error {
	l.mu.Lock()
	cur, ok := l.bookings[next.ID]
	if !ok {
		l.mu.Unlock()
		return apperror.New(apperror.NotFound, "booking %s not found", next.ID)
	}
	if cur.Version+1 != next.Version {
		l.mu.Unlock()
		return apperror.New(apperror.Conflict, "booking %s changed concurrently (have v%d, got v%d)",
			next.ID, cur.Version, next.Version)
	}
	l.bookings[next.ID] = next
	l.mu.Unlock()

	l.markDirty(next)
	return nil
}

// ==================== QUERIES ====================

// Snapshot copies every record, ordered by creation time then id.
func (l *Ledger) Snapshot() []entity.Booking {
	return l.filter(func(entity.Booking) bool { return true })
}

func (l *Ledger) ByState(status entity.BookingStatus) []entity.Booking {
	return l.filter(func(b entity.Booking) bool { return b.Status == status })
}

func (l *Ledger) ByCustomer(customerID uuid.UUID) []entity.Booking {
	return l.filter(func(b entity.Booking) bool { return b.CustomerID == customerID })
}

// ExpiredPending lists PENDING bookings created before cutoff.
func (l *Ledger) ExpiredPending(cutoff time.Time) []entity.Booking {
	return l.filter(func(b entity.Booking) bool {
		return b.Status == entity.BookingStatusPending && b.CreatedAt.Before(cutoff)
	})
}

// HasActive reports whether any non-terminal booking references roomID.
func (l *Ledger) HasActive(roomID uuid.UUID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, b := range l.bookings {
		if b.RoomID == roomID && !b.Status.IsTerminal() {
			return true
		}
	}
	return false
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bookings)
}

func (l *Ledger) filter(keep func(entity.Booking) bool) []entity.Booking {
	l.mu.RLock()
	out := make([]entity.Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	l.mu.RUnlock()

	sortBookings(out)
	return out
}

func sortBookings(bookings []entity.Booking) {
	slices.SortFunc(bookings, func(a, b entity.Booking) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
}

// ==================== WRITE-BEHIND ====================

const defaultFlushInterval = 5 * time.Second

func (l *Ledger) markDirty(b entity.Booking) {
	l.dirtyMu.Lock()
	if cur, ok := l.dirty[b.ID]; !ok || cur.Version < b.Version {
		l.dirty[b.ID] = b
	}
	l.dirtyMu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Pending is the number of records waiting to be written.
func (l *Ledger) Pending() int {
	l.dirtyMu.Lock()
	defer l.dirtyMu.Unlock()
	return len(l.dirty)
}

// Flush writes every queued record to the store. Records that fail stay queued
// unless a newer version was queued in the meantime.
func (l *Ledger) Flush(ctx context.Context) error {
	l.flushMu.Lock()
	defer l.flushMu.Unlock()

	l.dirtyMu.Lock()
	batch := make([]entity.Booking, 0, len(l.dirty))
	for _, b := range l.dirty {
		batch = append(batch, b)
	}
	l.dirty = make(map[uuid.UUID]entity.Booking)
	l.dirtyMu.Unlock()

	sortBookings(batch)

	var errs []error
	for i := range batch {
		b := batch[i]
		if err := l.store.Save(ctx, &b); err != nil {
			l.log.Error("Failed to persist booking",
				zap.Error(err),
				zap.String("booking_id", b.ID.String()),
				zap.Int64("version", b.Version),
			)
			l.requeue(b)
			errs = append(errs, fmt.Errorf("persist booking %s: %w", b.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (l *Ledger) requeue(b entity.Booking) {
	l.dirtyMu.Lock()
	defer l.dirtyMu.Unlock()
	if cur, ok := l.dirty[b.ID]; !ok || cur.Version < b.Version {
		l.dirty[b.ID] = b
	}
}

// Run flushes whenever a record is committed, retrying failures every interval,
// until ctx is cancelled. A final flush is attempted on the way out.
func (l *Ledger) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// context utama sudah cancel, pakai context baru untuk flush terakhir
			finalCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := l.Flush(finalCtx); err != nil {
				l.log.Error("Final ledger flush failed", zap.Error(err), zap.Int("pending", l.Pending()))
			}
			cancel()
			return
		case <-l.notify:
		case <-ticker.C:
		}

		if l.Pending() == 0 {
			continue
		}
		if err := l.Flush(ctx); err != nil {
			l.log.Warn("Ledger flush incomplete, will retry", zap.Int("pending", l.Pending()))
		}
	}
}
