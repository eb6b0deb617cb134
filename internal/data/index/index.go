// Package index keeps, per room, the intervals held by CONFIRMED and CHECKED_IN
// bookings and answers overlap queries in O(log n + k).
//
// Each room stores its entries sorted by start together with a running maximum
// of end times. Every entry before the first position whose running maximum
// exceeds the query start ends at or before that start, so a query binary
// searches that position and walks forward until entries begin at or after the
// query end. Rooms with only a handful of entries are scanned linearly.
//
// Reads are safe at any time. Mutations touching the same room must be
// serialized by the caller.
package index

import (
	"slices"
	"sort"
	"sync"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/apperror"

	"github.com/google/uuid"
)

// linearScanThreshold is the room size at or below which a plain scan beats
// the binary search.
const linearScanThreshold = 8

type Index struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]*roomEntries
	owner map[uuid.UUID]entity.IntervalEntry
}

func New() *Index {
	return &Index{
		rooms: make(map[uuid.UUID]*roomEntries),
		owner: make(map[uuid.UUID]entity.IntervalEntry),
	}
}

// FindOverlaps returns the entries of roomID intersecting [start, end), ordered by start.
func (x *Index) FindOverlaps(roomID uuid.UUID, start, end time.Time) []entity.IntervalEntry {
	x.mu.RLock()
	room := x.rooms[roomID]
	x.mu.RUnlock()

	if room == nil || !start.Before(end) {
		return nil
	}
	return room.overlaps(start, end)
}

// Insert adds e. A booking can be indexed only once.
func (x *Index) Insert(e entity.IntervalEntry) error {
	if !e.Start.Before(e.End) {
		return apperror.New(apperror.InvalidRange, "interval for booking %s is empty", e.BookingID)
	}

	x.mu.Lock()
	if _, dup := x.owner[e.BookingID]; dup {
		x.mu.Unlock()
		return apperror.New(apperror.Conflict, "booking %s is already indexed", e.BookingID)
	}
	room, ok := x.rooms[e.RoomID]
	if !ok {
		room = &roomEntries{}
		x.rooms[e.RoomID] = room
	}
	x.owner[e.BookingID] = e
	x.mu.Unlock()

	room.insert(e)
	return nil
}

// Remove drops the entry of bookingID. It reports false if none was indexed.
func (x *Index) Remove(bookingID uuid.UUID) bool {
	x.mu.Lock()
	e, ok := x.owner[bookingID]
	if !ok {
		x.mu.Unlock()
		return false
	}
	delete(x.owner, bookingID)
	room := x.rooms[e.RoomID]
	x.mu.Unlock()

	room.remove(e)
	return true
}

// SetStatus updates the status tag carried by an indexed entry.
func (x *Index) SetStatus(bookingID uuid.UUID, status entity.BookingStatus) bool {
	x.mu.Lock()
	e, ok := x.owner[bookingID]
	if !ok {
		x.mu.Unlock()
		return false
	}
	e.Status = status
	x.owner[bookingID] = e
	room := x.rooms[e.RoomID]
	x.mu.Unlock()

	room.setStatus(e)
	return true
}

// Get returns the entry held for bookingID.
func (x *Index) Get(bookingID uuid.UUID) (entity.IntervalEntry, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e, ok := x.owner[bookingID]
	return e, ok
}

// Entries returns a copy of every entry of roomID ordered by start.
func (x *Index) Entries(roomID uuid.UUID) []entity.IntervalEntry {
	x.mu.RLock()
	room := x.rooms[roomID]
	x.mu.RUnlock()

	if room == nil {
		return nil
	}
	room.mu.RLock()
	defer room.mu.RUnlock()
	return slices.Clone(room.entries)
}

// Len is the total number of indexed bookings.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.owner)
}

// Reset replaces the whole content with entries. Used when rebuilding from the ledger.
func (x *Index) Reset(entries []entity.IntervalEntry) error {
	fresh := New()
	for _, e := range entries {
		if err := fresh.Insert(e); err != nil {
			return err
		}
	}

	x.mu.Lock()
	x.rooms = fresh.rooms
	x.owner = fresh.owner
	x.mu.Unlock()
	return nil
}

// ==================== PER ROOM ====================

type roomEntries struct {
	mu      sync.RWMutex
	entries []entity.IntervalEntry
	maxEnd  []time.Time
}

func less(a, b entity.IntervalEntry) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	if !a.End.Equal(b.End) {
		return a.End.Before(b.End)
	}
	return a.BookingID.String() < b.BookingID.String()
}

func (r *roomEntries) overlaps(start, end time.Time) []entity.IntervalEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.IntervalEntry
	if len(r.entries) <= linearScanThreshold {
		for _, e := range r.entries {
			if e.Overlaps(start, end) {
				out = append(out, e)
			}
		}
		return out
	}

	i := sort.Search(len(r.maxEnd), func(i int) bool { return r.maxEnd[i].After(start) })
	for ; i < len(r.entries) && r.entries[i].Start.Before(end); i++ {
		if r.entries[i].End.After(start) {
			out = append(out, r.entries[i])
		}
	}
	return out
}

func (r *roomEntries) insert(e entity.IntervalEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.entries), func(i int) bool { return less(e, r.entries[i]) })
	r.entries = slices.Insert(r.entries, i, e)
	r.maxEnd = slices.Insert(r.maxEnd, i, time.Time{})
	r.recompute(i)
}

func (r *roomEntries) remove(e entity.IntervalEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.position(e)
	if i < 0 {
		return
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	r.maxEnd = slices.Delete(r.maxEnd, i, i+1)
	r.recompute(i)
}

func (r *roomEntries) setStatus(e entity.IntervalEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.position(e); i >= 0 {
		r.entries[i].Status = e.Status
	}
}

// position finds e by binary search on its sort key.
func (r *roomEntries) position(e entity.IntervalEntry) int {
	i := sort.Search(len(r.entries), func(i int) bool { return !less(r.entries[i], e) })
	if i < len(r.entries) && r.entries[i].BookingID == e.BookingID {
		return i
	}
	return -1
}

// recompute refreshes the running maximum from position i onwards.
func (r *roomEntries) recompute(i int) {
	for ; i < len(r.entries); i++ {
		end := r.entries[i].End
		if i > 0 && r.maxEnd[i-1].After(end) {
			end = r.maxEnd[i-1]
		}
		r.maxEnd[i] = end
	}
}
