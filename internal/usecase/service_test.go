package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/pkg/event/eventtest"
	"hotel-reservation/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	svc    *Service
	repo   *repository.Repository
	clock  *fakeClock
	events *eventtest.Recorder
	config *utils.Config
}

func testConfig() *utils.Config {
	return &utils.Config{
		Reservation: utils.ReservationConfig{
			PendingTTL:          15 * time.Minute,
			SweepInterval:       time.Minute,
			LedgerFlushInterval: time.Second,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, repository.NewMemoryRepository(zap.NewNop()), testConfig())
}

func newTestEnvWith(t *testing.T, repo *repository.Repository, config *utils.Config) *testEnv {
	t.Helper()
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	events := eventtest.NewRecorder(1024)
	svc := NewService(repo, config, zap.NewNop(), WithClock(clock), WithPublisher(events))
	require.NoError(t, svc.Load(context.Background()))
	return &testEnv{svc: svc, repo: repo, clock: clock, events: events, config: config}
}

func (e *testEnv) room(t *testing.T, name string, capacity int) *entity.Room {
	t.Helper()
	room, err := e.svc.Room.CreateRoom(context.Background(), entity.RoomAttributes{Name: &name, Capacity: &capacity})
	require.NoError(t, err)
	return room
}

func date(s string) time.Time {
	d, err := entity.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
