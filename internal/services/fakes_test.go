package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"eventflow/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, Create returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(ownerID, title string) *domain.Event {
	loc := "Rooftop"
	e := domain.NewEvent(ownerID, title, nil, &loc, "2025-06-01T18:00", fixedNow, fixedNow)
	_ = f.Create(context.Background(), e)
	return e
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByOwnerID(_ context.Context, ownerID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate < out[j].EventDate })
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *e
	f.byID[e.ID] = &c
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeInviteRepo stores copies so callers cannot mutate stored invites in place.
type fakeInviteRepo struct {
	events *fakeEventRepo
	byCode map[string]*domain.Invite
	nextID int
	// beforeTransition runs once before the next Transition, simulating a
	// concurrent writer.
	beforeTransition func(stored *domain.Invite)
	transitions      int
}

func newFakeInviteRepo(events *fakeEventRepo) *fakeInviteRepo {
	return &fakeInviteRepo{events: events, byCode: make(map[string]*domain.Invite), nextID: 1}
}

func (f *fakeInviteRepo) add(eventID, code string, status domain.InviteStatus) *domain.Invite {
	inv := domain.NewInvite(eventID, code, nil, nil, fixedNow)
	inv.Status = status
	_ = f.Create(context.Background(), inv)
	return inv
}

func (f *fakeInviteRepo) Create(_ context.Context, inv *domain.Invite) error {
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.nextID++
	c := *inv
	f.byCode[inv.InviteCode] = &c
	return nil
}

func (f *fakeInviteRepo) GetByCode(_ context.Context, code string) (*domain.Invite, error) {
	inv, ok := f.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *inv
	return &c, nil
}

func (f *fakeInviteRepo) GetByCodeWithEvent(ctx context.Context, code string) (*domain.InviteWithEvent, error) {
	inv, err := f.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	ev, err := f.events.GetByID(ctx, inv.EventID)
	if err != nil {
		return nil, err
	}
	return &domain.InviteWithEvent{Invite: inv, Event: ev}, nil
}

func (f *fakeInviteRepo) ListByEventID(_ context.Context, eventID string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	var all []*domain.Invite
	for _, inv := range f.byCode {
		if inv.EventID == eventID {
			all = append(all, inv)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := min(params.Offset(), len(all))
	end := min(start+params.PageSize, len(all))
	return all[start:end], len(all), nil
}

func (f *fakeInviteRepo) Transition(_ context.Context, inv *domain.Invite, from domain.InviteStatus) error {
	f.transitions++
	stored, ok := f.byCode[inv.InviteCode]
	if !ok {
		return domain.ErrNotFound
	}
	if hook := f.beforeTransition; hook != nil {
		f.beforeTransition = nil
		hook(stored)
	}
	if stored.Status != from {
		return domain.ErrInviteStale
	}
	c := *inv
	f.byCode[inv.InviteCode] = &c
	return nil
}

type fakeMediaRepo struct {
	byID      map[string]*domain.Media
	nextID    int
	createErr error
	deleteErr error
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{byID: make(map[string]*domain.Media), nextID: 1}
}

func (f *fakeMediaRepo) Create(_ context.Context, m *domain.Media) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = fmt.Sprintf("m-%d", f.nextID)
	f.nextID++
	f.byID[m.ID] = m
	return nil
}

func (f *fakeMediaRepo) GetByID(_ context.Context, id string) (*domain.Media, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMediaRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.Media, error) {
	out := []*domain.Media{}
	for _, m := range f.byID {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeMediaRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeBlobStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
	signErr   error
	signFail  map[string]bool
	deleted   []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = b
	return nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobStore) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	if f.signFail[key] {
		return "", errBoom
	}
	return fmt.Sprintf("https://blobs.test/%s?expires=%d", key, int(ttl.Seconds())), nil
}

type fakeEmailService struct {
	sent []*domain.InvitationEmailData
	err  error
}

func (f *fakeEmailService) SendInvitation(_ context.Context, data *domain.InvitationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

var errBoom = errors.New("boom")
