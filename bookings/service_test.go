package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"roamio/apperr"
	"roamio/experiences"
	"roamio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingStore honors the Store contract: Insert enforces the
// confirmed-pair uniqueness atomically under its lock, exactly as the
// partial unique index does server-side.
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (f *fakeBookingStore) Insert(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.bookings {
		if existing.UserID == b.UserID &&
			existing.ExperienceID == b.ExperienceID &&
			existing.Status == models.BookingConfirmed &&
			b.Status == models.BookingConfirmed {
			return ErrDuplicate
		}
	}
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingStore) HasConfirmed(_ context.Context, userID, experienceID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.UserID == userID && b.ExperienceID == experienceID && b.Status == models.BookingConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) confirmedCount(userID, experienceID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.UserID == userID && b.ExperienceID == experienceID && b.Status == models.BookingConfirmed {
			n++
		}
	}
	return n
}

type fakeExpStore struct {
	mu    sync.Mutex
	items map[string]*models.Experience
}

func newFakeExpStore() *fakeExpStore {
	return &fakeExpStore{items: make(map[string]*models.Experience)}
}

func (f *fakeExpStore) Insert(_ context.Context, exp *models.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *exp
	f.items[exp.ExperienceID] = &cp
	return nil
}

func (f *fakeExpStore) FindByID(_ context.Context, id string) (*models.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	exp, ok := f.items[id]
	if !ok {
		return nil, experiences.ErrNotFound
	}
	cp := *exp
	return &cp, nil
}

func (f *fakeExpStore) SetStatus(_ context.Context, id string, status models.ExperienceStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	exp, ok := f.items[id]
	if !ok {
		return experiences.ErrNotFound
	}
	exp.Status = status
	return nil
}

func (f *fakeExpStore) SetBanner(_ context.Context, id string, banner string) error {
	return nil
}

func (f *fakeExpStore) Search(_ context.Context, q experiences.BrowseQuery) ([]models.Experience, int64, error) {
	return nil, 0, nil
}

func seedExperience(t *testing.T, store *fakeExpStore, status models.ExperienceStatus) string {
	t.Helper()
	exp := &models.Experience{
		ExperienceID: "x-" + string(status),
		Title:        "City Walk",
		Location:     "NYC",
		Price:        50,
		StartTime:    time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		CreatedBy:    "h1",
		Status:       status,
	}
	require.NoError(t, store.Insert(context.Background(), exp))
	return exp.ExperienceID
}

func user(id string) *models.Principal {
	return &models.Principal{UserID: id, Role: models.RoleUser}
}

func TestBookHappyPath(t *testing.T) {
	expStore := newFakeExpStore()
	store := &fakeBookingStore{}
	svc := NewService(store, expStore)
	id := seedExperience(t, expStore, models.StatusPublished)

	booking, err := svc.Book(context.Background(), user("u1"), id, 2)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, 2, booking.Seats)
	assert.Equal(t, "u1", booking.UserID)
	assert.Equal(t, id, booking.ExperienceID)
	assert.NotEmpty(t, booking.BookingID)
}

func TestBookHostAlwaysForbidden(t *testing.T) {
	expStore := newFakeExpStore()
	svc := NewService(&fakeBookingStore{}, expStore)
	hostPrincipal := &models.Principal{UserID: "h1", Role: models.RoleHost}

	// The role gate fires before any lookup: status and seat count are
	// irrelevant, even a nonexistent experience reads BOOKING_FORBIDDEN.
	for _, status := range []models.ExperienceStatus{models.StatusDraft, models.StatusPublished, models.StatusBlocked} {
		id := seedExperience(t, expStore, status)
		_, err := svc.Book(context.Background(), hostPrincipal, id, 1)
		assert.True(t, apperr.HasCode(err, apperr.CodeBookingForbidden), "status %s", status)
	}
	_, err := svc.Book(context.Background(), hostPrincipal, "missing", 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeBookingForbidden))
}

func TestBookAdminAllowed(t *testing.T) {
	expStore := newFakeExpStore()
	svc := NewService(&fakeBookingStore{}, expStore)
	id := seedExperience(t, expStore, models.StatusPublished)

	_, err := svc.Book(context.Background(), &models.Principal{UserID: "a1", Role: models.RoleAdmin}, id, 1)
	assert.NoError(t, err)
}

func TestBookSeatsValidatedBeforeLookup(t *testing.T) {
	svc := NewService(&fakeBookingStore{}, newFakeExpStore())

	// Invalid seats on a nonexistent experience is still a seats error.
	_, err := svc.Book(context.Background(), user("u1"), "missing", 0)
	require.Error(t, err)
	ae := apperr.From(err)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Equal(t, []string{"seats"}, ae.Details)
}

func TestBookUnknownExperience(t *testing.T) {
	svc := NewService(&fakeBookingStore{}, newFakeExpStore())
	_, err := svc.Book(context.Background(), user("u1"), "missing", 1)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestBookNonPublishedRejected(t *testing.T) {
	expStore := newFakeExpStore()
	svc := NewService(&fakeBookingStore{}, expStore)

	for _, status := range []models.ExperienceStatus{models.StatusDraft, models.StatusBlocked} {
		id := seedExperience(t, expStore, status)
		_, err := svc.Book(context.Background(), user("u1"), id, 1)
		assert.True(t, apperr.HasCode(err, apperr.CodeBookingNotAllowed), "status %s", status)
	}
}

func TestBookDuplicateConflict(t *testing.T) {
	expStore := newFakeExpStore()
	store := &fakeBookingStore{}
	svc := NewService(store, expStore)
	id := seedExperience(t, expStore, models.StatusPublished)

	_, err := svc.Book(context.Background(), user("u1"), id, 2)
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), user("u1"), id, 1)
	assert.True(t, apperr.HasCode(err, apperr.CodeBookingExists))
	assert.Equal(t, 1, store.confirmedCount("u1", id))

	// A different user is unaffected.
	_, err = svc.Book(context.Background(), user("u2"), id, 1)
	assert.NoError(t, err)
}

func TestBookConcurrentAttemptsExactlyOneWins(t *testing.T) {
	expStore := newFakeExpStore()
	store := &fakeBookingStore{}
	svc := NewService(store, expStore)
	id := seedExperience(t, expStore, models.StatusPublished)

	const n = 16
	start := make(chan struct{})
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Book(context.Background(), user("u1"), id, 2)
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	successes, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case apperr.HasCode(err, apperr.CodeBookingExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, 1, store.confirmedCount("u1", id))
}

// End-to-end walk through the documented scenarios: draft → publish →
// book → rebook conflict, and block → booking rejected.
func TestBookingScenario(t *testing.T) {
	expStore := newFakeExpStore()
	store := &fakeBookingStore{}
	expSvc := experiences.NewService(expStore)
	svc := NewService(store, expStore)

	hostPrincipal := &models.Principal{UserID: "h1", Role: models.RoleHost}
	adminPrincipal := &models.Principal{UserID: "a1", Role: models.RoleAdmin}

	price := 50.0
	exp, err := expSvc.Create(context.Background(), hostPrincipal, experiences.CreateInput{
		Title:     "City Walk",
		Location:  "NYC",
		Price:     &price,
		StartTime: "2026-01-01T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, exp.Status)

	// Booking a draft is rejected outright.
	_, err = svc.Book(context.Background(), user("u1"), exp.ExperienceID, 2)
	assert.True(t, apperr.HasCode(err, apperr.CodeBookingNotAllowed))

	_, err = expSvc.Publish(context.Background(), hostPrincipal, exp.ExperienceID)
	require.NoError(t, err)

	booking, err := svc.Book(context.Background(), user("u1"), exp.ExperienceID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)

	_, err = svc.Book(context.Background(), user("u1"), exp.ExperienceID, 1)
	assert.True(t, apperr.HasCode(err, apperr.CodeBookingExists))

	// Admin blocks; nobody can book anymore.
	_, err = expSvc.Block(context.Background(), adminPrincipal, exp.ExperienceID)
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), user("u2"), exp.ExperienceID, 1)
	assert.True(t, apperr.HasCode(err, apperr.CodeBookingNotAllowed))
}

func TestListByUserEmpty(t *testing.T) {
	svc := NewService(&fakeBookingStore{}, newFakeExpStore())
	bookings, err := svc.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}
