package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/turfspot/turf-booking-backend/internal/database"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

var errBackend = errors.New("connection reset by peer")

type fakeTurfStore struct {
	turfs     map[uuid.UUID]*models.Turf
	deleteErr error
	listed    models.TurfFilter
}

func newFakeTurfStore(turfs ...*models.Turf) *fakeTurfStore {
	f := &fakeTurfStore{turfs: map[uuid.UUID]*models.Turf{}}
	for _, t := range turfs {
		f.turfs[t.ID] = t
	}
	return f
}

func (f *fakeTurfStore) Create(_ context.Context, turf *models.Turf) error {
	turf.ID = uuid.New()
	f.turfs[turf.ID] = turf
	return nil
}

func (f *fakeTurfStore) Update(_ context.Context, turf *models.Turf) error {
	if _, ok := f.turfs[turf.ID]; !ok {
		return database.ErrTurfNotFound
	}
	f.turfs[turf.ID] = turf
	return nil
}

func (f *fakeTurfStore) Delete(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.turfs[id]; !ok {
		return database.ErrTurfNotFound
	}
	delete(f.turfs, id)
	return nil
}

func (f *fakeTurfStore) GetByID(_ context.Context, id uuid.UUID) (*models.Turf, error) {
	t, ok := f.turfs[id]
	if !ok {
		return nil, database.ErrTurfNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTurfStore) List(_ context.Context, filter models.TurfFilter) ([]models.Turf, error) {
	f.listed = filter
	out := []models.Turf{}
	for _, t := range f.turfs {
		out = append(out, *t)
	}
	return out, nil
}

type fakeBookingStore struct {
	bookings  map[uuid.UUID]*models.BookingWithTurf
	booked    []string
	bookedErr error
	createErr error
	updateErr error
	all       []models.BookingWithTurf
	byUser    []models.BookingWithTurf
	created   []*models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[uuid.UUID]*models.BookingWithTurf{}}
}

func (f *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.created = append(f.created, b)
	return nil
}

func (f *fakeBookingStore) GetWithTurf(_ context.Context, id uuid.UUID) (*models.BookingWithTurf, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, database.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, _ uuid.UUID) ([]models.BookingWithTurf, error) {
	return f.byUser, nil
}

func (f *fakeBookingStore) ListAll(_ context.Context) ([]models.BookingWithTurf, error) {
	return f.all, nil
}

func (f *fakeBookingStore) BookedSlots(_ context.Context, _ uuid.UUID, _ models.Date) ([]string, error) {
	return f.booked, f.bookedErr
}

func (f *fakeBookingStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.BookingStatus) (time.Time, error) {
	if f.updateErr != nil {
		return time.Time{}, f.updateErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return time.Time{}, database.ErrBookingNotFound
	}
	if b.Status == models.BookingCancelled {
		return time.Time{}, database.ErrAlreadyCancelled
	}
	b.Status = status
	b.UpdatedAt = time.Date(2024, 6, 10, 4, 0, 0, 0, time.UTC)
	return b.UpdatedAt, nil
}

type fakeProfileStore struct {
	byEmail   map[string]*models.Profile
	count     int64
	countErr  error
	lastLogin []uuid.UUID
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{byEmail: map[string]*models.Profile{}}
}

func (f *fakeProfileStore) Create(_ context.Context, p *models.Profile) error {
	if _, ok := f.byEmail[p.Email]; ok {
		return database.ErrEmailTaken
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.byEmail[p.Email] = p
	return nil
}

func (f *fakeProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return nil, database.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileStore) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	for _, p := range f.byEmail {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, database.ErrProfileNotFound
}

func (f *fakeProfileStore) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*models.Profile, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Username = nullString(username)
	return p, nil
}

func (f *fakeProfileStore) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	f.lastLogin = append(f.lastLogin, id)
	return nil
}

func (f *fakeProfileStore) List(_ context.Context) ([]models.Profile, error) {
	out := []models.Profile{}
	for _, p := range f.byEmail {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProfileStore) Count(_ context.Context) (int64, error) {
	return f.count, f.countErr
}

type attempt struct {
	email   string
	success bool
}

type fakeAttemptStore struct {
	attempts []attempt
	failures int
	last     time.Time
	since    time.Time
}

func (f *fakeAttemptStore) Record(_ context.Context, email, _ string, success bool) error {
	f.attempts = append(f.attempts, attempt{email: email, success: success})
	return nil
}

func (f *fakeAttemptStore) FailuresSince(_ context.Context, _ string, since time.Time) (int, time.Time, error) {
	f.since = since
	return f.failures, f.last, nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	err     error
}

func (f *fakeAuditStore) Insert(_ context.Context, entry *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type sentNotice struct {
	kind      models.NotificationKind
	recipient string
	summary   models.BookingSummary
}

type recordingNotifier struct {
	sent []sentNotice
}

func (r *recordingNotifier) Notify(kind models.NotificationKind, recipient string, summary models.BookingSummary) {
	r.sent = append(r.sent, sentNotice{kind: kind, recipient: recipient, summary: summary})
}

type failingNotifier struct {
	calls int
}

func (f *failingNotifier) Notify(_ context.Context, _ models.BookingEmailRequest) error {
	f.calls++
	return errors.New("email function returned status 500")
}

func nullLogger() (logrus.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logger, hook
}
