package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/services"
	"github.com/turfspot/turf-booking-backend/internal/viewmodel"
)

type fakeAuth struct {
	resp    *models.AuthResponse
	profile *models.Profile
	err     error
	loginIP string
}

func (f *fakeAuth) Signup(_ context.Context, _ models.SignupRequest) (*models.AuthResponse, error) {
	return f.resp, f.err
}

func (f *fakeAuth) Login(_ context.Context, _ models.LoginRequest, ip string, _ time.Time) (*models.AuthResponse, error) {
	f.loginIP = ip
	return f.resp, f.err
}

func (f *fakeAuth) Refresh(_ context.Context, _ string) (*models.AuthResponse, error) {
	return f.resp, f.err
}

func (f *fakeAuth) Profile(_ context.Context, _ uuid.UUID) (*models.Profile, error) {
	return f.profile, f.err
}

func (f *fakeAuth) UpdateProfile(_ context.Context, _ uuid.UUID, req models.UpdateProfileRequest) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.profile.Username.String = req.Username
	f.profile.Username.Valid = true
	return f.profile, nil
}

type createCall struct {
	userID    uuid.UUID
	email     string
	turfID    uuid.UUID
	date      models.Date
	startTime string
}

type fakeBookings struct {
	row     *viewmodel.BookingRow
	view    viewmodel.BookingsView
	slots   *models.TurfSlots
	err     error
	created *createCall
}

func (f *fakeBookings) Create(_ context.Context, userID uuid.UUID, email string, turfID uuid.UUID, date models.Date, startTime string, _ time.Time) (*viewmodel.BookingRow, error) {
	f.created = &createCall{userID: userID, email: email, turfID: turfID, date: date, startTime: startTime}
	return f.row, f.err
}

func (f *fakeBookings) ListForUser(_ context.Context, _ uuid.UUID, _ time.Time) (viewmodel.BookingsView, error) {
	return f.view, f.err
}

func (f *fakeBookings) Cancel(_ context.Context, _, _ uuid.UUID, _ time.Time) (*viewmodel.BookingRow, error) {
	return f.row, f.err
}

func (f *fakeBookings) Slots(_ context.Context, _ uuid.UUID, _ models.Date, _ time.Time) (*models.TurfSlots, error) {
	return f.slots, f.err
}

type fakeTurfs struct {
	turfs  []models.Turf
	turf   *models.Turf
	err    error
	filter models.TurfFilter
}

func (f *fakeTurfs) List(_ context.Context, filter models.TurfFilter) ([]models.Turf, error) {
	f.filter = filter
	return f.turfs, f.err
}

func (f *fakeTurfs) Get(_ context.Context, _ uuid.UUID) (*models.Turf, error) {
	return f.turf, f.err
}

func (f *fakeTurfs) Create(_ context.Context, _ models.TurfRequest, _ uuid.UUID) (*models.Turf, error) {
	return f.turf, f.err
}

func (f *fakeTurfs) Update(_ context.Context, _ uuid.UUID, _ models.TurfRequest) (*models.Turf, error) {
	return f.turf, f.err
}

func (f *fakeTurfs) Delete(_ context.Context, _ uuid.UUID) error {
	return f.err
}

type fakeReports struct {
	stats    *models.DashboardStats
	bookings []models.BookingWithTurf
	users    []models.Profile
	err      error
}

func (f *fakeReports) Stats(_ context.Context, _ time.Time) (*models.DashboardStats, error) {
	return f.stats, f.err
}

func (f *fakeReports) Bookings(_ context.Context) ([]models.BookingWithTurf, error) {
	return f.bookings, f.err
}

func (f *fakeReports) Users(_ context.Context) ([]models.Profile, error) {
	return f.users, f.err
}

type recordingAuditor struct {
	actions []string
}

func (r *recordingAuditor) LogSignup(context.Context, uuid.UUID, string, services.RequestMeta) {
	r.actions = append(r.actions, services.ActionSignup)
}

func (r *recordingAuditor) LogLogin(_ context.Context, _ uuid.UUID, _ string, success bool, _ string, _ services.RequestMeta) {
	if success {
		r.actions = append(r.actions, services.ActionLoginSuccess)
		return
	}
	r.actions = append(r.actions, services.ActionLoginFailed)
}

func (r *recordingAuditor) LogBookingCreated(context.Context, uuid.UUID, *models.Booking, services.RequestMeta) {
	r.actions = append(r.actions, services.ActionBookingCreated)
}

func (r *recordingAuditor) LogBookingCancelled(context.Context, uuid.UUID, *models.Booking, services.RequestMeta) {
	r.actions = append(r.actions, services.ActionBookingCancelled)
}

func (r *recordingAuditor) LogTurfChange(_ context.Context, action string, _, _ uuid.UUID, _ services.RequestMeta) {
	r.actions = append(r.actions, action)
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}
