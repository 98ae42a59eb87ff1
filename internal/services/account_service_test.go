package services_test

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneacademy/internal/models"
	"oneacademy/internal/repositories"
	"oneacademy/internal/services"
)

// ---- fakes over the repository interfaces ----

type fakeUserRepo struct {
	nextID int
	byID   map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byID: map[int]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetByResetToken(token string) (*models.User, error) {
	for _, u := range r.byID {
		if u.ResetToken != nil && *u.ResetToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) List(limit, offset int) ([]*models.User, error) { return nil, nil }

func (r *fakeUserRepo) UpdateContact(user *models.User) error {
	u, ok := r.byID[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	u.Email = user.Email
	u.Phone = user.Phone
	return nil
}

func (r *fakeUserRepo) SetOTP(userID int, code string, expiresAt time.Time) error {
	u, ok := r.byID[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.OTPCode = &code
	u.OTPExpiresAt = &expiresAt
	return nil
}

func (r *fakeUserRepo) Activate(userID int) error {
	u, ok := r.byID[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.OTPCode = nil
	u.OTPExpiresAt = nil
	u.Status = models.StatusActive
	return nil
}

func (r *fakeUserRepo) SetResetToken(userID int, token string) error {
	u, ok := r.byID[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.ResetToken = &token
	return nil
}

func (r *fakeUserRepo) ResetPassword(userID int, hash string) error {
	u, ok := r.byID[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	u.ResetToken = nil
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, hash string) error {
	u, ok := r.byID[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

type fakeProfileRepo struct {
	nextID   int
	byUserID map[int]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{nextID: 1, byUserID: map[int]*models.Profile{}}
}

func (r *fakeProfileRepo) Create(p *models.Profile) error {
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.byUserID[p.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetByUserID(userID int) (*models.Profile, error) {
	p, ok := r.byUserID[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Update(p *models.Profile) error {
	existing, ok := r.byUserID[p.UserID]
	if !ok {
		return sql.ErrNoRows
	}
	*existing = *p
	return nil
}

type sentMail struct {
	To   string
	Name string
	Code string // OTP code or reset URL
}

type fakeMailer struct {
	fail       bool
	activation []sentMail
	resets     []sentMail
}

func (m *fakeMailer) SendActivationEmail(email, name, code string) error {
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.activation = append(m.activation, sentMail{To: email, Name: name, Code: code})
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(email, name, resetURL string) error {
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.resets = append(m.resets, sentMail{To: email, Name: name, Code: resetURL})
	return nil
}

type fixture struct {
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	mailer   *fakeMailer
	tokens   services.TokenService
	svc      services.AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	mailer := &fakeMailer{}
	tokens := services.NewTokenService("test-signing-key", 24*time.Hour)
	svc := services.NewAccountService(
		users,
		profiles,
		services.NewAuthService(),
		services.NewOTPGenerator(42),
		tokens,
		mailer,
		5*time.Minute,
		"https://oneacademy.test/forgot",
	)
	return &fixture{users: users, profiles: profiles, mailer: mailer, tokens: tokens, svc: svc}
}

func register(t *testing.T, f *fixture, email, password string) *services.RegisterResult {
	t.Helper()
	res, err := f.svc.Register(services.RegisterInput{
		Email:    email,
		Phone:    "0812345678",
		Password: password,
		RoleID:   2,
		Name:     "Test Student",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// ---- tests ----

func TestRegisterCreatesInactiveAccountWithOTP(t *testing.T) {
	f := newFixture(t)
	before := time.Now()

	res := register(t, f, "user@x.com", "pw1")

	u := res.User
	assert.Equal(t, models.StatusInactive, u.Status)
	require.NotNil(t, u.OTPCode)
	assert.Len(t, *u.OTPCode, 6)
	for _, ch := range *u.OTPCode {
		assert.True(t, ch >= '0' && ch <= '9')
	}

	require.NotNil(t, u.OTPExpiresAt)
	wantExpiry := before.Add(5 * time.Minute)
	assert.WithinDuration(t, wantExpiry, *u.OTPExpiresAt, 2*time.Second)

	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)

	require.NotNil(t, res.Profile)
	assert.Equal(t, "Test Student", res.Profile.Name)
	assert.Equal(t, u.ID, res.Profile.UserID)

	require.Len(t, f.mailer.activation, 1)
	assert.Equal(t, "user@x.com", f.mailer.activation[0].To)
	assert.Equal(t, *u.OTPCode, f.mailer.activation[0].Code)
	assert.True(t, res.Notified)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f, "user@x.com", "pw1")

	_, err := f.svc.Register(services.RegisterInput{
		Email:    "user@x.com",
		Password: "other",
		RoleID:   2,
		Name:     "Someone Else",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestRegisterPersistsAccountWhenEmailFails(t *testing.T) {
	f := newFixture(t)
	f.mailer.fail = true

	res, err := f.svc.Register(services.RegisterInput{
		Email:    "user@x.com",
		Password: "pw1",
		RoleID:   2,
		Name:     "Test Student",
	})
	assert.ErrorIs(t, err, services.ErrNotificationFailed)
	require.NotNil(t, res)
	assert.False(t, res.Notified)

	// account exists despite the failed dispatch
	stored, lookupErr := f.users.GetByEmail("user@x.com")
	require.NoError(t, lookupErr)
	assert.Equal(t, models.StatusInactive, stored.Status)
	assert.NotNil(t, stored.OTPCode)
}

func TestVerifyOTPActivatesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	code := *res.User.OTPCode

	status, err := f.svc.VerifyOTP("user@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, services.OTPActivated, status)

	stored, _ := f.users.GetByEmail("user@x.com")
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.Nil(t, stored.OTPCode)
	assert.Nil(t, stored.OTPExpiresAt)

	// the consumed code never re-activates
	status, err = f.svc.VerifyOTP("user@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, services.OTPInvalid, status)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newFixture(t)
	register(t, f, "user@x.com", "pw1")

	status, err := f.svc.VerifyOTP("user@x.com", "000000x")
	require.NoError(t, err)
	assert.Equal(t, services.OTPInvalid, status)

	stored, _ := f.users.GetByEmail("user@x.com")
	assert.Equal(t, models.StatusInactive, stored.Status)
}

func TestVerifyOTPUnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyOTP("nobody@x.com", "123456")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestVerifyOTPExpiredLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	code := *res.User.OTPCode

	// push the stored expiry into the past
	past := time.Now().Add(-time.Minute)
	f.users.byID[res.User.ID].OTPExpiresAt = &past

	status, err := f.svc.VerifyOTP("user@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, services.OTPExpired, status)

	stored, _ := f.users.GetByEmail("user@x.com")
	assert.Equal(t, models.StatusInactive, stored.Status)
	// expired codes stay in place until a reissue
	require.NotNil(t, stored.OTPCode)
	assert.Equal(t, code, *stored.OTPCode)
	assert.NotNil(t, stored.OTPExpiresAt)
}

func TestReissueOTPOverwrites(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	firstCode := *res.User.OTPCode
	firstExpiry := *res.User.OTPExpiresAt

	time.Sleep(10 * time.Millisecond)

	u, err := f.svc.ReissueOTP("user@x.com")
	require.NoError(t, err)
	require.NotNil(t, u.OTPCode)
	assert.NotEqual(t, firstCode, *u.OTPCode)
	assert.True(t, u.OTPExpiresAt.After(firstExpiry))
	assert.Equal(t, models.StatusInactive, u.Status)

	// a second activation email went out
	require.Len(t, f.mailer.activation, 2)
	assert.Equal(t, *u.OTPCode, f.mailer.activation[1].Code)
}

func TestReissueOTPDoesNotDeactivate(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	_, err := f.svc.VerifyOTP("user@x.com", *res.User.OTPCode)
	require.NoError(t, err)

	_, err = f.svc.ReissueOTP("user@x.com")
	require.NoError(t, err)

	stored, _ := f.users.GetByEmail("user@x.com")
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.NotNil(t, stored.OTPCode)
}

func TestReissueOTPUnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ReissueOTP("nobody@x.com")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestLoginInactiveNeverSucceeds(t *testing.T) {
	f := newFixture(t)
	register(t, f, "user@x.com", "pw1")

	_, err := f.svc.Login("user@x.com", "pw1")
	assert.ErrorIs(t, err, services.ErrInactive)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	_, err := f.svc.VerifyOTP("user@x.com", *res.User.OTPCode)
	require.NoError(t, err)

	_, err = f.svc.Login("user@x.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Login("nobody@x.com", "pw1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestLoginIssuesTokenBoundToAccount(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	_, err := f.svc.VerifyOTP("user@x.com", *res.User.OTPCode)
	require.NoError(t, err)

	login, err := f.svc.Login("user@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.UserID)

	claims, err := f.tokens.Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, res.User.RoleID, claims.RoleID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	_, err := f.svc.VerifyOTP("user@x.com", *res.User.OTPCode)
	require.NoError(t, err)

	require.NoError(t, f.svc.InitiatePasswordReset("user@x.com"))

	stored, _ := f.users.GetByEmail("user@x.com")
	require.NotNil(t, stored.ResetToken)
	token := *stored.ResetToken

	require.Len(t, f.mailer.resets, 1)
	assert.True(t, strings.HasSuffix(f.mailer.resets[0].Code, token))

	require.NoError(t, f.svc.CompletePasswordReset(token, "pw2"))

	// old password rejected, new accepted
	_, err = f.svc.Login("user@x.com", "pw1")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = f.svc.Login("user@x.com", "pw2")
	assert.NoError(t, err)

	// the token is single-use
	err = f.svc.CompletePasswordReset(token, "pw3")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	f := newFixture(t)
	err := f.svc.InitiatePasswordReset("nobody@x.com")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPasswordResetOverwritesPreviousToken(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")

	require.NoError(t, f.svc.InitiatePasswordReset("user@x.com"))
	first := *f.users.byID[res.User.ID].ResetToken

	require.NoError(t, f.svc.InitiatePasswordReset("user@x.com"))
	second := *f.users.byID[res.User.ID].ResetToken

	assert.NotEqual(t, first, second)
	err := f.svc.CompletePasswordReset(first, "pw2")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

// Full activation walk-through: expired OTP, reissue, verify, login.
func TestActivationScenario(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	firstCode := *res.User.OTPCode

	// six minutes pass before the first attempt
	past := time.Now().Add(-time.Minute)
	f.users.byID[res.User.ID].OTPExpiresAt = &past

	status, err := f.svc.VerifyOTP("user@x.com", firstCode)
	require.NoError(t, err)
	assert.Equal(t, services.OTPExpired, status)
	stored, _ := f.users.GetByEmail("user@x.com")
	assert.Equal(t, models.StatusInactive, stored.Status)

	u, err := f.svc.ReissueOTP("user@x.com")
	require.NoError(t, err)

	status, err = f.svc.VerifyOTP("user@x.com", *u.OTPCode)
	require.NoError(t, err)
	assert.Equal(t, services.OTPActivated, status)

	login, err := f.svc.Login("user@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, res.User.ID, login.UserID)
}
