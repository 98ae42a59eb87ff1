package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneacademy/internal/services"
)

func newUserFixture(t *testing.T) (*fixture, services.UserService, int) {
	t.Helper()
	f := newFixture(t)
	res := register(t, f, "user@x.com", "pw1")
	svc := services.NewUserService(f.users, f.profiles, newFakeCourseRepo(0), services.NewAuthService())
	return f, svc, res.User.ID
}

func TestGetUserDetail(t *testing.T) {
	_, svc, userID := newUserFixture(t)

	detail, err := svc.GetDetail(userID)
	require.NoError(t, err)
	assert.Equal(t, "user@x.com", detail.Email)
	assert.Equal(t, "Test Student", detail.Name)
}

func TestGetUserDetailUnknownUser(t *testing.T) {
	_, svc, _ := newUserFixture(t)

	_, err := svc.GetDetail(999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	_, svc, userID := newUserFixture(t)

	detail, err := svc.UpdateProfile(userID, services.UpdateProfileInput{
		Name:    "Renamed",
		Country: "Indonesia",
		City:    "Jakarta",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", detail.Name)
	assert.Equal(t, "Indonesia", detail.Country)
	assert.Equal(t, "Jakarta", detail.City)
	// untouched fields keep their values
	assert.Equal(t, "user@x.com", detail.Email)
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	f, svc, userID := newUserFixture(t)
	register(t, f, "other@x.com", "pw2")

	_, err := svc.UpdateProfile(userID, services.UpdateProfileInput{Email: "other@x.com"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestChangePassword(t *testing.T) {
	f, svc, userID := newUserFixture(t)

	require.NoError(t, svc.ChangePassword(userID, "pw1", "pw2"))

	// login still gated on activation, so verify against the stored hash
	stored, err := f.users.GetByID(userID)
	require.NoError(t, err)
	auth := services.NewAuthService()
	assert.True(t, auth.VerifyPassword("pw2", stored.PasswordHash))
	assert.False(t, auth.VerifyPassword("pw1", stored.PasswordHash))
}

func TestChangePasswordGuards(t *testing.T) {
	_, svc, userID := newUserFixture(t)

	err := svc.ChangePassword(userID, "pw1", "pw1")
	assert.ErrorIs(t, err, services.ErrSamePassword)

	err = svc.ChangePassword(userID, "wrong", "pw2")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	err = svc.ChangePassword(userID, "", "pw2")
	assert.Error(t, err)
}
