package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"oneacademy/internal/models"
	"oneacademy/internal/repositories"
)

var ErrSamePassword = errors.New("new password must differ from the old one")

// UserDetail is the profile view returned to the account owner.
type UserDetail struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
	City    string `json:"city"`
	RoleID  int    `json:"role_id"`
	Avatar  string `json:"avatar,omitempty"`
}

type UpdateProfileInput struct {
	Name      string
	Email     string
	Phone     string
	Country   string
	City      string
	AvatarURL string
}

type UserService interface {
	GetDetail(userID int) (*UserDetail, error)
	UpdateProfile(userID int, in UpdateProfileInput) (*UserDetail, error)
	ChangePassword(userID int, oldPassword, newPassword string) error
	ListTransactions(userID int) ([]*models.Transaction, error)
}

type userService struct {
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	courses  repositories.CourseRepository
	auth     AuthService
}

func NewUserService(
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	courses repositories.CourseRepository,
	auth AuthService,
) UserService {
	return &userService{users: users, profiles: profiles, courses: courses, auth: auth}
}

func (s *userService) GetDetail(userID int) (*UserDetail, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &UserDetail{
		ID:      user.ID,
		Name:    profile.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Country: profile.Country,
		City:    profile.City,
		RoleID:  user.RoleID,
		Avatar:  profile.AvatarURL,
	}, nil
}

func (s *userService) UpdateProfile(userID int, in UpdateProfileInput) (*UserDetail, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if email := normalizeEmail(in.Email); email != "" && email != user.Email {
		existing, err := s.users.GetByEmail(email)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrEmailTaken
		}
		user.Email = email
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = phone
	}
	if err := s.users.UpdateContact(user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		profile.Name = name
	}
	if in.Country != "" {
		profile.Country = in.Country
	}
	if in.City != "" {
		profile.City = in.City
	}
	if in.AvatarURL != "" {
		profile.AvatarURL = in.AvatarURL
	}
	if err := s.profiles.Update(profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return s.GetDetail(userID)
}

func (s *userService) ChangePassword(userID int, oldPassword, newPassword string) error {
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("oldPassword and newPassword are required")
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !s.auth.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(userID, hash)
}

func (s *userService) ListTransactions(userID int) ([]*models.Transaction, error) {
	return s.courses.ListUserTransactions(userID)
}
