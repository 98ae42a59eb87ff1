package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"oneacademy/internal/models"
	"oneacademy/internal/repositories"
	"oneacademy/internal/utils"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInactive           = errors.New("account is not activated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotificationFailed reports a failed email dispatch attempt. The
	// preceding state change is NOT rolled back: the caller must treat the
	// account as persisted but the notification as uncertain.
	ErrNotificationFailed = errors.New("notification dispatch failed")
)

// OTPStatus is the outcome of a verification attempt. Invalid and expired
// codes are expected branches, not errors.
type OTPStatus int

const (
	OTPActivated OTPStatus = iota
	OTPInvalid
	OTPExpired
)

type RegisterInput struct {
	Email    string
	Phone    string
	Password string
	RoleID   int
	Name     string
}

type RegisterResult struct {
	User     *models.User
	Profile  *models.Profile
	Notified bool
}

type LoginResult struct {
	Token  string
	UserID int
}

// AccountService orchestrates the account lifecycle: registration with
// deferred activation, OTP verification and reissue, login, and the
// token-gated password reset flow.
type AccountService interface {
	Register(in RegisterInput) (*RegisterResult, error)
	VerifyOTP(email, code string) (OTPStatus, error)
	ReissueOTP(email string) (*models.User, error)
	Login(email, password string) (*LoginResult, error)
	InitiatePasswordReset(email string) error
	CompletePasswordReset(token, newPassword string) error
}

type accountService struct {
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	auth     AuthService
	otp      OTPGenerator
	tokens   TokenService
	emails   EmailService
	otpTTL   time.Duration
	resetURL string
}

func NewAccountService(
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	auth AuthService,
	otp OTPGenerator,
	tokens TokenService,
	emails EmailService,
	otpTTL time.Duration,
	resetURL string,
) AccountService {
	return &accountService{
		users:    users,
		profiles: profiles,
		auth:     auth,
		otp:      otp,
		tokens:   tokens,
		emails:   emails,
		otpTTL:   otpTTL,
		resetURL: resetURL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *accountService) Register(in RegisterInput) (*RegisterResult, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code := s.otp.Generate()
	expiresAt := time.Now().Add(s.otpTTL)

	user := &models.User{
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		RoleID:       in.RoleID,
		Status:       models.StatusInactive,
		OTPCode:      &code,
		OTPExpiresAt: &expiresAt,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	profile := &models.Profile{UserID: user.ID, Name: strings.TrimSpace(in.Name)}
	if err := s.profiles.Create(profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	res := &RegisterResult{User: user, Profile: profile, Notified: true}
	if err := s.emails.SendActivationEmail(user.Email, profile.Name, code); err != nil {
		// account stays persisted; only the dispatch outcome is reported
		log.Printf("[account][register] activation email to %s failed: %v", user.Email, err)
		res.Notified = false
		return res, ErrNotificationFailed
	}
	return res, nil
}

func (s *accountService) VerifyOTP(email, code string) (OTPStatus, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OTPInvalid, ErrNotFound
		}
		return OTPInvalid, fmt.Errorf("lookup account: %w", err)
	}

	if user.OTPCode == nil || user.OTPExpiresAt == nil || *user.OTPCode != code {
		return OTPInvalid, nil
	}
	if time.Now().After(*user.OTPExpiresAt) {
		// expired codes are left in place; only a reissue replaces them
		return OTPExpired, nil
	}

	if err := s.users.Activate(user.ID); err != nil {
		return OTPInvalid, fmt.Errorf("activate account: %w", err)
	}
	log.Printf("[account][verify] activated userID=%d", user.ID)
	return OTPActivated, nil
}

func (s *accountService) ReissueOTP(email string) (*models.User, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	code := s.otp.Generate()
	expiresAt := time.Now().Add(s.otpTTL)
	// unconditional overwrite; an already active account keeps its status
	if err := s.users.SetOTP(user.ID, code, expiresAt); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}
	user.OTPCode = &code
	user.OTPExpiresAt = &expiresAt

	if err := s.emails.SendActivationEmail(user.Email, s.displayName(user), code); err != nil {
		log.Printf("[account][reissue] activation email to %s failed: %v", user.Email, err)
		return user, ErrNotificationFailed
	}
	return user, nil
}

func (s *accountService) Login(email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if user.Status == models.StatusInactive {
		return nil, ErrInactive
	}
	if !s.auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, UserID: user.ID}, nil
}

func (s *accountService) InitiatePasswordReset(email string) error {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	token, err := utils.NewResetToken(32)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.users.SetResetToken(user.ID, token); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.resetURL + "/" + token
	if err := s.emails.SendPasswordResetEmail(user.Email, s.displayName(user), link); err != nil {
		log.Printf("[account][reset] reset email to %s failed: %v", user.Email, err)
		return ErrNotificationFailed
	}
	return nil
}

func (s *accountService) CompletePasswordReset(token, newPassword string) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return fmt.Errorf("token and password are required")
	}

	user, err := s.users.GetByResetToken(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// single update: new hash + token cleared, so the token is single-use
	if err := s.users.ResetPassword(user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	log.Printf("[account][reset] password changed userID=%d", user.ID)
	return nil
}

func (s *accountService) displayName(user *models.User) string {
	if p, err := s.profiles.GetByUserID(user.ID); err == nil && p != nil {
		return p.Name
	}
	return user.Email
}
