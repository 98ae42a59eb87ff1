package repositories

import (
	"database/sql"
	"time"

	"oneacademy/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)
	List(limit, offset int) ([]*models.User, error)
	UpdateContact(user *models.User) error

	// activation OTP
	SetOTP(userID int, code string, expiresAt time.Time) error
	Activate(userID int) error

	// password reset
	SetResetToken(userID int, token string) error
	ResetPassword(userID int, passwordHash string) error
	UpdatePassword(userID int, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, phone, password_hash, role_id, status,
	otp_code, otp_expires_at, reset_token, created_at
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			email, phone, password_hash, role_id, status,
			otp_code, otp_expires_at, reset_token
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NULL)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.RoleID,
		user.Status,
		user.OTPCode,
		user.OTPExpiresAt,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return mapPqError(err)
	}
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		phone sql.NullString
		otp   sql.NullString
		otpAt sql.NullTime
		reset sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Email, &phone, &u.PasswordHash, &u.RoleID, &u.Status,
		&otp, &otpAt, &reset, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = phone.String
	}
	if otp.Valid {
		s := otp.String
		u.OTPCode = &s
	}
	if otpAt.Valid {
		t := otpAt.Time
		u.OTPExpiresAt = &t
	}
	if reset.Valid {
		s := reset.String
		u.ResetToken = &s
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) GetByResetToken(token string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token))
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT id, email, phone, role_id, status, created_at
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u := &models.User{}
		var phone sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &phone, &u.RoleID, &u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			u.Phone = phone.String
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) UpdateContact(user *models.User) error {
	const q = `
		UPDATE users
		SET email=$1, phone=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, user.Email, user.Phone, user.ID)
	return err
}

// ===== activation =====

func (r *userRepository) SetOTP(userID int, code string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET otp_code=$1, otp_expires_at=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, code, expiresAt, userID)
	return err
}

// Activate clears the OTP fields and flips status in a single update.
func (r *userRepository) Activate(userID int) error {
	const q = `
		UPDATE users
		SET otp_code=NULL, otp_expires_at=NULL, status=$1
		WHERE id=$2
	`
	_, err := r.DB.Exec(q, models.StatusActive, userID)
	return err
}

// ===== password reset =====

func (r *userRepository) SetResetToken(userID int, token string) error {
	_, err := r.DB.Exec(`UPDATE users SET reset_token=$1 WHERE id=$2`, token, userID)
	return err
}

// ResetPassword consumes the reset token atomically with the hash update.
func (r *userRepository) ResetPassword(userID int, passwordHash string) error {
	const q = `
		UPDATE users
		SET password_hash=$1, reset_token=NULL
		WHERE id=$2
	`
	_, err := r.DB.Exec(q, passwordHash, userID)
	return err
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, userID)
	return err
}
