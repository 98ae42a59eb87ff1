package repositories

import (
	"database/sql"

	"oneacademy/internal/models"
)

type ProfileRepository interface {
	Create(profile *models.Profile) error
	GetByUserID(userID int) (*models.Profile, error)
	Update(profile *models.Profile) error
}

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) Create(profile *models.Profile) error {
	const q = `
		INSERT INTO profiles (user_id, name, country, city, avatar_url)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`
	return r.DB.QueryRow(q,
		profile.UserID,
		profile.Name,
		profile.Country,
		profile.City,
		profile.AvatarURL,
	).Scan(&profile.ID)
}

func (r *profileRepository) GetByUserID(userID int) (*models.Profile, error) {
	const q = `
		SELECT id, user_id, name, COALESCE(country,''), COALESCE(city,''), COALESCE(avatar_url,'')
		FROM profiles
		WHERE user_id = $1
	`
	p := &models.Profile{}
	err := r.DB.QueryRow(q, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Country, &p.City, &p.AvatarURL)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Update(profile *models.Profile) error {
	const q = `
		UPDATE profiles
		SET name=$1, country=$2, city=$3, avatar_url=$4
		WHERE user_id=$5
	`
	_, err := r.DB.Exec(q,
		profile.Name,
		profile.Country,
		profile.City,
		profile.AvatarURL,
		profile.UserID,
	)
	return err
}
