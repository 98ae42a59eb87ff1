package repositories

import (
	"database/sql"

	"oneacademy/internal/models"
)

type RoleRepository interface {
	Create(role *models.Role) error
	GetByID(id int) (*models.Role, error)
	List() ([]*models.Role, error)
}

type roleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) Create(role *models.Role) error {
	return r.DB.QueryRow(
		`INSERT INTO roles (name) VALUES ($1) RETURNING id`, role.Name,
	).Scan(&role.ID)
}

func (r *roleRepository) GetByID(id int) (*models.Role, error) {
	role := &models.Role{}
	err := r.DB.QueryRow(`SELECT id, name FROM roles WHERE id=$1`, id).Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) List() ([]*models.Role, error) {
	rows, err := r.DB.Query(`SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Role
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		res = append(res, role)
	}
	return res, rows.Err()
}
