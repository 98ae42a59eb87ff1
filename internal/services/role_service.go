package services

import (
	"fmt"
	"strings"

	"oneacademy/internal/models"
	"oneacademy/internal/repositories"
)

type RoleService interface {
	CreateRole(name string) (*models.Role, error)
	ListRoles() ([]*models.Role, error)
}

type roleService struct {
	repo repositories.RoleRepository
}

func NewRoleService(repo repositories.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

func (s *roleService) CreateRole(name string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	role := &models.Role{Name: name}
	if err := s.repo.Create(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) ListRoles() ([]*models.Role, error) {
	return s.repo.List()
}
