package authz

const (
	RoleAdmin   = 1
	RoleStudent = 2
)

func IsAdmin(roleID int) bool {
	return roleID == RoleAdmin
}
