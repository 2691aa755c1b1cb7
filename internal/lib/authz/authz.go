// Package authz содержит проверку полномочий, не зависящую от транспорта:
// решение "разрешить/запретить" принимается только по роли субъекта
// и требуемой роли.
package authz

// Роли пользователей системы.
const (
	RoleStandardUser = "standard_user"
	RoleAdmin        = "admin"
)

// AllowedRoles возвращает список допустимых ролей при регистрации.
func AllowedRoles() []string {
	return []string{RoleStandardUser, RoleAdmin}
}

// IsValidRole сообщает, входит ли роль в список допустимых.
func IsValidRole(role string) bool {
	for _, r := range AllowedRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// Allow сообщает, достаточно ли роли субъекта для требуемой роли.
// Администратор проходит любую проверку.
func Allow(subjectRole, requiredRole string) bool {
	if subjectRole == RoleAdmin {
		return true
	}
	return subjectRole == requiredRole
}
