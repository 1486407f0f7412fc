package models

type UserRole string

const (
	AdminRole    UserRole = "ADMIN"
	EmployeeRole UserRole = "EMPLOYEE"
)

var roleHumanName = map[UserRole]string{
	AdminRole:    "Администратор",
	EmployeeRole: "Сотрудник",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}

// Actor - аутентифицированный пользователь, от имени которого выполняется операция.
// Роль берется из токена один раз, повторного определения роли внутри ядра нет.
type Actor struct {
	ID   string
	Role UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}
