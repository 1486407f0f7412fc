package usersapimodels

import (
	"strings"

	"github.com/pkg/errors"

	"leave-backend/models"
)

type UserCreateData struct {
	Email     string          `json:"email"`      // почта
	FirstName string          `json:"first_name"` // имя
	LastName  string          `json:"last_name"`  // фамилия
	Password  string          `json:"password"`   // пароль
	Role      models.UserRole `json:"role"`       // роль (ADMIN/EMPLOYEE)
}

func (r UserCreateData) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("некорректная почта")
	}
	if r.FirstName == "" {
		return errors.New("не указано имя")
	}
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	if r.Role != models.AdminRole && r.Role != models.EmployeeRole {
		return errors.Errorf("неизвестная роль (%v)", r.Role)
	}
	return nil
}

type UserView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
	IsAdmin   bool   `json:"is_admin"`
	Role      string `json:"role"`
}
