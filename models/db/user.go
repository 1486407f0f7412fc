package dbmodels

import (
	"fmt"
	"time"

	"leave-backend/models"
	usersapimodels "leave-backend/models/api/users"
)

type User struct {
	BaseModel
	Password  string `gorm:"type:varchar(128)"`
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Email     string `gorm:"type:varchar(255);uniqueIndex"`
	IsActive  bool
	Role      models.UserRole `gorm:"type:varchar(50)"`
	LastLogin time.Time
}

func (r User) ToModel() usersapimodels.UserView {
	return usersapimodels.UserView{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		IsActive:  r.IsActive,
		IsAdmin:   r.Role.IsAdmin(),
		Role:      r.Role.ToHuman(),
	}
}

func (r User) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

func (r User) AsActor() models.Actor {
	return models.Actor{
		ID:   r.ID,
		Role: r.Role,
	}
}
