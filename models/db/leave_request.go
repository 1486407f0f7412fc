package dbmodels

import (
	"time"

	"leave-backend/models"
)

type LeaveRequest struct {
	BaseModel
	UserID       string `gorm:"type:varchar(36);index:idx_leave_user_status"`
	User         *User  `gorm:"foreignKey:UserID"`
	StartDate    time.Time
	EndDate      time.Time
	Type         models.LeaveType   `gorm:"type:varchar(50)"`
	Reason       string             `gorm:"type:varchar(500)"`
	Status       models.LeaveStatus `gorm:"type:varchar(50);index:idx_leave_user_status"`
	AdminID      *string            `gorm:"type:varchar(36)"`
	Admin        *User              `gorm:"foreignKey:AdminID"`
	AdminRemarks *string            `gorm:"type:varchar(255)"`
	DocumentKey  *string            `gorm:"type:varchar(255)"`
}

// DurationDays - количество дней отпуска, границы включительно
func (l LeaveRequest) DurationDays() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

func (l LeaveRequest) IsOwner(userID string) bool {
	return l.UserID == userID
}
