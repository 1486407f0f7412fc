package leaveapimodels

import (
	"time"

	"github.com/pkg/errors"

	"leave-backend/models"
	dbmodels "leave-backend/models/db"
)

const DateLayout = "2006-01-02"

const maxReasonLen = 500
const maxRemarksLen = 255

type LeaveData struct {
	StartDate string           `json:"start_date"` // дата начала (2006-01-02)
	EndDate   string           `json:"end_date"`   // дата окончания, включительно
	Type      models.LeaveType `json:"type"`       // тип отпуска
	Reason    string           `json:"reason"`     // причина
}

func (d LeaveData) Validate() error {
	if _, _, err := d.ParsePeriod(); err != nil {
		return err
	}
	if err := d.Type.Validate(); err != nil {
		return err
	}
	if d.Reason == "" {
		return errors.New("не указана причина")
	}
	if len([]rune(d.Reason)) > maxReasonLen {
		return errors.Errorf("причина не должна превышать %d символов", maxReasonLen)
	}
	return nil
}

// ParsePeriod разбирает границы периода и проверяет, что окончание не раньше начала
func (d LeaveData) ParsePeriod() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(DateLayout, d.StartDate, time.UTC)
	if err != nil {
		return start, end, errors.New("некорректная дата начала")
	}
	end, err = time.ParseInLocation(DateLayout, d.EndDate, time.UTC)
	if err != nil {
		return start, end, errors.New("некорректная дата окончания")
	}
	if end.Before(start) {
		return start, end, errors.New("дата окончания не может быть раньше даты начала")
	}
	return start, end, nil
}

type RemarksData struct {
	Remarks string `json:"remarks"` // комментарий администратора
}

type DecisionData struct {
	Decision models.LeaveDecision `json:"decision"` // approve/reject
	Remarks  string               `json:"remarks"`  // комментарий администратора
}

func (d DecisionData) Validate() error {
	if err := d.Decision.Validate(); err != nil {
		return err
	}
	if d.Remarks == "" {
		return errors.New("не указан комментарий к решению")
	}
	if len([]rune(d.Remarks)) > maxRemarksLen {
		return errors.Errorf("комментарий не должен превышать %d символов", maxRemarksLen)
	}
	return nil
}

type LeaveView struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	DurationDays int       `json:"duration_days"`
	Type         string    `json:"type"`
	TypeName     string    `json:"type_name"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	StatusName   string    `json:"status_name"`
	AdminID      string    `json:"admin_id,omitempty"`
	AdminName    string    `json:"admin_name,omitempty"`
	AdminRemarks string    `json:"admin_remarks,omitempty"`
	HasDocument  bool      `json:"has_document"`
	CreatedAt    time.Time `json:"created_at"`
}

type LeaveStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type LeaveListView struct {
	Items []LeaveView `json:"items"`
	Stats LeaveStats  `json:"stats"`
}

func LeaveConvert(rec dbmodels.LeaveRequest) LeaveView {
	result := LeaveView{
		ID:           rec.ID,
		UserID:       rec.UserID,
		StartDate:    rec.StartDate.Format(DateLayout),
		EndDate:      rec.EndDate.Format(DateLayout),
		DurationDays: rec.DurationDays(),
		Type:         string(rec.Type),
		TypeName:     rec.Type.ToHuman(),
		Reason:       rec.Reason,
		Status:       string(rec.Status),
		StatusName:   rec.Status.ToHuman(),
		HasDocument:  rec.DocumentKey != nil,
		CreatedAt:    rec.CreatedAt,
	}
	if rec.User != nil {
		result.UserName = rec.User.GetFullName()
	}
	if rec.AdminID != nil {
		result.AdminID = *rec.AdminID
	}
	if rec.Admin != nil {
		result.AdminName = rec.Admin.GetFullName()
	}
	if rec.AdminRemarks != nil {
		result.AdminRemarks = *rec.AdminRemarks
	}
	return result
}
