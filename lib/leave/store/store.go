package leavestore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leave-backend/models"
	dbmodels "leave-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.LeaveRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.LeaveRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(userID string) (list []dbmodels.LeaveRequest, err error)
	CountByStatus(userID string) (map[models.LeaveStatus]int64, error)
	HasOverlap(userID string, start, end time.Time, excludeID string) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LeaveRequest) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.LeaveRequest, error) {
	rec := dbmodels.LeaveRequest{}
	err := i.db.
		Where("id = ?", id).
		Preload(clause.Associations).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.LeaveRequest{}).
		Error
}

func (i impl) List(userID string) (list []dbmodels.LeaveRequest, err error) {
	list = []dbmodels.LeaveRequest{}
	tx := i.db.
		Preload(clause.Associations).
		Order("created_at DESC")
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByStatus(userID string) (map[models.LeaveStatus]int64, error) {
	type statusCount struct {
		Status models.LeaveStatus
		Cnt    int64
	}
	rows := []statusCount{}
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Select("status, count(*) as cnt").
		Group("status")
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	err := tx.Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := map[models.LeaveStatus]int64{}
	for _, row := range rows {
		result[row.Status] = row.Cnt
	}
	return result, nil
}

// HasOverlap - полная проверка пересечения интервалов, границы включительно:
// существующий [S,E] пересекает кандидата [s,e] при S <= e И E >= s.
// Отклоненные заявки период не блокируют.
func (i impl) HasOverlap(userID string, start, end time.Time, excludeID string) (bool, error) {
	var count int64
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("status != ?", models.LeaveStatusRejected).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != "" {
		tx = tx.Where("id != ?", excludeID)
	}
	err := tx.Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
