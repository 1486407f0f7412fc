package usersstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "leave-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (id string, err error)
	GetByID(id string) (rec *dbmodels.User, err error)
	FindByEmail(email string) (rec *dbmodels.User, err error)
	ExistByEmail(email string) (bool, error)
	Update(id string, updMap map[string]interface{}) error
	List() (list []dbmodels.User, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (rec *dbmodels.User, err error) {
	result := dbmodels.User{}
	err = i.db.
		Where("id = ?", id).
		First(&result).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (i impl) FindByEmail(email string) (rec *dbmodels.User, err error) {
	result := dbmodels.User{}
	err = i.db.
		Where("email = ?", email).
		First(&result).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (i impl) ExistByEmail(email string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.User{}).
		Where("email = ?", email).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) List() (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	err = i.db.
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
