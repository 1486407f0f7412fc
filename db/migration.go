package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "leave-backend/models/db"
)

func AutoMigrateDB() error {
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.LeaveRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры LeaveRequest")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
