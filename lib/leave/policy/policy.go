package leavepolicy

import (
	"leave-backend/models"
	dbmodels "leave-backend/models/db"
)

// Чистые функции авторизации над (актор, заявка).
// Побочных эффектов нет, отказ выражается возвратом false.

// CanViewList - список доступен любому аутентифицированному пользователю,
// область видимости (свои/все) определяется при выборке.
func CanViewList(actor models.Actor) bool {
	return true
}

func CanView(actor models.Actor, rec dbmodels.LeaveRequest) bool {
	return actor.IsAdmin() || rec.IsOwner(actor.ID)
}

// CanCreate - заявку подает только сотрудник, администратор заявки не создает.
func CanCreate(actor models.Actor) bool {
	return !actor.IsAdmin()
}

// CanUpdate - владелец может менять содержимое только пока заявка на рассмотрении.
func CanUpdate(actor models.Actor, rec dbmodels.LeaveRequest) bool {
	return !actor.IsAdmin() &&
		rec.IsOwner(actor.ID) &&
		rec.Status == models.LeaveStatusPending
}

func CanDelete(actor models.Actor, rec dbmodels.LeaveRequest) bool {
	return !actor.IsAdmin() &&
		rec.IsOwner(actor.ID) &&
		rec.Status == models.LeaveStatusPending
}

// CanUpdateStatus - решение принимает только администратор.
// Запрет повторного решения по завершенной заявке проверяется сервисом.
func CanUpdateStatus(actor models.Actor, rec dbmodels.LeaveRequest) bool {
	return actor.IsAdmin()
}
