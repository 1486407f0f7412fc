package leavenotify

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"leave-backend/config"
	"leave-backend/lib/smtp"
	leaveapimodels "leave-backend/models/api/leave"
	dbmodels "leave-backend/models/db"
)

// Отправка уведомления о смене статуса заявки.
// Вызывается после фиксации транзакции, ошибка доставки логируется и не возвращается.
type Provider interface {
	SendStatusChanged(email string, rec dbmodels.LeaveRequest)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		emailFrom:  config.Conf.Smtp.EmailFrom,
		smtpClient: smtp.Instance,
	}
}

func NewInstance(emailFrom string, smtpClient smtp.Provider) Provider {
	return impl{
		emailFrom:  emailFrom,
		smtpClient: smtpClient,
	}
}

type impl struct {
	emailFrom  string
	smtpClient smtp.Provider
}

func (i impl) SendStatusChanged(email string, rec dbmodels.LeaveRequest) {
	logger := log.
		WithField("rec_id", rec.ID).
		WithField("recipient", email)
	remarks := ""
	if rec.AdminRemarks != nil {
		remarks = *rec.AdminRemarks
	}
	message := fmt.Sprintf("Статус вашей заявки на отпуск изменен.\r\n"+
		"Тип: %s\r\nПериод: %s - %s (%d дн.)\r\nСтатус: %s\r\nКомментарий: %s\r\n",
		rec.Type.ToHuman(),
		rec.StartDate.Format(leaveapimodels.DateLayout),
		rec.EndDate.Format(leaveapimodels.DateLayout),
		rec.DurationDays(),
		rec.Status.ToHuman(),
		remarks,
	)
	err := i.smtpClient.SendEMail(i.emailFrom, email, message, "Статус заявки на отпуск")
	if err != nil {
		logger.WithError(err).Error("Ошибка отправки уведомления о смене статуса заявки")
		return
	}
	logger.Info("уведомление о смене статуса заявки отправлено")
}
