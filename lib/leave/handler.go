package leavehandler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leave-backend/db"
	filestorage "leave-backend/lib/file-storage"
	leavenotify "leave-backend/lib/leave/notify"
	leavepolicy "leave-backend/lib/leave/policy"
	leavestore "leave-backend/lib/leave/store"
	"leave-backend/models"
	leaveapimodels "leave-backend/models/api/leave"
	dbmodels "leave-backend/models/db"
)

type Provider interface {
	Create(actor models.Actor, data leaveapimodels.LeaveData) (leaveapimodels.LeaveView, error)
	GetByID(actor models.Actor, id string) (leaveapimodels.LeaveView, error)
	GetRecord(actor models.Actor, id string) (dbmodels.LeaveRequest, error)
	List(actor models.Actor) (leaveapimodels.LeaveListView, error)
	Update(actor models.Actor, id string, data leaveapimodels.LeaveData) (leaveapimodels.LeaveView, error)
	UpdateStatus(actor models.Actor, id string, data leaveapimodels.DecisionData) (leaveapimodels.LeaveView, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	AttachDocument(ctx context.Context, actor models.Actor, id, fileName, contentType string, file []byte) error
	GetDocument(ctx context.Context, actor models.Actor, id string) (fileName string, file []byte, err error)
	ListRecords(actor models.Actor) ([]dbmodels.LeaveRequest, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, leavenotify.Instance, filestorage.Instance)
}

func NewInstance(database *gorm.DB, notifier leavenotify.Provider, files filestorage.Provider) Provider {
	return impl{
		database: database,
		store:    leavestore.NewInstance(database),
		notifier: notifier,
		files:    files,
	}
}

type impl struct {
	database *gorm.DB
	store    leavestore.Provider
	notifier leavenotify.Provider
	files    filestorage.Provider
}

func (i impl) getLogger(actor models.Actor, id string) *log.Entry {
	logger := log.WithField("user_id", actor.ID)
	if id != "" {
		logger = logger.WithField("rec_id", id)
	}
	return logger
}

// getRec загружает заявку, отсутствие записи переводит в ErrNotFound
func (i impl) getRec(id string) (*dbmodels.LeaveRequest, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (i impl) Create(actor models.Actor, data leaveapimodels.LeaveData) (leaveapimodels.LeaveView, error) {
	logger := i.getLogger(actor, "")
	if !leavepolicy.CanCreate(actor) {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrForbidden, "администратор не может подать заявку на отпуск")
	}
	if err := data.Validate(); err != nil {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrValidation, err.Error())
	}
	start, end, err := data.ParsePeriod()
	if err != nil {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrValidation, err.Error())
	}
	if start.Before(today()) {
		return leaveapimodels.LeaveView{}, validationError("нельзя оформить заявку задним числом")
	}

	var id string
	err = i.database.Transaction(func(tx *gorm.DB) error {
		store := leavestore.NewInstance(tx)
		overlap, err := store.HasOverlap(actor.ID, start, end, "")
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlap
		}
		rec := dbmodels.LeaveRequest{
			UserID:    actor.ID,
			StartDate: start,
			EndDate:   end,
			Type:      data.Type,
			Reason:    data.Reason,
			Status:    models.LeaveStatusPending,
		}
		id, err = store.Create(rec)
		if err != nil {
			logger.WithError(err).Error("Ошибка создания заявки")
			return err
		}
		return nil
	})
	if err != nil {
		return leaveapimodels.LeaveView{}, err
	}
	logger.
		WithField("rec_id", id).
		Info("Создана заявка на отпуск")
	rec, err := i.getRec(id)
	if err != nil {
		return leaveapimodels.LeaveView{}, err
	}
	return leaveapimodels.LeaveConvert(*rec), nil
}

func (i impl) GetByID(actor models.Actor, id string) (leaveapimodels.LeaveView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return leaveapimodels.LeaveView{}, err
	}
	if !leavepolicy.CanView(actor, *rec) {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrForbidden, "заявка принадлежит другому сотруднику")
	}
	return leaveapimodels.LeaveConvert(*rec), nil
}

// GetRecord отдает запись из БД как есть, используется для печатных форм
func (i impl) GetRecord(actor models.Actor, id string) (dbmodels.LeaveRequest, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return dbmodels.LeaveRequest{}, err
	}
	if !leavepolicy.CanView(actor, *rec) {
		return dbmodels.LeaveRequest{}, errors.Wrap(ErrForbidden, "заявка принадлежит другому сотруднику")
	}
	return *rec, nil
}

func (i impl) List(actor models.Actor) (leaveapimodels.LeaveListView, error) {
	scopeUserID := actor.ID
	if actor.IsAdmin() {
		scopeUserID = ""
	}
	recList, err := i.store.List(scopeUserID)
	if err != nil {
		i.getLogger(actor, "").WithError(err).Error("ошибка получения списка заявок")
		return leaveapimodels.LeaveListView{}, err
	}
	counts, err := i.store.CountByStatus(scopeUserID)
	if err != nil {
		return leaveapimodels.LeaveListView{}, err
	}
	result := leaveapimodels.LeaveListView{
		Items: make([]leaveapimodels.LeaveView, 0, len(recList)),
		Stats: leaveapimodels.LeaveStats{
			Pending:  counts[models.LeaveStatusPending],
			Approved: counts[models.LeaveStatusApproved],
			Rejected: counts[models.LeaveStatusRejected],
		},
	}
	for _, rec := range recList {
		result.Items = append(result.Items, leaveapimodels.LeaveConvert(rec))
	}
	return result, nil
}

// ListRecords - выборка записей для экспорта, область видимости как у List
func (i impl) ListRecords(actor models.Actor) ([]dbmodels.LeaveRequest, error) {
	scopeUserID := actor.ID
	if actor.IsAdmin() {
		scopeUserID = ""
	}
	return i.store.List(scopeUserID)
}

func (i impl) Update(actor models.Actor, id string, data leaveapimodels.LeaveData) (leaveapimodels.LeaveView, error) {
	logger := i.getLogger(actor, id)
	rec, err := i.getRec(id)
	if err != nil {
		return leaveapimodels.LeaveView{}, err
	}
	if !leavepolicy.CanUpdate(actor, *rec) {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrForbidden, "редактирование заявки недоступно")
	}
	if err = data.Validate(); err != nil {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrValidation, err.Error())
	}
	start, end, err := data.ParsePeriod()
	if err != nil {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrValidation, err.Error())
	}
	if start.Before(today()) {
		return leaveapimodels.LeaveView{}, validationError("нельзя оформить заявку задним числом")
	}
	err = i.database.Transaction(func(tx *gorm.DB) error {
		store := leavestore.NewInstance(tx)
		overlap, err := store.HasOverlap(actor.ID, start, end, id)
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlap
		}
		updMap := map[string]interface{}{
			"start_date": start,
			"end_date":   end,
			"type":       data.Type,
			"reason":     data.Reason,
		}
		return store.Update(id, updMap)
	})
	if err != nil {
		logger.WithError(err).Error("ошибка обновления заявки")
		return leaveapimodels.LeaveView{}, err
	}
	logger.Info("обновлена заявка")
	updated, err := i.getRec(id)
	if err != nil {
		return leaveapimodels.LeaveView{}, err
	}
	return leaveapimodels.LeaveConvert(*updated), nil
}

func (i impl) UpdateStatus(actor models.Actor, id string, data leaveapimodels.DecisionData) (leaveapimodels.LeaveView, error) {
	logger := i.getLogger(actor, id).WithField("decision", data.Decision)
	rec, err := i.getRec(id)
	if err != nil {
		return leaveapimodels.LeaveView{}, err
	}
	if !leavepolicy.CanUpdateStatus(actor, *rec) {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrForbidden, "решение по заявке принимает администратор")
	}
	if err = data.Validate(); err != nil {
		return leaveapimodels.LeaveView{}, errors.Wrap(ErrValidation, err.Error())
	}
	if rec.Status.IsTerminal() {
		return leaveapimodels.LeaveView{}, ErrDecided
	}
	newStatus := data.Decision.ToStatus()
	err = i.database.Transaction(func(tx *gorm.DB) error {
		store := leavestore.NewInstance(tx)
		updMap := map[string]interface{}{
			"status":        newStatus,
			"admin_id":      actor.ID,
			"admin_remarks": data.Remarks,
		}
		return store.Update(id, updMap)
	})
	if err != nil {
		logger.WithError(err).Error("ошибка обновления статуса заявки")
		return leaveapimodels.LeaveView{}, err
	}
	logger.Info("статус заявки обновлен")

	updated, err := i.getRec(id)
	if err != nil {
		return leaveapimodels.LeaveView{}, err
	}
	// уведомление после фиксации транзакции, сбой доставки не откатывает решение
	if updated.User != nil && updated.User.Email != "" {
		i.notifier.SendStatusChanged(updated.User.Email, *updated)
	} else {
		logger.Warn("уведомление не отправлено, у владельца заявки нет почты")
	}
	return leaveapimodels.LeaveConvert(*updated), nil
}

func (i impl) Delete(ctx context.Context, actor models.Actor, id string) error {
	logger := i.getLogger(actor, id)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if !leavepolicy.CanDelete(actor, *rec) {
		return errors.Wrap(ErrForbidden, "удаление заявки недоступно")
	}
	err = i.store.Delete(id)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления заявки")
		return err
	}
	logger.Info("удалена заявка")
	if rec.DocumentKey != nil {
		i.deleteBlob(ctx, logger, *rec.DocumentKey)
	}
	return nil
}

func (i impl) AttachDocument(ctx context.Context, actor models.Actor, id, fileName, contentType string, file []byte) error {
	logger := i.getLogger(actor, id)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if !leavepolicy.CanUpdate(actor, *rec) {
		return errors.Wrap(ErrForbidden, "редактирование заявки недоступно")
	}
	if len(file) == 0 {
		return validationError("пустой файл")
	}
	key, err := i.files.UploadDocument(ctx, id, fileName, contentType, file)
	if err != nil {
		logger.WithError(err).Error("ошибка загрузки документа")
		return errors.Wrap(ErrValidation, err.Error())
	}
	err = i.store.Update(id, map[string]interface{}{"document_key": key})
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения ссылки на документ")
		return err
	}
	logger.Info("документ приложен к заявке")
	// старый файл удаляем после фиксации новой ссылки, сбой оставляет сироту в S3
	if rec.DocumentKey != nil && *rec.DocumentKey != key {
		i.deleteBlob(ctx, logger, *rec.DocumentKey)
	}
	return nil
}

func (i impl) GetDocument(ctx context.Context, actor models.Actor, id string) (string, []byte, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return "", nil, err
	}
	if !leavepolicy.CanView(actor, *rec) {
		return "", nil, errors.Wrap(ErrForbidden, "заявка принадлежит другому сотруднику")
	}
	if rec.DocumentKey == nil {
		return "", nil, errors.Wrap(ErrNotFound, "у заявки нет приложенного документа")
	}
	file, err := i.files.GetDocument(ctx, *rec.DocumentKey)
	if err != nil {
		return "", nil, err
	}
	return *rec.DocumentKey, file, nil
}

func (i impl) deleteBlob(ctx context.Context, logger *log.Entry, key string) {
	err := i.files.DeleteDocument(ctx, key)
	if err != nil {
		logger.
			WithField("document_key", key).
			WithError(err).
			Error("ошибка удаления документа из хранилища")
	}
}
