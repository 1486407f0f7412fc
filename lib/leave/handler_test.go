package leavehandler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leave-backend/models"
	leaveapimodels "leave-backend/models/api/leave"
	dbmodels "leave-backend/models/db"
)

type notifyRecorder struct {
	calls []string
}

func (r *notifyRecorder) SendStatusChanged(email string, rec dbmodels.LeaveRequest) {
	r.calls = append(r.calls, email)
}

type fakeStorage struct {
	blobs map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: map[string][]byte{}}
}

func (s *fakeStorage) UploadDocument(ctx context.Context, leaveID, fileName, contentType string, file []byte) (string, error) {
	key := fmt.Sprintf("leave-documents/%s/%s", leaveID, fileName)
	s.blobs[key] = file
	return key, nil
}

func (s *fakeStorage) GetDocument(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("документ не найден: %s", key)
	}
	return data, nil
}

func (s *fakeStorage) DeleteDocument(ctx context.Context, key string) error {
	delete(s.blobs, key)
	return nil
}

func (s *fakeStorage) MakeBucket(ctx context.Context) error {
	return nil
}

type testEnv struct {
	database *gorm.DB
	handler  Provider
	notify   *notifyRecorder
	files    *fakeStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.Nil(t, err)
	err = database.AutoMigrate(&dbmodels.User{}, &dbmodels.LeaveRequest{})
	require.Nil(t, err)
	notify := &notifyRecorder{}
	files := newFakeStorage()
	return &testEnv{
		database: database,
		handler:  NewInstance(database, notify, files),
		notify:   notify,
		files:    files,
	}
}

func (e *testEnv) newUser(t *testing.T, email string, role models.UserRole) models.Actor {
	t.Helper()
	user := dbmodels.User{
		FirstName: "Иван",
		LastName:  "Иванов",
		Email:     email,
		IsActive:  true,
		Role:      role,
	}
	require.Nil(t, e.database.Create(&user).Error)
	return user.AsActor()
}

// day возвращает дату со смещением в днях от сегодняшнего дня
func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(leaveapimodels.DateLayout)
}

func leaveData(start, end string) leaveapimodels.LeaveData {
	return leaveapimodels.LeaveData{
		StartDate: start,
		EndDate:   end,
		Type:      models.LeaveTypeVacation,
		Reason:    "семейные обстоятельства",
	}
}

func TestLeaveCreate(t *testing.T) {
	env := newTestEnv(t)
	employee := env.newUser(t, "ivanov@example.com", models.EmployeeRole)
	admin := env.newUser(t, "admin@example.com", models.AdminRole)

	t.Run(`сотрудник создает заявку`, func(t *testing.T) {
		view, err := env.handler.Create(employee, leaveData(day(1), day(3)))
		require.Nil(t, err)
		require.Equal(t, string(models.LeaveStatusPending), view.Status)
		require.Equal(t, employee.ID, view.UserID)
		require.Equal(t, 3, view.DurationDays)
		require.Empty(t, view.AdminID)
		require.Empty(t, view.AdminRemarks)
	})

	t.Run(`администратор не может создать заявку`, func(t *testing.T) {
		_, err := env.handler.Create(admin, leaveData(day(10), day(12)))
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run(`заявка задним числом отклоняется`, func(t *testing.T) {
		_, err := env.handler.Create(employee, leaveData(day(-2), day(2)))
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run(`окончание раньше начала отклоняется`, func(t *testing.T) {
		_, err := env.handler.Create(employee, leaveData(day(5), day(4)))
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run(`пустая причина отклоняется`, func(t *testing.T) {
		data := leaveData(day(20), day(21))
		data.Reason = ""
		_, err := env.handler.Create(employee, data)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run(`неизвестный тип отпуска отклоняется`, func(t *testing.T) {
		data := leaveData(day(20), day(21))
		data.Type = "sabbatical"
		_, err := env.handler.Create(employee, data)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run(`пересечение с существующей заявкой дает конфликт`, func(t *testing.T) {
		_, err := env.handler.Create(employee, leaveData(day(2), day(4)))
		require.ErrorIs(t, err, ErrOverlap)
	})

	t.Run(`заявка на один день без пересечения`, func(t *testing.T) {
		view, err := env.handler.Create(employee, leaveData(day(4), day(4)))
		require.Nil(t, err)
		require.Equal(t, 1, view.DurationDays)
	})
}

func TestLeaveLifecycle(t *testing.T) {
	env := newTestEnv(t)
	employee := env.newUser(t, "ivanov@example.com", models.EmployeeRole)
	admin := env.newUser(t, "admin@example.com", models.AdminRole)

	view, err := env.handler.Create(employee, leaveData(day(1), day(3)))
	require.Nil(t, err)

	t.Run(`сотрудник не может принять решение по заявке`, func(t *testing.T) {
		_, err := env.handler.UpdateStatus(employee, view.ID, leaveapimodels.DecisionData{
			Decision: models.LeaveDecisionApprove,
			Remarks:  "ok",
		})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run(`решение без комментария отклоняется`, func(t *testing.T) {
		_, err := env.handler.UpdateStatus(admin, view.ID, leaveapimodels.DecisionData{
			Decision: models.LeaveDecisionApprove,
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run(`администратор согласует заявку с уведомлением`, func(t *testing.T) {
		updated, err := env.handler.UpdateStatus(admin, view.ID, leaveapimodels.DecisionData{
			Decision: models.LeaveDecisionApprove,
			Remarks:  "ok",
		})
		require.Nil(t, err)
		require.Equal(t, string(models.LeaveStatusApproved), updated.Status)
		require.Equal(t, admin.ID, updated.AdminID)
		require.Equal(t, "ok", updated.AdminRemarks)
		require.Equal(t, []string{"ivanov@example.com"}, env.notify.calls)
	})

	t.Run(`повторное решение по заявке отклоняется`, func(t *testing.T) {
		_, err := env.handler.UpdateStatus(admin, view.ID, leaveapimodels.DecisionData{
			Decision: models.LeaveDecisionReject,
			Remarks:  "передумал",
		})
		require.ErrorIs(t, err, ErrDecided)
		require.Len(t, env.notify.calls, 1)
	})

	t.Run(`владелец не может удалить согласованную заявку`, func(t *testing.T) {
		err := env.handler.Delete(context.Background(), employee, view.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run(`новая заявка поверх согласованного периода дает конфликт`, func(t *testing.T) {
		_, err := env.handler.Create(employee, leaveData(day(2), day(4)))
		require.ErrorIs(t, err, ErrOverlap)
	})

	t.Run(`решение по несуществующей заявке дает NotFound`, func(t *testing.T) {
		_, err := env.handler.UpdateStatus(admin, "missing-id", leaveapimodels.DecisionData{
			Decision: models.LeaveDecisionApprove,
			Remarks:  "ok",
		})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLeaveReject(t *testing.T) {
	env := newTestEnv(t)
	employee := env.newUser(t, "ivanov@example.com", models.EmployeeRole)
	admin := env.newUser(t, "admin@example.com", models.AdminRole)

	view, err := env.handler.Create(employee, leaveData(day(1), day(3)))
	require.Nil(t, err)

	updated, err := env.handler.UpdateStatus(admin, view.ID, leaveapimodels.DecisionData{
		Decision: models.LeaveDecisionReject,
		Remarks:  "не хватает людей в смене",
	})
	require.Nil(t, err)
	require.Equal(t, string(models.LeaveStatusRejected), updated.Status)
	require.Equal(t, []string{"ivanov@example.com"}, env.notify.calls)

	t.Run(`отклоненная заявка не блокирует новый период`, func(t *testing.T) {
		_, err := env.handler.Create(employee, leaveData(day(2), day(4)))
		require.Nil(t, err)
	})
}

func TestLeaveUpdate(t *testing.T) {
	env := newTestEnv(t)
	employee := env.newUser(t, "ivanov@example.com", models.EmployeeRole)
	other := env.newUser(t, "petrov@example.com", models.EmployeeRole)
	admin := env.newUser(t, "admin@example.com", models.AdminRole)

	view, err := env.handler.Create(employee, leaveData(day(1), day(3)))
	require.Nil(t, err)
	second, err := env.handler.Create(employee, leaveData(day(10), day(12)))
	require.Nil(t, err)

	t.Run(`владелец переносит период заявки`, func(t *testing.T) {
		updated, err := env.handler.Update(employee, view.ID, leaveData(day(5), day(7)))
		require.Nil(t, err)
		require.Equal(t, day(5), updated.StartDate)
		require.Equal(t, day(7), updated.EndDate)
	})

	t.Run(`перенос поверх другой своей заявки дает конфликт`, func(t *testing.T) {
		_, err := env.handler.Update(employee, view.ID, leaveData(day(11), day(13)))
		require.ErrorIs(t, err, ErrOverlap)
	})

	t.Run(`перенос на тот же период не конфликтует сам с собой`, func(t *testing.T) {
		_, err := env.handler.Update(employee, view.ID, leaveData(day(5), day(7)))
		require.Nil(t, err)
	})

	t.Run(`чужую заявку редактировать нельзя`, func(t *testing.T) {
		_, err := env.handler.Update(other, view.ID, leaveData(day(20), day(21)))
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run(`после решения заявка не редактируется`, func(t *testing.T) {
		_, err := env.handler.UpdateStatus(admin, second.ID, leaveapimodels.DecisionData{
			Decision: models.LeaveDecisionApprove,
			Remarks:  "ok",
		})
		require.Nil(t, err)
		_, err = env.handler.Update(employee, second.ID, leaveData(day(20), day(21)))
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestLeaveViewAccess(t *testing.T) {
	env := newTestEnv(t)
	employee := env.newUser(t, "ivanov@example.com", models.EmployeeRole)
	other := env.newUser(t, "petrov@example.com", models.EmployeeRole)
	admin := env.newUser(t, "admin@example.com", models.AdminRole)

	view, err := env.handler.Create(employee, leaveData(day(1), day(3)))
	require.Nil(t, err)
	_, err = env.handler.Create(other, leaveData(day(1), day(3)))
	require.Nil(t, err)

	t.Run(`владелец и администратор видят заявку`, func(t *testing.T) {
		_, err := env.handler.GetByID(employee, view.ID)
		require.Nil(t, err)
		_, err = env.handler.GetByID(admin, view.ID)
		require.Nil(t, err)
	})

	t.Run(`чужая заявка недоступна`, func(t *testing.T) {
		_, err := env.handler.GetByID(other, view.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run(`сотрудник видит только свои заявки`, func(t *testing.T) {
		list, err := env.handler.List(employee)
		require.Nil(t, err)
		require.Len(t, list.Items, 1)
		require.Equal(t, employee.ID, list.Items[0].UserID)
		require.Equal(t, int64(1), list.Stats.Pending)
	})

	t.Run(`администратор видит все заявки`, func(t *testing.T) {
		list, err := env.handler.List(admin)
		require.Nil(t, err)
		require.Len(t, list.Items, 2)
		require.Equal(t, int64(2), list.Stats.Pending)
	})
}

func TestLeaveDelete(t *testing.T) {
	env := newTestEnv(t)
	employee := env.newUser(t, "ivanov@example.com", models.EmployeeRole)

	view, err := env.handler.Create(employee, leaveData(day(1), day(3)))
	require.Nil(t, err)

	t.Run(`владелец удаляет заявку на рассмотрении`, func(t *testing.T) {
		err := env.handler.Delete(context.Background(), employee, view.ID)
		require.Nil(t, err)
		_, err = env.handler.GetByID(employee, view.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(`удаленный период снова доступен`, func(t *testing.T) {
		_, err := env.handler.Create(employee, leaveData(day(2), day(4)))
		require.Nil(t, err)
	})
}

func TestLeaveDocuments(t *testing.T) {
	env := newTestEnv(t)
	employee := env.newUser(t, "ivanov@example.com", models.EmployeeRole)
	other := env.newUser(t, "petrov@example.com", models.EmployeeRole)
	ctx := context.Background()

	view, err := env.handler.Create(employee, leaveData(day(1), day(3)))
	require.Nil(t, err)

	t.Run(`владелец прикладывает документ`, func(t *testing.T) {
		err := env.handler.AttachDocument(ctx, employee, view.ID, "spravka.pdf", "application/pdf", []byte("pdf-data"))
		require.Nil(t, err)

		key, data, err := env.handler.GetDocument(ctx, employee, view.ID)
		require.Nil(t, err)
		require.Contains(t, key, "spravka.pdf")
		require.Equal(t, []byte("pdf-data"), data)
	})

	t.Run(`повторная загрузка заменяет документ`, func(t *testing.T) {
		err := env.handler.AttachDocument(ctx, employee, view.ID, "novaya-spravka.pdf", "application/pdf", []byte("new-data"))
		require.Nil(t, err)

		key, data, err := env.handler.GetDocument(ctx, employee, view.ID)
		require.Nil(t, err)
		require.Contains(t, key, "novaya-spravka.pdf")
		require.Equal(t, []byte("new-data"), data)
		require.Len(t, env.files.blobs, 1)
	})

	t.Run(`пустой файл отклоняется`, func(t *testing.T) {
		err := env.handler.AttachDocument(ctx, employee, view.ID, "empty.pdf", "application/pdf", nil)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run(`чужой документ недоступен`, func(t *testing.T) {
		_, _, err := env.handler.GetDocument(ctx, other, view.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run(`заявка без документа дает NotFound`, func(t *testing.T) {
		second, err := env.handler.Create(employee, leaveData(day(10), day(12)))
		require.Nil(t, err)
		_, _, err = env.handler.GetDocument(ctx, employee, second.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(`документ удаляется вместе с заявкой`, func(t *testing.T) {
		err := env.handler.Delete(ctx, employee, view.ID)
		require.Nil(t, err)
		require.Empty(t, env.files.blobs[fmt.Sprintf("leave-documents/%s/novaya-spravka.pdf", view.ID)])
	})
}
