package leavestore

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leave-backend/models"
	dbmodels "leave-backend/models/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.Nil(t, err)
	err = database.AutoMigrate(&dbmodels.User{}, &dbmodels.LeaveRequest{})
	require.Nil(t, err)
	return database
}

func date(value string) time.Time {
	result, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return result
}

func newUser(t *testing.T, database *gorm.DB, email string, role models.UserRole) dbmodels.User {
	t.Helper()
	user := dbmodels.User{
		FirstName: "Иван",
		LastName:  "Иванов",
		Email:     email,
		IsActive:  true,
		Role:      role,
	}
	require.Nil(t, database.Create(&user).Error)
	return user
}

func TestLeaveStoreCrud(t *testing.T) {
	database := newTestDB(t)
	store := NewInstance(database)
	user := newUser(t, database, "ivanov@example.com", models.EmployeeRole)

	rec := dbmodels.LeaveRequest{
		UserID:    user.ID,
		StartDate: date("2025-06-01"),
		EndDate:   date("2025-06-03"),
		Type:      models.LeaveTypeVacation,
		Reason:    "семейные обстоятельства",
		Status:    models.LeaveStatusPending,
	}

	t.Run(`создание и чтение заявки`, func(t *testing.T) {
		id, err := store.Create(rec)
		require.Nil(t, err)
		require.NotEmpty(t, id)

		saved, err := store.GetByID(id)
		require.Nil(t, err)
		require.NotNil(t, saved)
		require.Equal(t, user.ID, saved.UserID)
		require.Equal(t, models.LeaveStatusPending, saved.Status)
		require.NotNil(t, saved.User)
		require.Equal(t, "ivanov@example.com", saved.User.Email)
		rec.ID = id
	})

	t.Run(`чтение отсутствующей заявки возвращает nil`, func(t *testing.T) {
		saved, err := store.GetByID("missing-id")
		require.Nil(t, err)
		require.Nil(t, saved)
	})

	t.Run(`обновление заявки`, func(t *testing.T) {
		err := store.Update(rec.ID, map[string]interface{}{
			"status":        models.LeaveStatusApproved,
			"admin_remarks": "ok",
		})
		require.Nil(t, err)

		saved, err := store.GetByID(rec.ID)
		require.Nil(t, err)
		require.Equal(t, models.LeaveStatusApproved, saved.Status)
		require.NotNil(t, saved.AdminRemarks)
		require.Equal(t, "ok", *saved.AdminRemarks)
	})

	t.Run(`обновление отсутствующей заявки возвращает ошибку`, func(t *testing.T) {
		err := store.Update("missing-id", map[string]interface{}{"status": models.LeaveStatusApproved})
		require.NotNil(t, err)
	})

	t.Run(`подсчет по статусам`, func(t *testing.T) {
		counts, err := store.CountByStatus(user.ID)
		require.Nil(t, err)
		require.Equal(t, int64(1), counts[models.LeaveStatusApproved])
		require.Equal(t, int64(0), counts[models.LeaveStatusPending])
	})

	t.Run(`удаление заявки`, func(t *testing.T) {
		err := store.Delete(rec.ID)
		require.Nil(t, err)
		saved, err := store.GetByID(rec.ID)
		require.Nil(t, err)
		require.Nil(t, saved)
	})
}

func TestLeaveStoreList(t *testing.T) {
	database := newTestDB(t)
	store := NewInstance(database)
	first := newUser(t, database, "first@example.com", models.EmployeeRole)
	second := newUser(t, database, "second@example.com", models.EmployeeRole)

	for _, rec := range []dbmodels.LeaveRequest{
		{UserID: first.ID, StartDate: date("2025-06-01"), EndDate: date("2025-06-03"), Type: models.LeaveTypeVacation, Reason: "отпуск", Status: models.LeaveStatusPending},
		{UserID: first.ID, StartDate: date("2025-07-01"), EndDate: date("2025-07-05"), Type: models.LeaveTypeSick, Reason: "больничный", Status: models.LeaveStatusApproved},
		{UserID: second.ID, StartDate: date("2025-06-10"), EndDate: date("2025-06-12"), Type: models.LeaveTypePersonal, Reason: "отгул", Status: models.LeaveStatusPending},
	} {
		_, err := store.Create(rec)
		require.Nil(t, err)
	}

	t.Run(`выборка по пользователю`, func(t *testing.T) {
		list, err := store.List(first.ID)
		require.Nil(t, err)
		require.Len(t, list, 2)
		for _, rec := range list {
			require.Equal(t, first.ID, rec.UserID)
		}
	})

	t.Run(`выборка без фильтра возвращает все заявки`, func(t *testing.T) {
		list, err := store.List("")
		require.Nil(t, err)
		require.Len(t, list, 3)
	})
}

func TestLeaveStoreHasOverlap(t *testing.T) {
	database := newTestDB(t)
	store := NewInstance(database)
	user := newUser(t, database, "ivanov@example.com", models.EmployeeRole)
	other := newUser(t, database, "petrov@example.com", models.EmployeeRole)

	approvedID, err := store.Create(dbmodels.LeaveRequest{
		UserID:    user.ID,
		StartDate: date("2025-06-05"),
		EndDate:   date("2025-06-10"),
		Type:      models.LeaveTypeVacation,
		Reason:    "отпуск",
		Status:    models.LeaveStatusApproved,
	})
	require.Nil(t, err)
	_, err = store.Create(dbmodels.LeaveRequest{
		UserID:    user.ID,
		StartDate: date("2025-08-01"),
		EndDate:   date("2025-08-05"),
		Type:      models.LeaveTypeVacation,
		Reason:    "отпуск",
		Status:    models.LeaveStatusRejected,
	})
	require.Nil(t, err)

	cases := []struct {
		name    string
		start   string
		end     string
		overlap bool
	}{
		{`кандидат внутри существующего периода`, "2025-06-06", "2025-06-07", true},
		{`кандидат накрывает существующий период`, "2025-06-01", "2025-06-15", true},
		{`пересечение левой границей`, "2025-06-01", "2025-06-05", true},
		{`пересечение правой границей`, "2025-06-10", "2025-06-12", true},
		{`период до существующего`, "2025-06-01", "2025-06-04", false},
		{`период после существующего`, "2025-06-11", "2025-06-15", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			overlap, err := store.HasOverlap(user.ID, date(tc.start), date(tc.end), "")
			require.Nil(t, err)
			require.Equal(t, tc.overlap, overlap)
		})
	}

	t.Run(`отклоненная заявка период не блокирует`, func(t *testing.T) {
		overlap, err := store.HasOverlap(user.ID, date("2025-08-02"), date("2025-08-03"), "")
		require.Nil(t, err)
		require.False(t, overlap)
	})

	t.Run(`заявки другого пользователя не учитываются`, func(t *testing.T) {
		overlap, err := store.HasOverlap(other.ID, date("2025-06-06"), date("2025-06-07"), "")
		require.Nil(t, err)
		require.False(t, overlap)
	})

	t.Run(`исключение собственной записи при обновлении`, func(t *testing.T) {
		overlap, err := store.HasOverlap(user.ID, date("2025-06-05"), date("2025-06-10"), approvedID)
		require.Nil(t, err)
		require.False(t, overlap)
	})
}
