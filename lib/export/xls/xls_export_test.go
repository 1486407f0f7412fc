package xlsexport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"leave-backend/models"
	dbmodels "leave-backend/models/db"
)

func TestExportLeaveList(t *testing.T) {
	handler := impl{}
	remarks := "ok"
	start, _ := time.ParseInLocation("2006-01-02", "2025-06-01", time.UTC)
	end, _ := time.ParseInLocation("2006-01-02", "2025-06-03", time.UTC)
	list := []dbmodels.LeaveRequest{
		{
			UserID: "user-1",
			User: &dbmodels.User{
				FirstName: "Иван",
				LastName:  "Иванов",
			},
			StartDate:    start,
			EndDate:      end,
			Type:         models.LeaveTypeVacation,
			Reason:       "отпуск",
			Status:       models.LeaveStatusApproved,
			AdminRemarks: &remarks,
		},
	}

	buf, err := handler.ExportLeaveList(list)
	require.Nil(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	require.Nil(t, err)
	defer f.Close()

	rows, err := f.GetRows("Заявки на отпуск")
	require.Nil(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, leaveHeaders, rows[0])
	require.Equal(t, []string{"Иван Иванов", "Отпуск", "2025-06-01", "2025-06-03", "3", "отпуск", "Согласована", "ok"}, rows[1])
}

func TestExportLeaveListEmpty(t *testing.T) {
	handler := impl{}
	buf, err := handler.ExportLeaveList(nil)
	require.Nil(t, err)

	f, err := excelize.OpenReader(buf)
	require.Nil(t, err)
	defer f.Close()

	rows, err := f.GetRows("Заявки на отпуск")
	require.Nil(t, err)
	require.Len(t, rows, 1)
}
