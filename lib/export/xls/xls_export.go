package xlsexport

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	leaveapimodels "leave-backend/models/api/leave"
	dbmodels "leave-backend/models/db"
)

type Provider interface {
	ExportLeaveList(list []dbmodels.LeaveRequest) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var leaveHeaders = []string{"Сотрудник", "Тип", "Дата начала", "Дата окончания", "Дней", "Причина", "Статус", "Комментарий администратора"}

func (i impl) ExportLeaveList(list []dbmodels.LeaveRequest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, leaveHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		_, err = writeLeaveData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Заявки на отпуск")
	return f.WriteToBuffer()
}

func writeLeaveData(f *excelize.File, sheet string, list []dbmodels.LeaveRequest, row int) (int, error) {
	for _, item := range list {
		row++
		// "Сотрудник"
		col := 1
		userName := item.UserID
		if item.User != nil {
			userName = item.User.GetFullName()
		}
		if err := writeColumn(f, sheet, col, row, userName); err != nil {
			return row, err
		}

		// "Тип"
		col++
		if err := writeColumn(f, sheet, col, row, item.Type.ToHuman()); err != nil {
			return row, err
		}

		// "Дата начала"
		col++
		if err := writeColumn(f, sheet, col, row, item.StartDate.Format(leaveapimodels.DateLayout)); err != nil {
			return row, err
		}

		// "Дата окончания"
		col++
		if err := writeColumn(f, sheet, col, row, item.EndDate.Format(leaveapimodels.DateLayout)); err != nil {
			return row, err
		}

		// "Дней"
		col++
		if err := writeColumn(f, sheet, col, row, fmt.Sprintf("%d", item.DurationDays())); err != nil {
			return row, err
		}

		// "Причина"
		col++
		if err := writeColumn(f, sheet, col, row, item.Reason); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		// "Комментарий администратора"
		col++
		remarks := ""
		if item.AdminRemarks != nil {
			remarks = *item.AdminRemarks
		}
		if err := writeColumn(f, sheet, col, row, remarks); err != nil {
			return row, err
		}
	}
	return row, nil
}
