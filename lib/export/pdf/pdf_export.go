package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	leaveapimodels "leave-backend/models/api/leave"
	dbmodels "leave-backend/models/db"
)

// GenerateLeaveCard формирует печатную карточку заявки на отпуск.
// Шрифты с кириллицей ожидаются в static/font/, как и у офферов в hr-инструментах.
func GenerateLeaveCard(rec dbmodels.LeaveRequest) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateLeaveCard panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, "Заявка на отпуск", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	userName := rec.UserID
	if rec.User != nil {
		userName = rec.User.GetFullName()
	}
	remarks := ""
	if rec.AdminRemarks != nil {
		remarks = *rec.AdminRemarks
	}
	adminName := ""
	if rec.Admin != nil {
		adminName = rec.Admin.GetFullName()
	}

	writeRow(pdf, "Сотрудник", userName)
	writeRow(pdf, "Тип", rec.Type.ToHuman())
	writeRow(pdf, "Период", fmt.Sprintf("%s - %s (%d дн.)",
		rec.StartDate.Format(leaveapimodels.DateLayout),
		rec.EndDate.Format(leaveapimodels.DateLayout),
		rec.DurationDays()))
	writeRow(pdf, "Причина", rec.Reason)
	writeRow(pdf, "Статус", rec.Status.ToHuman())
	if adminName != "" {
		writeRow(pdf, "Решение принял", adminName)
	}
	if remarks != "" {
		writeRow(pdf, "Комментарий", remarks)
	}

	var buf bytes.Buffer
	err = pdf.Output(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования pdf")
	}
	return buf.Bytes(), nil
}

func writeRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 8, value, "", "L", false)
}
