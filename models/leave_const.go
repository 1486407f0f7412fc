package models

import "github.com/pkg/errors"

type LeaveType string

const (
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeVacation  LeaveType = "vacation"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypeMarriage  LeaveType = "marriage"
	LeaveTypeMaternity LeaveType = "maternity"
)

var leaveTypeHumanName = map[LeaveType]string{
	LeaveTypeSick:      "Больничный",
	LeaveTypeVacation:  "Отпуск",
	LeaveTypePersonal:  "Отгул",
	LeaveTypeEmergency: "Экстренный отпуск",
	LeaveTypeMarriage:  "Отпуск по случаю свадьбы",
	LeaveTypeMaternity: "Декретный отпуск",
}

func (t LeaveType) Validate() error {
	if _, exist := leaveTypeHumanName[t]; !exist {
		return errors.Errorf("неизвестный тип отпуска (%v)", t)
	}
	return nil
}

func (t LeaveType) ToHuman() string {
	if human, exist := leaveTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

var leaveStatusHumanName = map[LeaveStatus]string{
	LeaveStatusPending:  "На рассмотрении",
	LeaveStatusApproved: "Согласована",
	LeaveStatusRejected: "Отклонена",
}

func (s LeaveStatus) ToHuman() string {
	if human, exist := leaveStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsTerminal - решение по заявке принято, дальнейшие переходы запрещены
func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

type LeaveDecision string

const (
	LeaveDecisionApprove LeaveDecision = "approve"
	LeaveDecisionReject  LeaveDecision = "reject"
)

func (d LeaveDecision) Validate() error {
	if d != LeaveDecisionApprove && d != LeaveDecisionReject {
		return errors.Errorf("неизвестное решение по заявке (%v)", d)
	}
	return nil
}

func (d LeaveDecision) ToStatus() LeaveStatus {
	if d == LeaveDecisionApprove {
		return LeaveStatusApproved
	}
	return LeaveStatusRejected
}
