package models

// Urgency 下次下单日期相对今天的紧急程度
type Urgency string

const (
	UrgencyUpcoming  Urgency = "Upcoming"
	UrgencyDueToday  Urgency = "DueToday"
	UrgencyOverdue   Urgency = "Overdue"
	UrgencyInactive  Urgency = "Inactive"
	UrgencyEscalated Urgency = "Escalated"
	UrgencyDormant   Urgency = "Dormant"
	UrgencyNoDate    Urgency = "NoDate"
)

// IsOverdue 是否属于逾期类（日期早于今天）
func (u Urgency) IsOverdue() bool {
	switch u {
	case UrgencyOverdue, UrgencyInactive, UrgencyEscalated, UrgencyDormant:
		return true
	}
	return false
}
