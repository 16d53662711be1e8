package service

import (
	"time"

	"github.com/BerniceZTT/crm_followup/models"
)

// 逾期天数阈值，均为左开右闭
const (
	overdueDays   = 60
	inactiveDays  = 90
	escalatedDays = 180
)

var urgencyColors = map[models.Urgency]string{
	models.UrgencyUpcoming:  "#16a34a",
	models.UrgencyDueToday:  "#d97706",
	models.UrgencyOverdue:   "#dc2626",
	models.UrgencyInactive:  "#b91c1c",
	models.UrgencyEscalated: "#991b1b",
	models.UrgencyDormant:   "#7f1d1d",
	models.UrgencyNoDate:    "#94a3b8",
}

// UrgencyColor 紧急程度对应的颜色
func UrgencyColor(u models.Urgency) string {
	if c, ok := urgencyColors[u]; ok {
		return c
	}
	return urgencyColors[models.UrgencyNoDate]
}

// DateOf 取时间所在的日历日（忽略时分秒）
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, s, time.UTC)
}

// DaysBetween 返回 to - from 的天数（按日历日）
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// ClassifyUrgency 按下次下单日期与今天的差值判断紧急程度
func ClassifyUrgency(nextOrderDate string, today time.Time) models.Urgency {
	if nextOrderDate == "" {
		return models.UrgencyNoDate
	}
	next, err := ParseDate(nextOrderDate)
	if err != nil {
		return models.UrgencyNoDate
	}

	overdue := DaysBetween(next, today)
	switch {
	case overdue < 0:
		return models.UrgencyUpcoming
	case overdue == 0:
		return models.UrgencyDueToday
	case overdue > escalatedDays:
		return models.UrgencyDormant
	case overdue > inactiveDays:
		return models.UrgencyEscalated
	case overdue > overdueDays:
		return models.UrgencyInactive
	default:
		return models.UrgencyOverdue
	}
}
