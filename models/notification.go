package models

import (
	"encoding/json"
	"strings"
)

// Indicator 服务端消息的颜色标记
type Indicator string

const (
	IndicatorGreen   Indicator = "green"
	IndicatorBlue    Indicator = "blue"
	IndicatorInfo    Indicator = "info"
	IndicatorOrange  Indicator = "orange"
	IndicatorYellow  Indicator = "yellow"
	IndicatorWarning Indicator = "warning"
	IndicatorRed     Indicator = "red"
	IndicatorError   Indicator = "error"
)

// Severity 通知级别
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SeverityOf 将颜色标记映射为通知级别（忽略大小写，未知值按错误处理）
func SeverityOf(indicator string) Severity {
	switch Indicator(strings.ToLower(strings.TrimSpace(indicator))) {
	case IndicatorGreen:
		return SeveritySuccess
	case IndicatorBlue, IndicatorInfo:
		return SeverityInfo
	case IndicatorOrange, IndicatorYellow, IndicatorWarning:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// ServerMessage 服务端返回的单条消息
type ServerMessage struct {
	Message   string    `json:"message"`
	Title     string    `json:"title,omitempty"`
	Indicator Indicator `json:"indicator"`
}

// Notification 归一化后的用户通知
type Notification struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title,omitempty"`
	Body     string   `json:"body"`
}

// EncodeServerMessages 按双重编码格式输出 _server_messages：
// 每条消息先编码为 JSON 字符串，再整体编码为 JSON 数组
func EncodeServerMessages(messages ...ServerMessage) string {
	encoded := make([]string, 0, len(messages))
	for _, m := range messages {
		b, err := json.Marshal(m)
		if err != nil {
			continue
		}
		encoded = append(encoded, string(b))
	}
	out, err := json.Marshal(encoded)
	if err != nil {
		return "[]"
	}
	return string(out)
}
