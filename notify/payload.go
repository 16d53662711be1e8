// Package notify turns error payloads returned by the CRM API into user
// notifications. Classification is pure; dispatching is done by Normalizer.
package notify

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind identifies which payload shape drives handling.
type Kind int

const (
	KindUnknown Kind = iota
	KindServerMessages
	KindException
	KindMessages
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindServerMessages:
		return "server_messages"
	case KindException:
		return "exception"
	case KindMessages:
		return "messages"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Payload is the classified form of an error payload. Only the fields that
// belong to Kind are meaningful, except Message which the exception shape
// also uses as a last resort.
type Payload struct {
	Kind           Kind
	ServerMessages json.RawMessage
	Exception      string
	ExcType        string
	Messages       []string
	Message        string
	Raw            json.RawMessage
}

// Classify inspects raw JSON and picks exactly one shape, in the order
// _server_messages, exception/exc_type, messages, message. Anything that is
// not a JSON object is KindUnknown.
func Classify(raw []byte) Payload {
	p := Payload{Kind: KindUnknown, Raw: append(json.RawMessage(nil), raw...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return p
	}

	if v, ok := fields["_server_messages"]; ok && truthy(v) {
		p.Kind = KindServerMessages
		p.ServerMessages = v
		return p
	}

	p.Exception = stringField(fields, "exception")
	p.ExcType = stringField(fields, "exc_type")
	p.Message = stringField(fields, "message")
	if p.Exception != "" || p.ExcType != "" {
		p.Kind = KindException
		return p
	}

	if v, ok := fields["messages"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err == nil && items != nil {
			p.Kind = KindMessages
			p.Messages = make([]string, 0, len(items))
			for _, item := range items {
				p.Messages = append(p.Messages, rawText(item))
			}
			return p
		}
	}

	if p.Message != "" {
		p.Kind = KindMessage
	}
	return p
}

// truthy reports whether a JSON value would count as present: null, false,
// 0 and "" do not.
func truthy(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	v, ok := fields[key]
	if !ok || !truthy(v) {
		return ""
	}
	return rawText(v)
}

// rawText returns the string value of a JSON string, or the JSON text of any
// other value. null becomes "".
func rawText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(v)
	if string(trimmed) == "null" {
		return ""
	}
	return string(trimmed)
}

// textOf renders a decoded JSON value as display text. Falsy values give "".
func textOf(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
