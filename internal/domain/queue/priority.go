package queue

import (
	"strconv"
	"strings"
)

// ===============================
// Priority
// ===============================

type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

// Numeric codes sent by the upstream API in SRG_AGE_PRIORIDADE.
const (
	CodeNormal    = 0
	CodeUrgent    = 1
	CodeEmergency = 2
)

// PriorityFromCode maps the numeric upstream encoding. Unknown codes fall
// back to normal and report ok=false so the caller can log them.
func PriorityFromCode(code int) (Priority, bool) {
	switch code {
	case CodeNormal:
		return PriorityNormal, true
	case CodeUrgent:
		return PriorityUrgent, true
	case CodeEmergency:
		return PriorityEmergency, true
	}
	return PriorityNormal, false
}

// ParsePriority accepts either the string variant or a numeric code
// rendered as text.
func ParsePriority(raw string) (Priority, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))

	switch Priority(v) {
	case PriorityNormal, PriorityUrgent, PriorityEmergency:
		return Priority(v), true
	}

	if code, err := strconv.Atoi(v); err == nil {
		return PriorityFromCode(code)
	}

	return PriorityNormal, false
}

func (p Priority) Label() string {
	switch p {
	case PriorityUrgent:
		return "Urgente"
	case PriorityEmergency:
		return "Emergência"
	default:
		return "Normal"
	}
}

// Variant é a classe do badge usada pela página.
func (p Priority) Variant() string {
	switch p {
	case PriorityUrgent:
		return "secondary"
	case PriorityEmergency:
		return "destructive"
	default:
		return "outline"
	}
}
