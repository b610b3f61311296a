package queue

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus aceita o status vindo da API.
// Vazio significa que a API já filtrou a fila (somente aguardando).
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case "", StatusWaiting:
		return StatusWaiting, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	}
	return StatusWaiting, false
}

func (s Status) IsWaiting() bool {
	return s == StatusWaiting
}
