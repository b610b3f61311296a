package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/models"
	"github.com/BruksfildServices01/fila-atendimento/internal/timezone"
)

// DisplayLayout imita toLocaleString("pt-BR").
const DisplayLayout = "02/01/2006, 15:04:05"

// Mapper converte registros da API no modelo de exibição.
type Mapper struct {
	loc *time.Location
}

func New(tz string) *Mapper {
	return &Mapper{loc: timezone.Location(tz)}
}

// ======================================================
// NAME / DATE
// ======================================================

// FormatName abbreviates every token after the first into an initial when
// the name has more than two tokens: "Carla Oliveira Pereira Souza" becomes
// "Carla O. P. S.". Shorter names are returned unchanged.
func FormatName(name string) string {
	parts := strings.Fields(name)
	if len(parts) <= 2 {
		return name
	}

	out := make([]string, 0, len(parts))
	out = append(out, parts[0])

	for _, p := range parts[1:] {
		r, _ := utf8.DecodeRuneInString(p)
		out = append(out, string(r)+".")
	}

	return strings.Join(out, " ")
}

// FormatDateTime returns "" when raw cannot be parsed.
func (m *Mapper) FormatDateTime(raw string) string {
	t, ok := timezone.Parse(raw, m.loc)
	if !ok {
		return ""
	}
	return t.Format(DisplayLayout)
}

// ======================================================
// RECORDS
// ======================================================

// ToAppointment never fails; problems with individual fields come back
// as warnings and the field gets a placeholder.
func (m *Mapper) ToAppointment(raw models.APIPatient) (queue.Appointment, []string) {
	warnings := append([]string(nil), raw.DecodeWarnings...)

	priority, ok := queue.ParsePriority(string(raw.Priority))
	if !ok && raw.Priority != "" {
		warnings = append(warnings, fmt.Sprintf("unknown priority code %q", raw.Priority))
	}

	status, ok := queue.ParseStatus(raw.Status)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("unknown status %q", raw.Status))
	}

	createdAt := m.FormatDateTime(raw.CreatedAt)
	if createdAt == "" && strings.TrimSpace(raw.CreatedAt) != "" {
		warnings = append(warnings, fmt.Sprintf("invalid timestamp %q", raw.CreatedAt))
	}

	estimated := raw.EstimatedTime
	if estimated < 0 {
		estimated = 0
	}

	return queue.Appointment{
		ID:            strconv.FormatInt(raw.Protocol, 10),
		PatientName:   FormatName(raw.Name),
		CNS:           strings.TrimSpace(raw.CNS),
		Procedure:     raw.ProcedureName,
		CreatedAt:     createdAt,
		Priority:      priority,
		Position:      raw.Position,
		EstimatedTime: estimated,
		Status:        status,
		Contact: queue.Contact{
			Phone1: strings.TrimSpace(raw.Phone1),
			Phone2: strings.TrimSpace(raw.Phone2),
		},
		Address: queue.Address{
			Street:       strings.TrimSpace(raw.Street),
			Number:       strings.TrimSpace(raw.StreetNumber),
			Neighborhood: strings.TrimSpace(raw.Neighborhood),
		},
	}, warnings
}

// Warning identifica o registro que gerou um aviso de mapeamento.
type Warning struct {
	Protocol int64
	Message  string
}

// ToAppointments maps the whole fetch, keeping only waiting appointments.
// Records without a server position get their rank in the fetched order.
func (m *Mapper) ToAppointments(raws []models.APIPatient) ([]queue.Appointment, []Warning) {
	out := make([]queue.Appointment, 0, len(raws))
	var warnings []Warning

	for _, raw := range raws {
		ap, ws := m.ToAppointment(raw)
		for _, w := range ws {
			warnings = append(warnings, Warning{Protocol: raw.Protocol, Message: w})
		}

		if !ap.Status.IsWaiting() {
			continue
		}

		if ap.Position <= 0 {
			ap.Position = len(out) + 1
		}
		out = append(out, ap)
	}

	return out, warnings
}
