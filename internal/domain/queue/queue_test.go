package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mockAppointments() []Appointment {
	return []Appointment{
		{ID: "1", PatientName: "Maria Silva", Procedure: "Consulta Cardiologia", Priority: PriorityNormal, Status: StatusWaiting},
		{ID: "2", PatientName: "João Santos", Procedure: "Exame de Sangue", Priority: PriorityUrgent, Status: StatusWaiting},
		{ID: "3", PatientName: "Ana Costa", Procedure: "Ultrassonografia", Priority: PriorityNormal, Status: StatusWaiting},
		{ID: "4", PatientName: "Pedro Lima", Procedure: "Consulta Cardiologia", Priority: PriorityEmergency, Status: StatusWaiting},
		{ID: "5", PatientName: "Carla Oliveira", Procedure: "Raio-X", Priority: PriorityNormal, Status: StatusWaiting},
		{ID: "6", PatientName: "Roberto Mendes", Procedure: "Exame de Sangue", Priority: PriorityNormal, Status: StatusWaiting},
	}
}

func TestFilter_AllReturnsInput(t *testing.T) {
	data := mockAppointments()

	assert.Equal(t, data, Filter(data, AllProcedures))
	assert.Equal(t, data, Filter(data, ""))
}

func TestFilter_ExactMatch(t *testing.T) {
	data := mockAppointments()

	got := Filter(data, "Exame de Sangue")

	assert.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "6", got[1].ID)
	for _, ap := range got {
		assert.Equal(t, "Exame de Sangue", ap.Procedure)
	}
}

func TestFilter_CaseSensitive(t *testing.T) {
	assert.Empty(t, Filter(mockAppointments(), "exame de sangue"))
}

func TestFilter_UnknownProcedure(t *testing.T) {
	got := Filter(mockAppointments(), "Tomografia")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProcedures_UniqueSorted(t *testing.T) {
	assert.Equal(t, []string{
		"Consulta Cardiologia",
		"Exame de Sangue",
		"Raio-X",
		"Ultrassonografia",
	}, Procedures(mockAppointments()))
}

func TestSummarize(t *testing.T) {
	data := mockAppointments()

	got := Summarize(data)

	assert.Equal(t, []ProcedureSummary{
		{Procedure: "Consulta Cardiologia", Count: 2},
		{Procedure: "Exame de Sangue", Count: 2},
		{Procedure: "Ultrassonografia", Count: 1},
		{Procedure: "Raio-X", Count: 1},
	}, got)
	assert.Equal(t, len(data), Total(got))
}

func TestSummarize_FilteredSet(t *testing.T) {
	got := Summarize(Filter(mockAppointments(), "Exame de Sangue"))

	assert.Equal(t, []ProcedureSummary{{Procedure: "Exame de Sangue", Count: 2}}, got)
}

func TestSummarize_SortedDescending(t *testing.T) {
	data := []Appointment{
		{Procedure: "A"}, {Procedure: "B"}, {Procedure: "B"},
		{Procedure: "C"}, {Procedure: "C"}, {Procedure: "C"}, {Procedure: "A"},
	}

	got := Summarize(data)

	assert.Equal(t, []ProcedureSummary{
		{Procedure: "C", Count: 3},
		{Procedure: "A", Count: 2},
		{Procedure: "B", Count: 2},
	}, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
	}
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestShare(t *testing.T) {
	assert.InDelta(t, 50.0, Share(ProcedureSummary{Count: 3}, 6), 0.001)
	assert.Zero(t, Share(ProcedureSummary{Count: 3}, 0))
}

func TestPriority(t *testing.T) {
	for _, tc := range []struct {
		raw   string
		want  Priority
		known bool
	}{
		{"0", PriorityNormal, true},
		{"1", PriorityUrgent, true},
		{"2", PriorityEmergency, true},
		{"urgent", PriorityUrgent, true},
		{" Emergency ", PriorityEmergency, true},
		{"7", PriorityNormal, false},
		{"alta", PriorityNormal, false},
	} {
		got, ok := ParsePriority(tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
		assert.Equal(t, tc.known, ok, tc.raw)
	}

	assert.Equal(t, "Emergência", PriorityEmergency.Label())
	assert.Equal(t, "Urgente", PriorityUrgent.Label())
	assert.Equal(t, "Normal", Priority("").Label())
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("")
	assert.True(t, ok)
	assert.Equal(t, StatusWaiting, s)

	s, ok = ParseStatus("completed")
	assert.True(t, ok)
	assert.False(t, s.IsWaiting())

	_, ok = ParseStatus("cancelado")
	assert.False(t, ok)
}
