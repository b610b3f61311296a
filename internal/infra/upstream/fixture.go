package upstream

import (
	"context"

	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/models"
)

// Fixture serve uma fila fixa, para rodar o painel sem a API.
type Fixture struct {
	patients []models.APIPatient
}

func NewFixture() *Fixture {
	return &Fixture{patients: fixturePatients()}
}

func (f *Fixture) FetchPatients(ctx context.Context) ([]models.APIPatient, error) {
	if err := ctx.Err(); err != nil {
		return nil, &queue.FetchError{Kind: queue.FetchTransport, Err: err}
	}
	out := make([]models.APIPatient, len(f.patients))
	copy(out, f.patients)
	return out, nil
}

func fixturePatients() []models.APIPatient {
	return []models.APIPatient{
		{Protocol: 1, Position: 1, Name: "Maria Silva", CNS: "123456789012345", ProcedureName: "Consulta Cardiologia", CreatedAt: "2024-05-10T08:30:00", Priority: "0", EstimatedTime: 30},
		{Protocol: 2, Position: 2, Name: "João Santos", CNS: "234567890123456", ProcedureName: "Exame de Sangue", CreatedAt: "2024-05-10T09:15:00", Priority: "1", EstimatedTime: 15},
		{Protocol: 3, Position: 3, Name: "Ana Costa", CNS: "345678901234567", ProcedureName: "Ultrassonografia", CreatedAt: "2024-05-10T09:45:00", Priority: "0", EstimatedTime: 20},
		{Protocol: 4, Position: 4, Name: "Pedro Lima", CNS: "456789012345678", ProcedureName: "Consulta Cardiologia", CreatedAt: "2024-05-10T10:00:00", Priority: "2", EstimatedTime: 45},
		{Protocol: 5, Position: 5, Name: "Carla Oliveira Pereira Souza", CNS: "567890123456789", ProcedureName: "Raio-X", CreatedAt: "2024-05-10T10:30:00", Priority: "0", EstimatedTime: 10},
		{Protocol: 6, Position: 6, Name: "Roberto Mendes", CNS: "678901234567890", ProcedureName: "Exame de Sangue", CreatedAt: "2024-05-10T11:00:00", Priority: "0", EstimatedTime: 15},
	}
}
