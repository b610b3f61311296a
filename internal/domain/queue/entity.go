package queue

import "time"

// ===============================
// View Model
// ===============================

type Contact struct {
	Phone1 string `json:"phone1,omitempty"`
	Phone2 string `json:"phone2,omitempty"`
}

type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
}

// Appointment é o registro pronto para exibição na fila.
// Nunca é alterado depois de criado: cada atualização gera uma coleção nova.
type Appointment struct {
	ID            string   `json:"id"`
	PatientName   string   `json:"patient_name"`
	CNS           string   `json:"cns,omitempty"`
	Procedure     string   `json:"procedure"`
	CreatedAt     string   `json:"created_at,omitempty"`
	Priority      Priority `json:"priority"`
	Position      int      `json:"position"`
	EstimatedTime int      `json:"estimated_time"`
	Status        Status   `json:"status"`
	Contact       Contact  `json:"contact"`
	Address       Address  `json:"address"`
}

type ProcedureSummary struct {
	Procedure string `json:"procedure"`
	Count     int    `json:"count"`
}

// ===============================
// Snapshot
// ===============================

// Snapshot é a coleção completa de uma busca aplicada.
// Generation cresce a cada busca iniciada; é a identidade da coleção.
type Snapshot struct {
	Generation   uint64        `json:"generation"`
	FetchedAt    time.Time     `json:"fetched_at"`
	Appointments []Appointment `json:"appointments"`
}

func (s Snapshot) IsZero() bool {
	return s.Generation == 0
}
