package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// APIPatient é o registro bruto devolvido pela API de atendimentos.
type APIPatient struct {
	Protocol      int64        `json:"SRG_ATE_PROTOCOLO"`
	Position      int          `json:"SRG_ATE_POS_ATUAL"`
	Name          string       `json:"SRG_PACIENTE_NOME"`
	CNS           string       `json:"SRG_PACIENTE_CNS"`
	ProcedureName string       `json:"SRG_G_PROCEDIMENTO_NOME"`
	CreatedAt     string       `json:"SRG_ATE_CRIADOEM"`
	Priority      PriorityCode `json:"SRG_AGE_PRIORIDADE"`
	CPF           string       `json:"SRG_PAC_CPF"`
	Phone1        string       `json:"SRG_PACIENTE_TELEFONE_1,omitempty"`
	Phone2        string       `json:"SRG_PACIENTE_TELEFONE_2,omitempty"`
	Street        string       `json:"SRG_PACIENTE_ENDERECO,omitempty"`
	StreetNumber  string       `json:"SRG_PACIENTE_ENDERECO_N,omitempty"`
	Neighborhood  string       `json:"SRG_PACIENTE_BAIRRO,omitempty"`
	Status        string       `json:"SRG_ATE_STATUS,omitempty"`
	EstimatedTime int          `json:"SRG_ATE_TEMPO_ESTIMADO,omitempty"`

	// DecodeWarnings lista os campos que vieram com tipo inválido e
	// ficaram com o valor zero.
	DecodeWarnings []string `json:"-"`
}

// UnmarshalJSON lê campo a campo: um campo com tipo errado vira aviso e
// não derruba o registro. Só falha quando o registro não é um objeto.
func (p *APIPatient) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("invalid patient record: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("invalid patient record: null")
	}

	var out APIPatient
	field := func(key string, decode func(json.RawMessage) error) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		if err := decode(raw); err != nil {
			out.DecodeWarnings = append(out.DecodeWarnings, fmt.Sprintf("invalid field %s: %s", key, raw))
		}
	}

	field("SRG_ATE_PROTOCOLO", intInto(&out.Protocol))
	field("SRG_ATE_POS_ATUAL", func(raw json.RawMessage) error {
		var n int64
		err := intInto(&n)(raw)
		out.Position = int(n)
		return err
	})
	field("SRG_PACIENTE_NOME", textInto(&out.Name))
	field("SRG_PACIENTE_CNS", textInto(&out.CNS))
	field("SRG_G_PROCEDIMENTO_NOME", textInto(&out.ProcedureName))
	field("SRG_ATE_CRIADOEM", textInto(&out.CreatedAt))
	field("SRG_AGE_PRIORIDADE", func(raw json.RawMessage) error {
		return out.Priority.UnmarshalJSON(raw)
	})
	field("SRG_PAC_CPF", textInto(&out.CPF))
	field("SRG_PACIENTE_TELEFONE_1", textInto(&out.Phone1))
	field("SRG_PACIENTE_TELEFONE_2", textInto(&out.Phone2))
	field("SRG_PACIENTE_ENDERECO", textInto(&out.Street))
	field("SRG_PACIENTE_ENDERECO_N", textInto(&out.StreetNumber))
	field("SRG_PACIENTE_BAIRRO", textInto(&out.Neighborhood))
	field("SRG_ATE_STATUS", textInto(&out.Status))
	field("SRG_ATE_TEMPO_ESTIMADO", func(raw json.RawMessage) error {
		var n int64
		err := intInto(&n)(raw)
		out.EstimatedTime = int(n)
		return err
	})

	*p = out
	return nil
}

// textInto aceita string, número ou null. CNS e número da casa já
// chegaram como número.
func textInto(dst *string) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		raw = bytes.TrimSpace(raw)
		switch {
		case bytes.Equal(raw, []byte("null")):
			*dst = ""
			return nil
		case len(raw) > 0 && raw[0] == '"':
			return json.Unmarshal(raw, dst)
		}

		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}
		*dst = n.String()
		return nil
	}
}

// intInto aceita número inteiro, string numérica, "" ou null.
func intInto(dst *int64) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		raw = bytes.TrimSpace(raw)
		if bytes.Equal(raw, []byte("null")) {
			*dst = 0
			return nil
		}

		var n json.Number
		if len(raw) > 0 && raw[0] == '"' {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			s = strings.TrimSpace(s)
			if s == "" {
				*dst = 0
				return nil
			}
			n = json.Number(s)
		} else if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}

		v, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// PriorityCode guarda a prioridade como texto. A API já mandou tanto
// número (0, 1, 2) quanto string ("urgent").
type PriorityCode string

func (p *PriorityCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriorityCode(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid priority code %s: %w", data, err)
	}
	*p = PriorityCode(n.String())
	return nil
}

func (p PriorityCode) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(string(p)); err == nil {
		return []byte(p), nil
	}
	return json.Marshal(string(p))
}
