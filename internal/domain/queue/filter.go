package queue

import "sort"

// AllProcedures é o valor do filtro que mostra a fila inteira.
const AllProcedures = "all"

func IsAll(selected string) bool {
	return selected == "" || selected == AllProcedures
}

// Filter keeps the appointments whose procedure equals selected
// (exact, case-sensitive). "all" or "" returns the input as is.
func Filter(appointments []Appointment, selected string) []Appointment {
	if IsAll(selected) {
		return appointments
	}

	out := make([]Appointment, 0)
	for _, ap := range appointments {
		if ap.Procedure == selected {
			out = append(out, ap)
		}
	}
	return out
}

// Procedures returns the distinct procedure names, sorted.
func Procedures(appointments []Appointment) []string {
	seen := make(map[string]struct{}, len(appointments))
	out := make([]string, 0)

	for _, ap := range appointments {
		if _, ok := seen[ap.Procedure]; ok {
			continue
		}
		seen[ap.Procedure] = struct{}{}
		out = append(out, ap.Procedure)
	}

	sort.Strings(out)
	return out
}
