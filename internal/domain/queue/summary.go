package queue

import "sort"

// Summarize counts appointments per procedure, highest count first.
// Ties keep the order in which the procedure first appeared.
func Summarize(appointments []Appointment) []ProcedureSummary {
	index := make(map[string]int)
	out := make([]ProcedureSummary, 0)

	for _, ap := range appointments {
		i, ok := index[ap.Procedure]
		if !ok {
			index[ap.Procedure] = len(out)
			out = append(out, ProcedureSummary{Procedure: ap.Procedure})
			i = len(out) - 1
		}
		out[i].Count++
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Count > out[b].Count
	})

	return out
}

func Total(summary []ProcedureSummary) int {
	total := 0
	for _, s := range summary {
		total += s.Count
	}
	return total
}

// Share is the entry's percentage of total, used for the bar width.
func Share(entry ProcedureSummary, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(entry.Count) * 100 / float64(total)
}
