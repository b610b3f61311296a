package timezone

import (
	"strings"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

// layouts aceitos para carimbos de data vindos da API, em ordem de tentativa
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	// sem tzdata no ambiente: horário de Brasília fixo
	return time.FixedZone("BRT", -3*60*60)
}

// Parse lê um carimbo ISO-like. Sem offset explícito, o horário é
// interpretado no fuso informado.
func Parse(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}
