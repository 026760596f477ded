// Package goals computes half-year treatment goal progress: how many
// completed procedures of each category happened in the current period
// against a fixed target.
package goals

import (
	"math"
	"time"

	"github.com/clinicasonrisa/dashboard-api/internal/appointments"
)

// Targets per category for one half-year. Hardcoded by the office; no
// configuration override exists.
var targets = map[appointments.TreatmentType]int{
	appointments.TypeProfilaxis:     50,
	appointments.TypeRestauracion:   30,
	appointments.TypeCorona:         15,
	appointments.TypePuente:         10,
	appointments.TypeBlanqueamiento: 25,
	appointments.TypeEndodoncia:     20,
	appointments.TypePPR:            8,
	appointments.TypeOtro:           15,
}

// TargetFor returns the half-year target for a category.
func TargetFor(tipo appointments.TreatmentType) int {
	return targets[tipo]
}

// PeriodStart returns the start of the current half-year period:
// January 1 when now falls in the first half of the year, July 1
// otherwise.
func PeriodStart(now time.Time) time.Time {
	month := time.January
	if now.Month() >= time.July {
		month = time.July
	}
	return time.Date(now.Year(), month, 1, 0, 0, 0, 0, now.Location())
}

// PeriodLabel is a stable identifier for the current period, e.g.
// "2024-H1". Used as the cache key suffix.
func PeriodLabel(now time.Time) string {
	half := "H1"
	if now.Month() >= time.July {
		half = "H2"
	}
	return now.Format("2006") + "-" + half
}

// Goal is the derived progress of one category. Never persisted.
type Goal struct {
	Tipo         appointments.TreatmentType `json:"tipo"`
	MetaCantidad int                        `json:"metaCantidad"`
	Completados  int                        `json:"completados"`
	Porcentaje   int                        `json:"porcentaje"`
	Cumplida     bool                       `json:"cumplida"`
}

// Compute builds the goal list from per-category completed counts. All
// eight categories appear, zero-count ones included, in declaration
// order. Percentages are unclamped: exceeding a target reports > 100.
func Compute(counts map[appointments.TreatmentType]int) []Goal {
	out := make([]Goal, 0, len(targets))
	for _, tipo := range appointments.TreatmentTypes() {
		target := targets[tipo]
		count := counts[tipo]
		pct := int(math.Round(float64(count) / float64(target) * 100))
		out = append(out, Goal{
			Tipo:         tipo,
			MetaCantidad: target,
			Completados:  count,
			Porcentaje:   pct,
			Cumplida:     pct >= 100,
		})
	}
	return out
}
