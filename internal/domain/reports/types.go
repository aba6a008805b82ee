// Package reports provides the operational dashboard aggregates.
package reports

import (
	"github.com/shopspring/decimal"

	"comexa/internal/core/id"
)

// DashboardFilter scopes the dashboard to one broker's portfolio.
type DashboardFilter struct {
	DespachanteID *id.ID
}

// Dashboard holds the derived counters shown on the main screen.
// Recomputed per call, never cached: every read reflects the store at
// call time.
type Dashboard struct {
	// EnCurso counts declarations in a non-terminal state.
	EnCurso int64 `json:"enCurso"`

	// EsperandoCanal counts declarations presented and awaiting a
	// channel assignment.
	EsperandoCanal int64 `json:"esperandoCanal"`

	// LiberadosMes counts declarations released in the current
	// calendar month.
	LiberadosMes int64 `json:"liberadosMes"`

	// ValorFOBEnCurso sums the FOB value across non-terminal
	// declarations.
	ValorFOBEnCurso decimal.Decimal `json:"valorFobEnCurso"`
}
