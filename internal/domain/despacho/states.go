package despacho

import (
	"time"

	"comexa/internal/core/apperror"
)

// Estado is the lifecycle state of a declaration.
type Estado string

const (
	EstadoEnPreparacion Estado = "en_preparacion"
	EstadoPresentado    Estado = "presentado"
	EstadoCanalVerde    Estado = "canal_verde"
	EstadoCanalNaranja  Estado = "canal_naranja"
	EstadoCanalRojo     Estado = "canal_rojo"
	EstadoLiberado      Estado = "liberado"
	EstadoRechazado     Estado = "rechazado"
)

// transiciones is the adjacency table of the declaration lifecycle.
// A transition not present here is illegal, full stop: the service never
// coerces nor ignores a bad target. liberado is terminal.
var transiciones = map[Estado][]Estado{
	EstadoEnPreparacion: {EstadoPresentado},
	EstadoPresentado:    {EstadoCanalVerde, EstadoCanalNaranja, EstadoCanalRojo, EstadoRechazado},
	EstadoCanalVerde:    {EstadoLiberado},
	EstadoCanalNaranja:  {EstadoLiberado, EstadoRechazado},
	EstadoCanalRojo:     {EstadoLiberado, EstadoRechazado},
	EstadoRechazado:     {EstadoEnPreparacion}, // re-open
	EstadoLiberado:      {},
}

// estadosOrden fixes iteration order for the list helpers; map order
// would make query plans and error details nondeterministic.
var estadosOrden = []Estado{
	EstadoEnPreparacion,
	EstadoPresentado,
	EstadoCanalVerde,
	EstadoCanalNaranja,
	EstadoCanalRojo,
	EstadoLiberado,
	EstadoRechazado,
}

// Valid reports whether e is a known estado.
func (e Estado) Valid() bool {
	_, ok := transiciones[e]
	return ok
}

// NonTerminal returns the estados that still have outgoing transitions,
// in lifecycle order. Dashboard aggregates treat these as "en curso";
// deriving the list here keeps them from drifting apart from the
// adjacency table.
func NonTerminal() []Estado {
	out := make([]Estado, 0, len(estadosOrden))
	for _, e := range estadosOrden {
		if !e.EsTerminal() {
			out = append(out, e)
		}
	}
	return out
}

// EsCanal reports whether e is a channel-assignment state.
func (e Estado) EsCanal() bool {
	return e == EstadoCanalVerde || e == EstadoCanalNaranja || e == EstadoCanalRojo
}

// EsTerminal reports whether e has no outgoing transitions.
func (e Estado) EsTerminal() bool {
	return len(transiciones[e]) == 0
}

// Allowed returns the legal targets from e. The slice is a copy.
func (e Estado) Allowed() []Estado {
	next := transiciones[e]
	out := make([]Estado, len(next))
	copy(out, next)
	return out
}

// AllowedStrings returns Allowed as strings, for error details.
func (e Estado) AllowedStrings() []string {
	next := transiciones[e]
	out := make([]string, len(next))
	for i, s := range next {
		out[i] = string(s)
	}
	return out
}

// CanTransition reports whether from -> to is in the adjacency table.
func CanTransition(from, to Estado) bool {
	for _, s := range transiciones[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CommonAllowed computes the intersection of allowed targets across
// several current states. The UI uses it to offer only bulk actions
// that are legal for the whole selection.
func CommonAllowed(estados []Estado) []Estado {
	if len(estados) == 0 {
		return nil
	}
	common := estados[0].Allowed()
	for _, e := range estados[1:] {
		var kept []Estado
		for _, c := range common {
			if CanTransition(e, c) {
				kept = append(kept, c)
			}
		}
		common = kept
		if len(common) == 0 {
			break
		}
	}
	return common
}

// Transition moves d to target, applying the side-effect date stamps.
// hoy must be the caller's local calendar day (see Today); stamping in
// UTC shifts dates by one day for western-hemisphere brokers.
//
// Stamps are append-only: a date is written only while unset. The canal
// date is refreshed on every canal_* entry, so a declaration bounced
// back through rechazado shows its latest channel assignment.
func (d *Despacho) Transition(target Estado, hoy time.Time) error {
	if !target.Valid() {
		return apperror.NewValidation("unknown estado").
			WithDetail("field", "estado").
			WithDetail("value", string(target))
	}
	if !CanTransition(d.Estado, target) {
		return apperror.NewInvalidTransition("despacho", string(d.Estado), string(target), d.Estado.AllowedStrings())
	}

	switch {
	case target == EstadoPresentado:
		if d.FechaPresentacion == nil {
			d.FechaPresentacion = &hoy
		}
	case target.EsCanal():
		// Channel date always reflects the latest assignment.
		d.FechaCanal = &hoy
		if d.FechaOficializacion == nil {
			d.FechaOficializacion = &hoy
		}
	case target == EstadoLiberado:
		if d.FechaLiberacion == nil {
			d.FechaLiberacion = &hoy
		}
	}

	d.Estado = target
	return nil
}

// Today returns the current calendar date in the local time zone,
// truncated to midnight.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
