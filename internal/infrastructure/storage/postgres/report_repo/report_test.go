package report_repo

import (
	"testing"

	"comexa/internal/domain/despacho"
)

// The en-curso count and the FOB sum both filter on estadosEnCurso;
// a state missing from the list silently drops its rows from the
// dashboard.
func TestEstadosEnCursoCoversEveryNonTerminalEstado(t *testing.T) {
	enCurso := make(map[despacho.Estado]bool)
	for _, e := range estadosEnCurso {
		enCurso[e] = true
	}

	todos := []despacho.Estado{
		despacho.EstadoEnPreparacion,
		despacho.EstadoPresentado,
		despacho.EstadoCanalVerde,
		despacho.EstadoCanalNaranja,
		despacho.EstadoCanalRojo,
		despacho.EstadoLiberado,
		despacho.EstadoRechazado,
	}
	for _, e := range todos {
		switch {
		case !e.EsTerminal() && !enCurso[e]:
			t.Errorf("non-terminal estado %q missing from estadosEnCurso", e)
		case e.EsTerminal() && enCurso[e]:
			t.Errorf("terminal estado %q must not appear in estadosEnCurso", e)
		}
	}
}
