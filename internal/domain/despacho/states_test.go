package despacho

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Estado
		to   Estado
		want bool
	}{
		{EstadoEnPreparacion, EstadoPresentado, true},
		{EstadoEnPreparacion, EstadoCanalVerde, false},
		{EstadoEnPreparacion, EstadoLiberado, false},

		{EstadoPresentado, EstadoCanalVerde, true},
		{EstadoPresentado, EstadoCanalNaranja, true},
		{EstadoPresentado, EstadoCanalRojo, true},
		{EstadoPresentado, EstadoRechazado, true},
		{EstadoPresentado, EstadoLiberado, false},
		{EstadoPresentado, EstadoEnPreparacion, false},

		{EstadoCanalVerde, EstadoLiberado, true},
		{EstadoCanalVerde, EstadoRechazado, false},
		{EstadoCanalNaranja, EstadoLiberado, true},
		{EstadoCanalNaranja, EstadoRechazado, true},
		{EstadoCanalRojo, EstadoLiberado, true},
		{EstadoCanalRojo, EstadoRechazado, true},
		{EstadoCanalRojo, EstadoCanalVerde, false},

		// rechazado reopens, nothing else
		{EstadoRechazado, EstadoEnPreparacion, true},
		{EstadoRechazado, EstadoPresentado, false},

		// liberado is terminal
		{EstadoLiberado, EstadoEnPreparacion, false},
		{EstadoLiberado, EstadoRechazado, false},
		{EstadoLiberado, EstadoLiberado, false},

		// self loops are never legal
		{EstadoPresentado, EstadoPresentado, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEstadoEsTerminal(t *testing.T) {
	if !EstadoLiberado.EsTerminal() {
		t.Error("liberado must be terminal")
	}
	for _, e := range []Estado{EstadoEnPreparacion, EstadoPresentado, EstadoCanalVerde, EstadoCanalNaranja, EstadoCanalRojo, EstadoRechazado} {
		if e.EsTerminal() {
			t.Errorf("%s must not be terminal", e)
		}
	}
}

func TestNonTerminalMatchesAdjacency(t *testing.T) {
	nonTerminal := make(map[Estado]bool)
	for _, e := range NonTerminal() {
		nonTerminal[e] = true
	}
	for _, e := range estadosOrden {
		if nonTerminal[e] == e.EsTerminal() {
			t.Errorf("NonTerminal() disagrees with EsTerminal() for %s", e)
		}
	}
	if !nonTerminal[EstadoRechazado] {
		t.Error("rechazado reopens and must count as non-terminal")
	}
	if nonTerminal[EstadoLiberado] {
		t.Error("liberado must not count as non-terminal")
	}
}

func TestCommonAllowed(t *testing.T) {
	common := CommonAllowed([]Estado{EstadoCanalNaranja, EstadoCanalRojo})
	want := map[Estado]bool{EstadoLiberado: true, EstadoRechazado: true}
	if len(common) != len(want) {
		t.Fatalf("CommonAllowed = %v, want liberado+rechazado", common)
	}
	for _, e := range common {
		if !want[e] {
			t.Errorf("unexpected common target %s", e)
		}
	}

	if got := CommonAllowed([]Estado{EstadoCanalVerde, EstadoPresentado}); len(got) != 0 {
		t.Errorf("CommonAllowed(verde, presentado) = %v, want empty", got)
	}
	if got := CommonAllowed(nil); got != nil {
		t.Errorf("CommonAllowed(nil) = %v, want nil", got)
	}
}

func newTestDespacho() *Despacho {
	return New(TipoImportacion, testDespachanteID, testClienteID)
}

func TestTransitionStampsDates(t *testing.T) {
	hoy := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	d := newTestDespacho()

	if err := d.Transition(EstadoPresentado, hoy); err != nil {
		t.Fatalf("to presentado: %v", err)
	}
	if d.FechaPresentacion == nil || !d.FechaPresentacion.Equal(hoy) {
		t.Fatalf("fecha_presentacion = %v, want %v", d.FechaPresentacion, hoy)
	}
	if d.FechaCanal != nil || d.FechaLiberacion != nil || d.FechaOficializacion != nil {
		t.Fatal("presentado must not stamp canal/oficializacion/liberacion")
	}

	dia2 := hoy.AddDate(0, 0, 1)
	if err := d.Transition(EstadoCanalRojo, dia2); err != nil {
		t.Fatalf("to canal_rojo: %v", err)
	}
	if d.FechaCanal == nil || !d.FechaCanal.Equal(dia2) {
		t.Fatalf("fecha_canal = %v, want %v", d.FechaCanal, dia2)
	}
	if d.FechaOficializacion == nil || !d.FechaOficializacion.Equal(dia2) {
		t.Fatalf("fecha_oficializacion = %v, want %v", d.FechaOficializacion, dia2)
	}

	dia3 := hoy.AddDate(0, 0, 2)
	if err := d.Transition(EstadoLiberado, dia3); err != nil {
		t.Fatalf("to liberado: %v", err)
	}
	if d.FechaLiberacion == nil || !d.FechaLiberacion.Equal(dia3) {
		t.Fatalf("fecha_liberacion = %v, want %v", d.FechaLiberacion, dia3)
	}
}

func TestTransitionReopenKeepsStamps(t *testing.T) {
	dia1 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	dia2 := dia1.AddDate(0, 0, 1)
	dia3 := dia1.AddDate(0, 0, 5)
	dia4 := dia1.AddDate(0, 0, 7)

	d := newTestDespacho()
	mustTransition(t, d, EstadoPresentado, dia1)
	mustTransition(t, d, EstadoCanalNaranja, dia2)
	mustTransition(t, d, EstadoRechazado, dia2)
	mustTransition(t, d, EstadoEnPreparacion, dia3)
	mustTransition(t, d, EstadoPresentado, dia3)
	mustTransition(t, d, EstadoCanalVerde, dia4)

	// First presentation and oficializacion survive the reopen.
	if !d.FechaPresentacion.Equal(dia1) {
		t.Errorf("fecha_presentacion = %v, want first stamp %v", d.FechaPresentacion, dia1)
	}
	if !d.FechaOficializacion.Equal(dia2) {
		t.Errorf("fecha_oficializacion = %v, want first stamp %v", d.FechaOficializacion, dia2)
	}
	// Canal date refreshes on every canal entry.
	if !d.FechaCanal.Equal(dia4) {
		t.Errorf("fecha_canal = %v, want latest stamp %v", d.FechaCanal, dia4)
	}
}

func TestTransitionRejectsIllegal(t *testing.T) {
	d := newTestDespacho()
	hoy := Today()

	if err := d.Transition(EstadoLiberado, hoy); err == nil {
		t.Fatal("en_preparacion -> liberado must fail")
	}
	if d.Estado != EstadoEnPreparacion {
		t.Errorf("state changed on rejected transition: %s", d.Estado)
	}
	if d.FechaLiberacion != nil {
		t.Error("rejected transition must not stamp dates")
	}

	if err := d.Transition(Estado("despachado"), hoy); err == nil {
		t.Fatal("unknown estado must fail")
	}
}

func mustTransition(t *testing.T, d *Despacho, target Estado, hoy time.Time) {
	t.Helper()
	if err := d.Transition(target, hoy); err != nil {
		t.Fatalf("transition %s -> %s: %v", d.Estado, target, err)
	}
}
