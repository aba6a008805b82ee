package documento

import (
	"testing"
	"time"

	"comexa/internal/core/id"
)

var testDespachoID = id.MustParse("0195a000-0000-7000-8000-000000000020")

func TestNextCycles(t *testing.T) {
	tests := []struct {
		from Estado
		want Estado
	}{
		{EstadoPendiente, EstadoCargado},
		{EstadoCargado, EstadoAprobado},
		{EstadoAprobado, EstadoRechazado},
		{EstadoRechazado, EstadoPendiente}, // wrap
		{Estado(""), EstadoCargado},        // unknown behaves as pendiente
		{Estado("revisado"), EstadoCargado},
	}
	for _, tt := range tests {
		if got := Next(tt.from); got != tt.want {
			t.Errorf("Next(%q) = %s, want %s", tt.from, got, tt.want)
		}
	}
}

func TestNextFullCycleReturnsToStart(t *testing.T) {
	e := EstadoPendiente
	for i := 0; i < 4; i++ {
		e = Next(e)
	}
	if e != EstadoPendiente {
		t.Errorf("four clicks end at %s, want pendiente", e)
	}
}

func TestAdvanceStampsFechaCargaOnce(t *testing.T) {
	d := New(testDespachoID, "Factura comercial", true)
	dia1 := time.Date(2025, 5, 2, 0, 0, 0, 0, time.Local)
	dia2 := dia1.AddDate(0, 0, 10)

	d.Advance(dia1) // pendiente -> cargado
	if d.FechaCarga == nil || !d.FechaCarga.Equal(dia1) {
		t.Fatalf("fecha_carga = %v, want %v", d.FechaCarga, dia1)
	}

	d.Advance(dia2) // -> aprobado
	d.Advance(dia2) // -> rechazado
	d.Advance(dia2) // -> pendiente
	d.Advance(dia2) // -> cargado again

	if !d.FechaCarga.Equal(dia1) {
		t.Errorf("fecha_carga = %v, first stamp %v must survive the cycle", d.FechaCarga, dia1)
	}
	if d.Estado != EstadoCargado {
		t.Errorf("estado = %s, want cargado", d.Estado)
	}
}
