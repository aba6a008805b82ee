package carga

import (
	"context"
	"testing"
	"time"

	"comexa/internal/core/apperror"
	"comexa/internal/core/id"
)

var testDespachoID = id.MustParse("0195a000-0000-7000-8000-000000000010")

func TestEstadoNext(t *testing.T) {
	chain := []Estado{
		EstadoEnOrigen,
		EstadoEnTransito,
		EstadoEnPuerto,
		EstadoDepositoFiscal,
		EstadoEnVerificacion,
		EstadoLiberado,
	}

	for i := 0; i < len(chain)-1; i++ {
		next, ok := chain[i].Next()
		if !ok || next != chain[i+1] {
			t.Errorf("Next(%s) = %s/%v, want %s", chain[i], next, ok, chain[i+1])
		}
	}

	if _, ok := EstadoLiberado.Next(); ok {
		t.Error("liberado must have no successor")
	}
}

func TestCanTransitionRejectsSkipsAndRegressions(t *testing.T) {
	tests := []struct {
		from Estado
		to   Estado
	}{
		{EstadoEnOrigen, EstadoEnPuerto},           // skip
		{EstadoEnOrigen, EstadoLiberado},           // skip to end
		{EstadoEnPuerto, EstadoEnTransito},         // regression
		{EstadoLiberado, EstadoEnVerificacion},     // from terminal
		{EstadoDepositoFiscal, EstadoDepositoFiscal}, // self loop
	}
	for _, tt := range tests {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tt.from, tt.to)
		}
	}
}

func TestTransitionStampsOnce(t *testing.T) {
	c := New(testDespachoID, ModoMaritimo)
	dia := func(n int) time.Time {
		return time.Date(2025, 4, n, 0, 0, 0, 0, time.Local)
	}

	steps := []struct {
		target Estado
		hoy    time.Time
	}{
		{EstadoEnTransito, dia(1)},
		{EstadoEnPuerto, dia(5)},
		{EstadoDepositoFiscal, dia(6)},
		{EstadoEnVerificacion, dia(8)},
		{EstadoLiberado, dia(9)},
	}
	for _, step := range steps {
		if err := c.Transition(step.target, step.hoy); err != nil {
			t.Fatalf("transition to %s: %v", step.target, err)
		}
	}

	if c.FechaArriboReal == nil || !c.FechaArriboReal.Equal(dia(5)) {
		t.Errorf("fecha_arribo_real = %v, want %v", c.FechaArriboReal, dia(5))
	}
	if c.FechaIngresoDeposito == nil || !c.FechaIngresoDeposito.Equal(dia(6)) {
		t.Errorf("fecha_ingreso_deposito = %v, want %v", c.FechaIngresoDeposito, dia(6))
	}
	if c.FechaLiberacion == nil || !c.FechaLiberacion.Equal(dia(9)) {
		t.Errorf("fecha_liberacion = %v, want %v", c.FechaLiberacion, dia(9))
	}
}

func TestTransitionIllegalKeepsState(t *testing.T) {
	c := New(testDespachoID, ModoAereo)

	err := c.Transition(EstadoLiberado, time.Now())
	if !apperror.IsInvalidTransition(err) {
		t.Fatalf("err = %v, want INVALID_TRANSITION", err)
	}
	if c.Estado != EstadoEnOrigen {
		t.Errorf("estado = %s, must stay en_origen", c.Estado)
	}
	if c.FechaLiberacion != nil {
		t.Error("rejected transition must not stamp dates")
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	c := New(testDespachoID, Modo("fluvial"))
	if err := c.Validate(ctx); err == nil {
		t.Error("unknown modo must fail validation")
	}

	c = New(id.Nil(), ModoTerrestre)
	if err := c.Validate(ctx); err == nil {
		t.Error("nil despacho must fail validation")
	}
}
