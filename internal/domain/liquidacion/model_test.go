package liquidacion

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"comexa/internal/core/entity"
	"comexa/internal/core/id"
)

func TestCanTransitionLinear(t *testing.T) {
	tests := []struct {
		from Estado
		to   Estado
		want bool
	}{
		{EstadoBorrador, EstadoConfirmado, true},
		{EstadoConfirmado, EstadoPagado, true},

		{EstadoBorrador, EstadoPagado, false},     // skip
		{EstadoConfirmado, EstadoBorrador, false}, // regression
		{EstadoPagado, EstadoConfirmado, false},
		{EstadoPagado, EstadoBorrador, false},
		{EstadoBorrador, EstadoBorrador, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidateRejectsBadInputs(t *testing.T) {
	ctx := context.Background()
	base := func() *Liquidacion {
		return &Liquidacion{
			BaseRecord:  entity.NewBaseRecord(),
			DespachoID:  id.MustParse("0195a000-0000-7000-8000-000000000030"),
			ValorAduana: decimal.NewFromInt(1000),
			TipoCambio:  decimal.NewFromInt(1000),
		}
	}

	if err := base().Validate(ctx); err != nil {
		t.Fatalf("valid liquidacion rejected: %v", err)
	}

	l := base()
	l.TipoCambio = decimal.Zero
	if err := l.Validate(ctx); err == nil {
		t.Error("zero tipo de cambio must fail")
	}

	l = base()
	l.TipoCambio = decimal.NewFromInt(-1)
	if err := l.Validate(ctx); err == nil {
		t.Error("negative tipo de cambio must fail")
	}

	l = base()
	l.TasaIVA = decimal.NewFromInt(1001)
	if err := l.Validate(ctx); err == nil {
		t.Error("rate above 1000 must fail")
	}

	l = base()
	l.TasaDerechos = decimal.NewFromInt(-5)
	if err := l.Validate(ctx); err == nil {
		t.Error("negative rate must fail")
	}

	l = base()
	l.DespachoID = id.Nil()
	if err := l.Validate(ctx); err == nil {
		t.Error("nil despacho must fail")
	}
}
