package liquidacion

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculate_ReferenceCase(t *testing.T) {
	// 1000 USD at 1000 ARS/USD with the standard general-regime rates.
	got := Calculate(dec("1000"), dec("1000"), Rates{
		DerechosImportacion: dec("10"),
		TasaEstadistica:     dec("3"),
		IVA:                 dec("21"),
		IVAAdicional:        dec("20"),
		IIBB:                dec("2.5"),
		Ganancias:           dec("6"),
	})

	want := map[string]struct {
		got  decimal.Decimal
		want string
	}{
		"BaseLocal":           {got.BaseLocal, "1000000"},
		"DerechosImportacion": {got.DerechosImportacion, "100000"},
		"TasaEstadistica":     {got.TasaEstadistica, "30000"},
		"BaseImponible":       {got.BaseImponible, "1130000"},
		"IVA":                 {got.IVA, "237300"},
		"IVAAdicional":        {got.IVAAdicional, "226000"},
		"IIBB":                {got.IIBB, "28250"},
		"Ganancias":           {got.Ganancias, "67800"},
		"TotalTributos":       {got.TotalTributos, "689350"},
		"TotalLocal":          {got.TotalLocal, "689350"},
	}

	for name, c := range want {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s = %s, want %s", name, c.got, c.want)
		}
	}
}

func TestCalculate_ZeroRates(t *testing.T) {
	got := Calculate(dec("1500.50"), dec("350"), Rates{})

	if !got.BaseLocal.Equal(dec("525175")) {
		t.Errorf("BaseLocal = %s, want 525175", got.BaseLocal)
	}
	for name, amt := range map[string]decimal.Decimal{
		"DerechosImportacion": got.DerechosImportacion,
		"TasaEstadistica":     got.TasaEstadistica,
		"IVA":                 got.IVA,
		"IVAAdicional":        got.IVAAdicional,
		"IIBB":                got.IIBB,
		"Ganancias":           got.Ganancias,
		"TotalTributos":       got.TotalTributos,
		"TotalLocal":          got.TotalLocal,
	} {
		if !amt.IsZero() {
			t.Errorf("%s = %s, want 0", name, amt)
		}
	}
	if !got.BaseImponible.Equal(got.BaseLocal) {
		t.Errorf("BaseImponible = %s, want BaseLocal %s", got.BaseImponible, got.BaseLocal)
	}
}

func TestCalculate_RoundsEachStep(t *testing.T) {
	// 33.33 * 3 = 99.99; 10% of 99.99 = 9.999 → must persist as 10.00,
	// and the cascading base must use the rounded line.
	got := Calculate(dec("33.33"), dec("3"), Rates{
		DerechosImportacion: dec("10"),
		IVA:                 dec("21"),
	})

	if !got.DerechosImportacion.Equal(dec("10")) {
		t.Errorf("DerechosImportacion = %s, want 10.00", got.DerechosImportacion)
	}
	if !got.BaseImponible.Equal(dec("109.99")) {
		t.Errorf("BaseImponible = %s, want 109.99", got.BaseImponible)
	}
	// 21% of 109.99 = 23.0979 → 23.10
	if !got.IVA.Equal(dec("23.10")) {
		t.Errorf("IVA = %s, want 23.10", got.IVA)
	}
	if !got.TotalTributos.Equal(dec("33.10")) {
		t.Errorf("TotalTributos = %s, want 33.10", got.TotalTributos)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	rates := Rates{
		DerechosImportacion: dec("14"),
		TasaEstadistica:     dec("3"),
		IVA:                 dec("10.5"),
		IIBB:                dec("3.5"),
	}
	a := Calculate(dec("7777.77"), dec("1043.25"), rates)
	b := Calculate(dec("7777.77"), dec("1043.25"), rates)

	if !a.TotalTributos.Equal(b.TotalTributos) || !a.BaseImponible.Equal(b.BaseImponible) {
		t.Errorf("Calculate is not deterministic: %v vs %v", a, b)
	}
}

func TestCalculate_TotalIsSumOfLines(t *testing.T) {
	got := Calculate(dec("918.41"), dec("987.65"), Rates{
		DerechosImportacion: dec("12.6"),
		TasaEstadistica:     dec("3"),
		IVA:                 dec("21"),
		IVAAdicional:        dec("20"),
		IIBB:                dec("2.5"),
		Ganancias:           dec("6"),
	})

	sum := got.DerechosImportacion.
		Add(got.TasaEstadistica).
		Add(got.IVA).
		Add(got.IVAAdicional).
		Add(got.IIBB).
		Add(got.Ganancias)

	if !sum.Equal(got.TotalTributos) {
		t.Errorf("sum of lines %s != TotalTributos %s", sum, got.TotalTributos)
	}
}
