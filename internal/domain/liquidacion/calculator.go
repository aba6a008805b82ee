// Package liquidacion provides the duty liquidation calculator and the
// liquidation snapshot entity.
package liquidacion

import (
	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// Rates holds the six percentage rates of an import liquidation.
// Values are percentages (21 means 21%), not fractions.
type Rates struct {
	DerechosImportacion decimal.Decimal // import duty
	TasaEstadistica     decimal.Decimal // statistical tax
	IVA                 decimal.Decimal
	IVAAdicional        decimal.Decimal
	IIBB                decimal.Decimal // gross-receipts tax
	Ganancias           decimal.Decimal // income-tax withholding
}

// Breakdown is the computed liquidation, every amount in local currency
// and already rounded to 2 decimals.
type Breakdown struct {
	BaseLocal decimal.Decimal // customs value converted at the exchange rate

	// BaseImponible is the cascading base: BaseLocal plus import duty
	// plus statistical tax. VAT and the withholdings are computed over
	// it, not over the raw customs value. Customs regimes mandate this
	// order; changing it changes every downstream amount.
	BaseImponible decimal.Decimal

	DerechosImportacion decimal.Decimal
	TasaEstadistica     decimal.Decimal
	IVA                 decimal.Decimal
	IVAAdicional        decimal.Decimal
	IIBB                decimal.Decimal
	Ganancias           decimal.Decimal

	TotalTributos decimal.Decimal
	TotalLocal    decimal.Decimal
}

// Calculate converts a foreign-currency customs value into the cascading
// duty breakdown. Pure and total over its domain: zero rates yield zero
// lines, no error path. The caller validates exchangeRate > 0 and
// non-negative rates before invoking.
//
// Each output is rounded half-up to 2 decimals at the step that
// produces it, not only at the end, so persisted lines always re-add to
// the persisted totals.
func Calculate(valorAduana, tipoCambio decimal.Decimal, rates Rates) Breakdown {
	porcentaje := func(base, rate decimal.Decimal) decimal.Decimal {
		return base.Mul(rate).Div(cien).Round(2)
	}

	baseLocal := valorAduana.Mul(tipoCambio).Round(2)

	derechos := porcentaje(baseLocal, rates.DerechosImportacion)
	estadistica := porcentaje(baseLocal, rates.TasaEstadistica)

	baseImponible := baseLocal.Add(derechos).Add(estadistica)

	iva := porcentaje(baseImponible, rates.IVA)
	ivaAdicional := porcentaje(baseImponible, rates.IVAAdicional)
	iibb := porcentaje(baseImponible, rates.IIBB)
	ganancias := porcentaje(baseImponible, rates.Ganancias)

	total := derechos.Add(estadistica).Add(iva).Add(ivaAdicional).Add(iibb).Add(ganancias)

	return Breakdown{
		BaseLocal:     baseLocal,
		BaseImponible: baseImponible,

		DerechosImportacion: derechos,
		TasaEstadistica:     estadistica,
		IVA:                 iva,
		IVAAdicional:        ivaAdicional,
		IIBB:                iibb,
		Ganancias:           ganancias,

		TotalTributos: total,
		// Duties are entirely local-currency; no further conversion.
		TotalLocal: total,
	}
}
