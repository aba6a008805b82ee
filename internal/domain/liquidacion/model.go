package liquidacion

import (
	"context"

	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	"comexa/internal/core/entity"
	"comexa/internal/core/id"
)

// Estado is the linear approval state of a liquidation. No regression.
type Estado string

const (
	EstadoBorrador   Estado = "borrador"
	EstadoConfirmado Estado = "confirmado"
	EstadoPagado     Estado = "pagado"
)

// siguiente is the single allowed successor per state (pagado is terminal).
var siguiente = map[Estado]Estado{
	EstadoBorrador:   EstadoConfirmado,
	EstadoConfirmado: EstadoPagado,
}

// CanTransition reports whether from -> to is the legal linear step.
func CanTransition(from, to Estado) bool {
	return siguiente[from] == to
}

// Liquidacion is one duty computation snapshot attached to a despacho.
// Inputs are persisted verbatim; outputs are derived once at creation
// and never recomputed implicitly. Immutable except for Estado, so a
// revision means a new row, not an update.
type Liquidacion struct {
	entity.BaseRecord

	DespachoID id.ID  `db:"despacho_id" json:"despachoId"`
	Estado     Estado `db:"estado" json:"estado"`

	// Inputs
	ValorAduana decimal.Decimal `db:"valor_aduana" json:"valorAduana"`
	Moneda      string          `db:"moneda" json:"moneda"`
	TipoCambio  decimal.Decimal `db:"tipo_cambio" json:"tipoCambio"`

	TasaDerechos     decimal.Decimal `db:"tasa_derechos" json:"tasaDerechos"`
	TasaEstadistica  decimal.Decimal `db:"tasa_estadistica" json:"tasaEstadistica"`
	TasaIVA          decimal.Decimal `db:"tasa_iva" json:"tasaIva"`
	TasaIVAAdicional decimal.Decimal `db:"tasa_iva_adicional" json:"tasaIvaAdicional"`
	TasaIIBB         decimal.Decimal `db:"tasa_iibb" json:"tasaIibb"`
	TasaGanancias    decimal.Decimal `db:"tasa_ganancias" json:"tasaGanancias"`

	// Outputs (local currency, rounded to 2 decimals)
	BaseLocal           decimal.Decimal `db:"base_local" json:"baseLocal"`
	BaseImponible       decimal.Decimal `db:"base_imponible" json:"baseImponible"`
	ImporteDerechos     decimal.Decimal `db:"importe_derechos" json:"importeDerechos"`
	ImporteEstadistica  decimal.Decimal `db:"importe_estadistica" json:"importeEstadistica"`
	ImporteIVA          decimal.Decimal `db:"importe_iva" json:"importeIva"`
	ImporteIVAAdicional decimal.Decimal `db:"importe_iva_adicional" json:"importeIvaAdicional"`
	ImporteIIBB         decimal.Decimal `db:"importe_iibb" json:"importeIibb"`
	ImporteGanancias    decimal.Decimal `db:"importe_ganancias" json:"importeGanancias"`
	TotalTributos       decimal.Decimal `db:"total_tributos" json:"totalTributos"`
	TotalLocal          decimal.Decimal `db:"total_local" json:"totalLocal"`
}

// Rates bundles the persisted input rates.
func (l *Liquidacion) Rates() Rates {
	return Rates{
		DerechosImportacion: l.TasaDerechos,
		TasaEstadistica:     l.TasaEstadistica,
		IVA:                 l.TasaIVA,
		IVAAdicional:        l.TasaIVAAdicional,
		IIBB:                l.TasaIIBB,
		Ganancias:           l.TasaGanancias,
	}
}

// ApplyBreakdown copies the derived amounts onto the row.
func (l *Liquidacion) ApplyBreakdown(b Breakdown) {
	l.BaseLocal = b.BaseLocal
	l.BaseImponible = b.BaseImponible
	l.ImporteDerechos = b.DerechosImportacion
	l.ImporteEstadistica = b.TasaEstadistica
	l.ImporteIVA = b.IVA
	l.ImporteIVAAdicional = b.IVAAdicional
	l.ImporteIIBB = b.IIBB
	l.ImporteGanancias = b.Ganancias
	l.TotalTributos = b.TotalTributos
	l.TotalLocal = b.TotalLocal
}

// maxTasa rejects fat-fingered rates. 1000% is already absurd for any
// customs regime; anything above is a typo, not a tax.
var maxTasa = decimal.NewFromInt(1000)

// Validate implements entity.Validatable.
func (l *Liquidacion) Validate(ctx context.Context) error {
	if id.IsNil(l.DespachoID) {
		return apperror.NewValidation("despacho is required").
			WithDetail("field", "despachoId")
	}
	if l.ValorAduana.IsNegative() {
		return apperror.NewValidation("valor en aduana cannot be negative").
			WithDetail("field", "valorAduana")
	}
	if !l.TipoCambio.IsPositive() {
		return apperror.NewValidation("tipo de cambio must be positive").
			WithDetail("field", "tipoCambio")
	}
	for field, tasa := range map[string]decimal.Decimal{
		"tasaDerechos":     l.TasaDerechos,
		"tasaEstadistica":  l.TasaEstadistica,
		"tasaIva":          l.TasaIVA,
		"tasaIvaAdicional": l.TasaIVAAdicional,
		"tasaIibb":         l.TasaIIBB,
		"tasaGanancias":    l.TasaGanancias,
	} {
		if tasa.IsNegative() || tasa.GreaterThan(maxTasa) {
			return apperror.NewValidation("tax rate out of range").
				WithDetail("field", field).
				WithDetail("value", tasa.String())
		}
	}
	return nil
}
