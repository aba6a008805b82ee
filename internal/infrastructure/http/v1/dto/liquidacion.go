package dto

import (
	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	"comexa/internal/domain/liquidacion"
)

// RecordLiquidacionRequest attaches a liquidation revision to a
// despacho. Only inputs cross the wire; the amounts always come out of
// the server-side calculation.
type RecordLiquidacionRequest struct {
	ValorAduana decimal.Decimal `json:"valorAduana" binding:"required"`
	Moneda      string          `json:"moneda"`
	TipoCambio  decimal.Decimal `json:"tipoCambio" binding:"required"`

	TasaDerechos     decimal.Decimal `json:"tasaDerechos"`
	TasaEstadistica  decimal.Decimal `json:"tasaEstadistica"`
	TasaIVA          decimal.Decimal `json:"tasaIva"`
	TasaIVAAdicional decimal.Decimal `json:"tasaIvaAdicional"`
	TasaIIBB         decimal.Decimal `json:"tasaIibb"`
	TasaGanancias    decimal.Decimal `json:"tasaGanancias"`
}

// ToCommand converts the request to the service command.
func (r *RecordLiquidacionRequest) ToCommand(despachoID string) (liquidacion.RecordLiquidacion, error) {
	parsed, ok := ParseID(despachoID)
	if !ok {
		return liquidacion.RecordLiquidacion{}, apperror.NewValidation("despacho id is not valid").
			WithDetail("field", "despachoId")
	}

	return liquidacion.RecordLiquidacion{
		DespachoID:  parsed,
		ValorAduana: r.ValorAduana,
		Moneda:      r.Moneda,
		TipoCambio:  r.TipoCambio,
		Rates: liquidacion.Rates{
			DerechosImportacion: r.TasaDerechos,
			TasaEstadistica:     r.TasaEstadistica,
			IVA:                 r.TasaIVA,
			IVAAdicional:        r.TasaIVAAdicional,
			IIBB:                r.TasaIIBB,
			Ganancias:           r.TasaGanancias,
		},
	}, nil
}

// SimularLiquidacionRequest runs the calculator without persisting.
type SimularLiquidacionRequest = RecordLiquidacionRequest
