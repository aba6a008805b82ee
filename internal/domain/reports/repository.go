package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository runs the filtered counts and sums behind the dashboard.
type Repository interface {
	CountEnCurso(ctx context.Context, filter DashboardFilter) (int64, error)
	CountEsperandoCanal(ctx context.Context, filter DashboardFilter) (int64, error)
	CountLiberadosEntre(ctx context.Context, filter DashboardFilter, desde, hasta time.Time) (int64, error)
	SumFOBEnCurso(ctx context.Context, filter DashboardFilter) (decimal.Decimal, error)
}
