package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service computes dashboard aggregates.
type Service struct {
	repo Repository
}

// NewService creates a reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Dashboard fetches the four aggregates concurrently. The queries are
// independent reads, so they share no transaction.
func (s *Service) Dashboard(ctx context.Context, filter DashboardFilter) (*Dashboard, error) {
	desde, hasta := currentMonth(time.Now())

	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountEnCurso(ctx, filter)
		d.EnCurso = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountEsperandoCanal(ctx, filter)
		d.EsperandoCanal = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountLiberadosEntre(ctx, filter, desde, hasta)
		d.LiberadosMes = n
		return err
	})
	g.Go(func() error {
		sum, err := s.repo.SumFOBEnCurso(ctx, filter)
		d.ValorFOBEnCurso = sum
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// currentMonth returns [first day, first day of next month) in the
// local calendar.
func currentMonth(now time.Time) (time.Time, time.Time) {
	desde := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return desde, desde.AddDate(0, 1, 0)
}
