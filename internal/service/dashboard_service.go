package service

import (
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Stats are the dashboard counters.
type Stats struct {
	Exercises int64
	Workouts  int64
	Videos    int64
	Users     int64
}

type DashboardService interface {
	// Stats runs every count concurrently. A failed count reads 0 while the others keep
	// their values; the first failure is returned alongside the partial Stats.
	Stats(ctx context.Context) (Stats, error)
}

type dashboardService struct {
	store *repository.Store
}

// NewDashboardService creates a new instance of dashboardService.
func NewDashboardService(store *repository.Store) DashboardService {
	return &dashboardService{store: store}
}

func (s *dashboardService) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	counters := []struct {
		name  string
		count func(context.Context) (int64, error)
		dst   *int64
	}{
		{"exercises", s.store.Exercises.Count, &stats.Exercises},
		{"workouts", s.store.Workouts.Count, &stats.Workouts},
		{"videos", s.store.Videos.Count, &stats.Videos},
		{"profiles", s.store.Profiles.Count, &stats.Users},
	}

	// A plain Group: one failing count must not cancel the others.
	var g errgroup.Group
	for _, c := range counters {
		g.Go(func() error {
			n, err := c.count(ctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", c.name, err)
			}
			*c.dst = n
			return nil
		})
	}
	err := g.Wait()
	return stats, err
}
