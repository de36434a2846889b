package tracker

import (
	"context"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/geo"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// SimulatedSource walks a polyline at a fixed speed, emitting a sample
// per tick. It backs the driver simulator and tests.
type SimulatedSource struct {
	Path     []model.Coordinates
	SpeedMps float64
	Interval time.Duration
	Accuracy float64
}

func NewSimulatedSource(path []model.Coordinates, speedMps float64, interval time.Duration) *SimulatedSource {
	return &SimulatedSource{
		Path:     path,
		SpeedMps: speedMps,
		Interval: interval,
		Accuracy: 5,
	}
}

func (s *SimulatedSource) Watch(ctx context.Context, opts Options) (<-chan Reading, error) {
	if len(s.Path) == 0 {
		return nil, ErrPositionUnavailable
	}

	out := make(chan Reading)
	go func() {
		defer close(out)

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		position := s.Path[0]
		segment := 1
		stepMeters := s.SpeedMps * s.Interval.Seconds()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			bearing := 0.0
			speed := 0.0
			if segment < len(s.Path) {
				next := s.Path[segment]
				bearing = geo.Bearing(position, next)
				moved := geo.MoveToward(position, next, stepMeters)
				if moved == next {
					segment++
				}
				position = moved
				speed = s.SpeedMps
			}

			reading := Reading{Sample: model.LocationSample{
				Coordinates: position,
				SpeedMps:    speed,
				BearingDeg:  bearing,
				AccuracyM:   s.Accuracy,
				CapturedAt:  time.Now(),
			}}

			select {
			case out <- reading:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *SimulatedSource) Current(ctx context.Context, opts Options) (model.LocationSample, error) {
	if len(s.Path) == 0 {
		return model.LocationSample{}, ErrPositionUnavailable
	}
	return model.LocationSample{
		Coordinates: s.Path[0],
		AccuracyM:   s.Accuracy,
		CapturedAt:  time.Now(),
	}, nil
}
