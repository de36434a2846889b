package directions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

type fakeRouter struct {
	calls int
	route Route
	err   error
}

func (f *fakeRouter) Route(ctx context.Context, origin, destination model.Coordinates) (Route, error) {
	f.calls++
	if f.err != nil {
		return Route{}, f.err
	}
	return f.route, nil
}

func TestRefresher_ThrottlesWithinInterval(t *testing.T) {
	router := &fakeRouter{route: Route{DistanceText: "4.2 km", DistanceMeters: 4200}}
	refresher := NewRefresher(router, 30*time.Second)

	now := time.Now()
	refresher.clock = func() time.Time { return now }

	origin := model.Coordinates{Lat: 12.90, Lng: 77.55}
	dest := model.Coordinates{Lat: 12.98, Lng: 77.60}
	ctx := context.Background()

	route, refreshed, err := refresher.Refresh(ctx, origin, dest)
	if err != nil || !refreshed {
		t.Fatalf("first refresh: refreshed=%v err=%v", refreshed, err)
	}
	if route.DistanceText != "4.2 km" {
		t.Errorf("route = %+v", route)
	}

	// Within the interval the cached route comes back without a call,
	// even as the origin moves
	now = now.Add(10 * time.Second)
	origin.Lat += 0.01
	route, refreshed, err = refresher.Refresh(ctx, origin, dest)
	if err != nil || refreshed {
		t.Fatalf("throttled refresh: refreshed=%v err=%v", refreshed, err)
	}
	if router.calls != 1 {
		t.Errorf("provider calls = %d, want 1", router.calls)
	}

	// Past the interval it recalculates
	now = now.Add(21 * time.Second)
	_, refreshed, err = refresher.Refresh(ctx, origin, dest)
	if err != nil || !refreshed {
		t.Fatalf("post-interval refresh: refreshed=%v err=%v", refreshed, err)
	}
	if router.calls != 2 {
		t.Errorf("provider calls = %d, want 2", router.calls)
	}
}

func TestRefresher_FailureRetainsPreviousRoute(t *testing.T) {
	router := &fakeRouter{route: Route{DistanceText: "4.2 km"}}
	refresher := NewRefresher(router, time.Second)

	now := time.Now()
	refresher.clock = func() time.Time { return now }

	origin := model.Coordinates{Lat: 12.90, Lng: 77.55}
	dest := model.Coordinates{Lat: 12.98, Lng: 77.60}
	ctx := context.Background()

	if _, _, err := refresher.Refresh(ctx, origin, dest); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	router.err = errors.New("provider quota exceeded")
	now = now.Add(2 * time.Second)

	route, refreshed, err := refresher.Refresh(ctx, origin, dest)
	if err == nil {
		t.Fatal("expected provider error")
	}
	if refreshed {
		t.Error("failed refresh reported as refreshed")
	}
	if route.DistanceText != "4.2 km" {
		t.Errorf("previous route lost on failure: %+v", route)
	}

	current, ok := refresher.Current()
	if !ok || current.DistanceText != "4.2 km" {
		t.Errorf("Current after failure = %+v/%v", current, ok)
	}
}

func TestRefresher_FirstCallFailure(t *testing.T) {
	router := &fakeRouter{err: errors.New("unreachable")}
	refresher := NewRefresher(router, time.Second)

	route, refreshed, err := refresher.Refresh(context.Background(),
		model.Coordinates{Lat: 12.90, Lng: 77.55}, model.Coordinates{Lat: 12.98, Lng: 77.60})
	if err == nil || refreshed {
		t.Fatalf("refreshed=%v err=%v, want failure", refreshed, err)
	}
	if route.Path != nil || route.DistanceMeters != 0 {
		t.Errorf("route = %+v, want zero value with no prior route", route)
	}
	if _, ok := refresher.Current(); ok {
		t.Error("Current reports a route after only a failed fetch")
	}
}

func TestRefresher_ResetForcesRecalculation(t *testing.T) {
	router := &fakeRouter{route: Route{DistanceText: "4.2 km"}}
	refresher := NewRefresher(router, time.Hour)

	now := time.Now()
	refresher.clock = func() time.Time { return now }

	origin := model.Coordinates{Lat: 12.90, Lng: 77.55}
	dest := model.Coordinates{Lat: 12.98, Lng: 77.60}
	ctx := context.Background()

	refresher.Refresh(ctx, origin, dest)
	refresher.Reset()

	_, refreshed, err := refresher.Refresh(ctx, origin, dest)
	if err != nil || !refreshed {
		t.Fatalf("refresh after reset: refreshed=%v err=%v", refreshed, err)
	}
	if router.calls != 2 {
		t.Errorf("provider calls = %d, want 2", router.calls)
	}
}
