package sequencer

import (
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// StepType classifies a waypoint in a trip's navigable sequence
type StepType string

const (
	StepPickup       StepType = "pickup"
	StepDrop         StepType = "drop"
	StepOfficePickup StepType = "office_pickup"
	StepOfficeDrop   StepType = "office_drop"
)

// RouteStep is one waypoint of the ordered navigation sequence derived
// from a trip. EmployeeID is empty for the office step.
type RouteStep struct {
	Type       StepType
	Location   model.Coordinates
	EmployeeID string
	Completed  bool
}

// NextStatus returns the stop status this step confirms when reached
func (s RouteStep) NextStatus() model.StopStatus {
	switch s.Type {
	case StepPickup, StepOfficePickup:
		return model.StopPickedUp
	default:
		return model.StopDropped
	}
}

// BuildRouteSteps projects a trip's passengers plus the office stop
// into a single ordered sequence. A login trip picks everyone up and
// ends at the office; a logout trip starts at the office and drops
// everyone off. Exactly one office step exists per trip.
func BuildRouteSteps(trip *model.Trip) []RouteStep {
	steps := make([]RouteStep, 0, len(trip.Employees)+1)

	switch trip.TripType {
	case model.TripTypeLogout:
		// Office first, then one drop per passenger in list order
		steps = append(steps, RouteStep{
			Type:      StepOfficePickup,
			Location:  trip.OfficeLocation,
			Completed: anyBoarded(trip),
		})
		for _, e := range trip.Employees {
			steps = append(steps, RouteStep{
				Type:       StepDrop,
				Location:   e.DropLocation,
				EmployeeID: e.EmployeeID,
				Completed:  e.Status == model.StopDropped,
			})
		}
	default:
		// One pickup per passenger in list order, office last
		for _, e := range trip.Employees {
			steps = append(steps, RouteStep{
				Type:       StepPickup,
				Location:   e.PickupLocation,
				EmployeeID: e.EmployeeID,
				Completed:  e.Status != model.StopNotStarted,
			})
		}
		steps = append(steps, RouteStep{
			Type:      StepOfficeDrop,
			Location:  trip.OfficeLocation,
			Completed: trip.Status == model.TripCompleted,
		})
	}

	return steps
}

// anyBoarded reports whether any passenger has progressed, which on a
// logout trip implies the office stop was already confirmed.
func anyBoarded(trip *model.Trip) bool {
	for _, e := range trip.Employees {
		if e.Status != model.StopNotStarted {
			return true
		}
	}
	return false
}

// firstIncomplete returns the index of the current target step, or -1
// when every step is complete.
func firstIncomplete(steps []RouteStep) int {
	for i, s := range steps {
		if !s.Completed {
			return i
		}
	}
	return -1
}
