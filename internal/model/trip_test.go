package model

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from StopStatus
		to   StopStatus
		want bool
	}{
		{StopNotStarted, StopPickedUp, true},
		{StopPickedUp, StopDropped, true},
		{StopNotStarted, StopDropped, false}, // no skipping
		{StopPickedUp, StopNotStarted, false},
		{StopDropped, StopPickedUp, false},
		{StopDropped, StopDropped, false},
		{StopNotStarted, StopNotStarted, false},
		{"bogus", StopPickedUp, false},
		{StopNotStarted, "bogus", false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestFromPG(t *testing.T) {
	pg := &TripPG{
		ID:              "trip-7",
		TripType:        "logout",
		Status:          "active",
		OfficeLat:       12.98,
		OfficeLng:       77.60,
		ScheduleStart:   "18:00",
		ScheduleEnd:     "19:30",
		ScheduleDays:    "mon,tue,wed",
		AssignedDriver:  "drv-1",
		AssignedVehicle: "KA01AB1234",
		Employees: []StopEntryPG{
			{EmployeeID: "emp-a", Position: 0, PickupLat: 12.90, PickupLng: 77.55, DropLat: 12.91, DropLng: 77.56, Status: "picked_up"},
			{EmployeeID: "emp-b", Position: 1, PickupLat: 12.92, PickupLng: 77.57, DropLat: 12.93, DropLng: 77.58, Status: "not_started"},
		},
	}

	trip := FromPG(pg)

	if trip.TripType != TripTypeLogout || trip.Status != TripActive {
		t.Errorf("type/status = %s/%s, want logout/active", trip.TripType, trip.Status)
	}
	if trip.OfficeLocation != (Coordinates{Lat: 12.98, Lng: 77.60}) {
		t.Errorf("office = %+v", trip.OfficeLocation)
	}
	if got := trip.Schedule.Days; len(got) != 3 || got[0] != "mon" || got[2] != "wed" {
		t.Errorf("schedule days = %v", got)
	}
	if len(trip.Employees) != 2 {
		t.Fatalf("employees = %d, want 2", len(trip.Employees))
	}
	if trip.Employees[0].Status != StopPickedUp {
		t.Errorf("employee 0 status = %s, want picked_up", trip.Employees[0].Status)
	}
	if trip.Employees[1].DropLocation != (Coordinates{Lat: 12.93, Lng: 77.58}) {
		t.Errorf("employee 1 drop = %+v", trip.Employees[1].DropLocation)
	}
}

func TestJoinDays_RoundTrip(t *testing.T) {
	days := []string{"mon", "wed", "fri"}
	if got := splitDays(JoinDays(days)); len(got) != 3 || got[1] != "wed" {
		t.Errorf("round trip = %v, want %v", got, days)
	}
	if got := splitDays(""); got != nil {
		t.Errorf("splitDays(\"\") = %v, want nil", got)
	}
}

func TestLocationSample_Newer(t *testing.T) {
	base := time.Now()
	older := LocationSample{CapturedAt: base}
	newer := LocationSample{CapturedAt: base.Add(time.Second)}

	if !older.Newer(newer) {
		t.Error("sample captured later not reported newer")
	}
	if newer.Newer(older) {
		t.Error("sample captured earlier reported newer")
	}
	if older.Newer(older) {
		t.Error("equal timestamps reported newer")
	}
}
