package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// TripType distinguishes home-to-office (login) from office-to-home (logout) runs
type TripType string

const (
	TripTypeLogin  TripType = "login"
	TripTypeLogout TripType = "logout"
)

// TripStatus is the lifecycle state of a trip
type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// StopStatus is the per-passenger progress state. Transitions are
// strictly forward: not_started -> picked_up -> dropped.
type StopStatus string

const (
	StopNotStarted StopStatus = "not_started"
	StopPickedUp   StopStatus = "picked_up"
	StopDropped    StopStatus = "dropped"
)

var stopStatusRank = map[StopStatus]int{
	StopNotStarted: 0,
	StopPickedUp:   1,
	StopDropped:    2,
}

// CanTransition reports whether a stop status change is legal.
// Reversals and skips (not_started -> dropped) are rejected.
func CanTransition(from, to StopStatus) bool {
	fromRank, ok := stopStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := stopStatusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

// Schedule holds the recurring window a trip runs in
type Schedule struct {
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Days      []string `json:"days"`
}

// StopEntry is one passenger's pickup/drop pair on a trip
type StopEntry struct {
	EmployeeID     string      `json:"employee_id"`
	PickupLocation Coordinates `json:"pickup_location"`
	DropLocation   Coordinates `json:"drop_location"`
	Status         StopStatus  `json:"status"`
}

// Trip is the unified trip model. TripType and OfficeLocation never
// change after creation; Employees entries mutate independently.
type Trip struct {
	ID              string      `json:"id"`
	TripType        TripType    `json:"trip_type"`
	Status          TripStatus  `json:"status"`
	OfficeLocation  Coordinates `json:"office_location"`
	Schedule        Schedule    `json:"schedule"`
	AssignedDriver  string      `json:"assigned_driver"`
	AssignedVehicle string      `json:"assigned_vehicle"`
	Employees       []StopEntry `json:"employees"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TripPG is the PostgreSQL representation of a trip
type TripPG struct {
	ID              string  `gorm:"primaryKey"`
	TripType        string  `gorm:"size:16;not null"`
	Status          string  `gorm:"size:16;not null"`
	OfficeLat       float64 `gorm:"not null"`
	OfficeLng       float64 `gorm:"not null"`
	ScheduleStart   string  `gorm:"size:8"`
	ScheduleEnd     string  `gorm:"size:8"`
	ScheduleDays    string  `gorm:"type:text"`
	AssignedDriver  string  `gorm:"size:64;index"`
	AssignedVehicle string  `gorm:"size:64"`

	Employees []StopEntryPG `gorm:"foreignKey:TripID"`

	UpdatedAt time.Time      `gorm:"column:updated_at"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (TripPG) TableName() string { return "trips" }

// StopEntryPG is the PostgreSQL representation of a passenger stop
type StopEntryPG struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	TripID     string  `gorm:"size:64;index;not null"`
	EmployeeID string  `gorm:"size:64;not null"`
	Position   int     `gorm:"not null"` // passenger list order
	PickupLat  float64 `gorm:"not null"`
	PickupLng  float64 `gorm:"not null"`
	DropLat    float64 `gorm:"not null"`
	DropLng    float64 `gorm:"not null"`
	Status     string  `gorm:"size:16;not null;default:not_started"`

	UpdatedAt time.Time `gorm:"column:updated_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (StopEntryPG) TableName() string { return "trip_employees" }

func splitDays(days string) []string {
	if days == "" {
		return nil
	}
	return strings.Split(days, ",")
}

// JoinDays flattens schedule days for column storage
func JoinDays(days []string) string {
	return strings.Join(days, ",")
}

// FromPG converts a PG trip into the unified model
func FromPG(pg *TripPG) *Trip {
	t := &Trip{
		ID:             pg.ID,
		TripType:       TripType(pg.TripType),
		Status:         TripStatus(pg.Status),
		OfficeLocation: Coordinates{Lat: pg.OfficeLat, Lng: pg.OfficeLng},
		Schedule: Schedule{
			StartTime: pg.ScheduleStart,
			EndTime:   pg.ScheduleEnd,
			Days:      splitDays(pg.ScheduleDays),
		},
		AssignedDriver:  pg.AssignedDriver,
		AssignedVehicle: pg.AssignedVehicle,
		UpdatedAt:       pg.UpdatedAt,
	}
	t.Employees = make([]StopEntry, len(pg.Employees))
	for i, e := range pg.Employees {
		t.Employees[i] = StopEntry{
			EmployeeID:     e.EmployeeID,
			PickupLocation: Coordinates{Lat: e.PickupLat, Lng: e.PickupLng},
			DropLocation:   Coordinates{Lat: e.DropLat, Lng: e.DropLng},
			Status:         StopStatus(e.Status),
		}
	}
	return t
}
