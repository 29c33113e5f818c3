package domain

import "time"

// DamageSeverity represents how badly a vehicle is damaged
type DamageSeverity string

const (
	SeverityMinor    DamageSeverity = "minor"
	SeverityModerate DamageSeverity = "moderate"
	SeveritySevere   DamageSeverity = "severe"
)

// DamageStatus represents the repair progress of a damage report
type DamageStatus string

const (
	DamageReported DamageStatus = "reported"
	DamageInRepair DamageStatus = "in_repair"
	DamageRepaired DamageStatus = "repaired"
)

// damageOrder ranks statuses; damage only moves forward
var damageOrder = map[DamageStatus]int{
	DamageReported: 0,
	DamageInRepair: 1,
	DamageRepaired: 2,
}

// OpenDamageStatuses are the statuses that block the vehicle
var OpenDamageStatuses = []DamageStatus{DamageReported, DamageInRepair}

func (s DamageSeverity) IsValid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

func (s DamageStatus) IsValid() bool {
	_, ok := damageOrder[s]
	return ok
}

// IsOpen reports whether damage in this status still blocks the vehicle
func (s DamageStatus) IsOpen() bool {
	return s == DamageReported || s == DamageInRepair
}

// CanTransitionTo allows forward moves only (reported -> in_repair -> repaired)
func (s DamageStatus) CanTransitionTo(target DamageStatus) bool {
	from, ok := damageOrder[s]
	if !ok {
		return false
	}
	to, ok := damageOrder[target]
	if !ok {
		return false
	}
	return to > from
}

// Damage represents a damage report filed against a vehicle
type Damage struct {
	ID          int64
	VehicleID   int64
	RentalID    *int64 // rental during which it was discovered
	Severity    DamageSeverity
	Status      DamageStatus
	Description string
	RepairCost  float64

	ReportedAt time.Time
	UpdatedAt  time.Time
}

// IsOpen reports whether the damage blocks its vehicle
func (d *Damage) IsOpen() bool {
	return d.Status.IsOpen()
}
