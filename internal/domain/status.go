package domain

import "time"

// BlockingConditions is everything the status derivation looks at for one vehicle
type BlockingConditions struct {
	OpenDamageSeverities []DamageSeverity
	MaintenanceActive    bool
	RentalActive         bool
}

// CollectConditions reduces raw records to blocking conditions as of today.
// Records that are not open / active-now are ignored.
func CollectConditions(damages []*Damage, maintenance []*Maintenance, rentals []*Rental, today time.Time) BlockingConditions {
	var c BlockingConditions
	for _, d := range damages {
		if d.IsOpen() {
			c.OpenDamageSeverities = append(c.OpenDamageSeverities, d.Severity)
		}
	}
	for _, m := range maintenance {
		if m.IsActiveOn(today) {
			c.MaintenanceActive = true
			break
		}
	}
	for _, r := range rentals {
		if r.Status == RentalActive {
			c.RentalActive = true
			break
		}
	}
	return c
}

// DeriveStatus applies the fixed precedence:
// severe > moderate > minor damage > active-now maintenance > active rental > available.
func DeriveStatus(c BlockingConditions) VehicleStatus {
	var minor, moderate bool
	for _, s := range c.OpenDamageSeverities {
		switch s {
		case SeveritySevere:
			return VehicleSevereDamage
		case SeverityModerate:
			moderate = true
		case SeverityMinor:
			minor = true
		}
	}

	switch {
	case moderate:
		return VehicleModerateDamage
	case minor:
		return VehicleMinorDamage
	case c.MaintenanceActive:
		return VehicleMaintenance
	case c.RentalActive:
		return VehicleRented
	default:
		return VehicleAvailable
	}
}
