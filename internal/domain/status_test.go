package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus_Precedence(t *testing.T) {
	tests := []struct {
		name string
		c    BlockingConditions
		want VehicleStatus
	}{
		{"nothing", BlockingConditions{}, VehicleAvailable},
		{"active rental", BlockingConditions{RentalActive: true}, VehicleRented},
		{"maintenance beats rental", BlockingConditions{MaintenanceActive: true, RentalActive: true}, VehicleMaintenance},
		{"minor beats maintenance", BlockingConditions{OpenDamageSeverities: []DamageSeverity{SeverityMinor}, MaintenanceActive: true}, VehicleMinorDamage},
		{"minor beats rental", BlockingConditions{OpenDamageSeverities: []DamageSeverity{SeverityMinor}, RentalActive: true}, VehicleMinorDamage},
		{"moderate beats minor", BlockingConditions{OpenDamageSeverities: []DamageSeverity{SeverityMinor, SeverityModerate}}, VehicleModerateDamage},
		{"severe beats all", BlockingConditions{
			OpenDamageSeverities: []DamageSeverity{SeverityMinor, SeveritySevere, SeverityModerate},
			MaintenanceActive:    true,
			RentalActive:         true,
		}, VehicleSevereDamage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.c))
			assert.Equal(t, tt.want, DeriveStatus(tt.c))
		})
	}
}

func TestCollectConditions(t *testing.T) {
	today := date("2024-06-10")

	damages := []*Damage{
		{Severity: SeveritySevere, Status: DamageRepaired},
		{Severity: SeverityMinor, Status: DamageInRepair},
	}
	maintenance := []*Maintenance{
		{Status: MaintenanceScheduled, ScheduledDate: date("2024-06-11")},
		{Status: MaintenanceCancelled, ScheduledDate: date("2024-06-01")},
	}
	rentals := []*Rental{
		{Status: RentalPending},
		{Status: RentalActive},
	}

	c := CollectConditions(damages, maintenance, rentals, today)

	assert.Equal(t, []DamageSeverity{SeverityMinor}, c.OpenDamageSeverities)
	assert.False(t, c.MaintenanceActive)
	assert.True(t, c.RentalActive)
	assert.Equal(t, VehicleMinorDamage, DeriveStatus(c))
}

func TestCollectConditions_SevereDamageWithMaintenanceInProgress(t *testing.T) {
	c := CollectConditions(
		[]*Damage{{Severity: SeveritySevere, Status: DamageReported}},
		[]*Maintenance{{Status: MaintenanceInProgress, ScheduledDate: date("2024-07-01")}},
		nil,
		date("2024-06-10"),
	)

	assert.Equal(t, VehicleSevereDamage, DeriveStatus(c))
}

func TestMaintenance_IsActiveOn(t *testing.T) {
	today := date("2024-06-10")

	assert.True(t, (&Maintenance{Status: MaintenanceScheduled, ScheduledDate: date("2024-06-10")}).IsActiveOn(today))
	assert.True(t, (&Maintenance{Status: MaintenanceScheduled, ScheduledDate: date("2024-06-01")}).IsActiveOn(today))
	assert.False(t, (&Maintenance{Status: MaintenanceScheduled, ScheduledDate: date("2024-06-11")}).IsActiveOn(today))
	assert.True(t, (&Maintenance{Status: MaintenanceInProgress, ScheduledDate: date("2024-06-11")}).IsActiveOn(today))
	assert.False(t, (&Maintenance{Status: MaintenanceCompleted, ScheduledDate: date("2024-06-01")}).IsActiveOn(today))
}
