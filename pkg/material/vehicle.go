package material

import (
	"fmt"
	"strings"
)

// Vehicle is the kind of structure the mesh represents
type Vehicle string

const (
	VehicleUnknown     Vehicle = "unknown"
	VehicleShip        Vehicle = "ship"
	VehicleBoat        Vehicle = "boat"
	VehicleAirplane    Vehicle = "airplane"
	VehicleHelicopter  Vehicle = "helicopter"
	VehicleCar         Vehicle = "car"
	VehicleLandVehicle Vehicle = "land_vehicle"
)

var vehicles = []Vehicle{
	VehicleUnknown,
	VehicleShip,
	VehicleBoat,
	VehicleAirplane,
	VehicleHelicopter,
	VehicleCar,
	VehicleLandVehicle,
}

// Vehicles lists the known vehicle types
func Vehicles() []Vehicle {
	return append([]Vehicle(nil), vehicles...)
}

// ParseVehicle parses a vehicle type. An empty string is VehicleUnknown.
func ParseVehicle(s string) (Vehicle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return VehicleUnknown, nil
	}
	s = strings.ReplaceAll(strings.ReplaceAll(s, "-", "_"), " ", "_")
	for _, v := range vehicles {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown vehicle type %q", s)
}

// IsMarine reports whether the vehicle floats, so waterline and water apply
func (v Vehicle) IsMarine() bool {
	return v == VehicleShip || v == VehicleBoat
}
