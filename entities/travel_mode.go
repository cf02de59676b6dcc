/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package entities

import (
	"fmt"

	"github.com/Nick-Sullivan/house-planner/errors"
)

// TravelMode selects which duration of a SpatialDistanceItem a requirement is
// scored against.
type TravelMode int

const (
	Driving TravelMode = iota + 1
	Walking
	Bicycling
	PublicTransport
)

var travelModeNames = map[TravelMode]string{
	Driving:         "Driving",
	Walking:         "Walking",
	Bicycling:       "Bicycling",
	PublicTransport: "PublicTransport",
}

func (m TravelMode) String() string {
	if name, ok := travelModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("TravelMode(%d)", int(m))
}

// ParseTravelMode resolves a travel mode by name.
func ParseTravelMode(s string) (TravelMode, error) {
	for mode, name := range travelModeNames {
		if name == s {
			return mode, nil
		}
	}
	return 0, errors.NewValidationError("travel_mode", fmt.Sprintf("unknown travel mode %q", s))
}

// Valid reports whether m is one of the known modes.
func (m TravelMode) Valid() bool {
	_, ok := travelModeNames[m]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (m TravelMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.NewValidationError("travel_mode", fmt.Sprintf("unknown travel mode %d", int(m)))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TravelMode) UnmarshalText(text []byte) error {
	mode, err := ParseTravelMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
