package vector

import "errors"

var (
	// ErrEmpty is returned when reading from or popping an empty vector.
	// Adapters built on vectors wrap it, so errors.Is(err, ErrEmpty) holds
	// for every empty container in this module.
	ErrEmpty = errors.New("empty container")
	// ErrFull is returned when the memory budget refuses a reservation.
	ErrFull = errors.New("memory budget exhausted")
)
