// Package io provides the output devices of the LS-8 emulator.
package io

// Channel defines the interface for the LS-8 console output device.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Number writes a value as a decimal number, one per line.
	Number(value uint8) error
	// Char writes a value as a single character.
	Char(value uint8) error
}
