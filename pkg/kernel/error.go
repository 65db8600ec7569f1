// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel holds the error taxonomy shared by the boot path.
//
// Nothing at this stage can recover from an error, so every Kind is fatal
// to the boot. Kinds exist so that callers and tests can tell the failures
// apart with errors.Is.
package kernel

// Kind classifies a boot failure.
type Kind string

const (
	DeviceNotFound           Kind = "device not found"
	MalformedDescription     Kind = "malformed hardware description"
	ClockNotFound            Kind = "clock not found"
	UnsupportedClockTopology Kind = "unsupported clock topology"
	OutOfRange               Kind = "out of range"
	InvalidBlob              Kind = "invalid device tree blob"
	InvalidLayout            Kind = "invalid memory layout"
	InvalidState             Kind = "invalid driver state"
)

// Error implements the error interface so that a Kind can be used as an
// errors.Is target.
func (k Kind) Error() string {
	return string(k)
}

// Error describes a boot error.
type Error struct {
	Kind Kind

	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Errorf returns a new *Error.
func Errorf(kind Kind, module, msg string) *Error {
	return &Error{Kind: kind, Module: module, Message: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "[" + e.Module + "] " + string(e.Kind) + ": " + e.Message
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
