// errors.go: Error codes for Proteus resolution failures
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

// Error codes for Proteus operations.
//
// The taxonomy distinguishes three terminal failure classes:
//   - ErrCodeParse: the string does not match the required lexical form for
//     its target (bad enum member name, bad severity level text)
//   - ErrCodeResolution: indirect resolution failed (type not found, member
//     not found, no usable constructor, construction threw) or a level
//     switch could not be bound
//   - ErrCodeConversion: a registered or generic converter rejected the
//     string for the target's native representation
//
// "Strategy not applicable, try the next" is NOT an error: it is signaled
// internally and never surfaces through the public API. Collapsing that
// distinction into the error taxonomy would break the fallback chain.
const (
	ErrCodeParse          = "PROTEUS_PARSE_ERROR"
	ErrCodeResolution     = "PROTEUS_RESOLUTION_ERROR"
	ErrCodeConversion     = "PROTEUS_CONVERSION_ERROR"
	ErrCodeInvalidConfig  = "PROTEUS_INVALID_CONFIG"
	ErrCodeIOError        = "PROTEUS_IO_ERROR"
	ErrCodeWatcherStopped = "PROTEUS_WATCHER_STOPPED"
	ErrCodeWatcherBusy    = "PROTEUS_WATCHER_BUSY"
	ErrCodeInvalidDiag    = "PROTEUS_INVALID_DIAG_CONFIG"
)
