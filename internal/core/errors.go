// Package core provides the conversion logic for GPS collar telemetry.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When users encounter errors, they can quote the error code for
// faster diagnosis.
//
// Error codes are grouped by category:
//
// # Configuration Errors (CFG001-CFG099)
//
// Errors in conversion setup. These abort a run before any output:
//
//	CFG001 - Ambiguous delimiter: no delimiter produced a consistent table
//	         Action: Pass the delimiter explicitly with -delimiter
//	         Patterns: "delimiter ambiguous"
//
//	CFG002 - Unmapped field: an output field has no input column assigned
//	         Action: Map the missing fields with -map or a profile
//	         Patterns: "unmapped target field"
//
// # Timestamp Reasons (TS001-TS099)
//
// Per-row skips from the timestamp column:
//
//	TS001 - Format mismatch: cell does not match the configured layout
//	        Action: Check the -time-format layout, or drop it to enable
//	        format detection
//
//	TS002 - Unparseable: no known layout accepts the cell
//	        Action: Use ISO 8601 or YYYY-MM-DD HH:MM:SS timestamps
//
// # Coordinate Reasons (GEO001-GEO099)
//
// Per-row skips from the latitude or longitude column:
//
//	GEO001 - Unparseable: cell is not a decimal number
//	         Action: Coordinates must be decimal degrees, e.g. 63.4305190
//
//	GEO002 - Out of range: latitude outside [-90, 90] or longitude outside
//	         [-180, 180]
//	         Action: Check for swapped columns or projected coordinates
//
// # Filter Reasons (FLT001-FLT099)
//
// Intentional exclusions, reported separately from errors:
//
//	FLT001 - Before start date: fix is earlier than the effective start
//	         Action: None required; adjust -start or the filters file to
//	         include earlier fixes
//
// # File Errors (FILE001-FILE099)
//
// Errors reading the input file:
//
//	FILE001 - File too large: input exceeds the configured size limit
//	          Action: Raise COLLARCSV_MAX_FILE_SIZE or split the file
//	          Patterns: "file too large"
//
//	FILE002 - Empty file: input has no data rows
//	          Action: Check that the export completed
//	          Patterns: "empty file", "no data rows"
//
//	FILE003 - Unsupported type: input is not CSV, TSV, TXT, or XLSX
//	          Action: Export the data as CSV and retry
//	          Patterns: "unsupported file"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Re-run with COLLARCSV_LOG_LEVEL=debug and check the log
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones. Multiple patterns can map to the same code.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// ReasonCode classifies why a data row was skipped or excluded. Codes are
// machine-readable and stable: they appear in diagnostics, logs, and the
// conversion summary, and scripts may key on them.
type ReasonCode string

const (
	// TimestampFormatMismatch marks a cell that does not match the
	// explicitly configured timestamp layout.
	TimestampFormatMismatch ReasonCode = "TimestampFormatMismatch"

	// TimestampUnparseable marks a cell no layout in the fallback chain
	// accepts.
	TimestampUnparseable ReasonCode = "TimestampUnparseable"

	// CoordinateUnparseable marks a latitude or longitude cell that is not
	// a decimal number.
	CoordinateUnparseable ReasonCode = "CoordinateUnparseable"

	// CoordinateOutOfRange marks latitude outside [-90, 90] or longitude
	// outside [-180, 180].
	CoordinateOutOfRange ReasonCode = "CoordinateOutOfRange"

	// FilteredByStartDate marks a fix earlier than its collar's effective
	// start date. An exclusion, not an error.
	FilteredByStartDate ReasonCode = "FilteredByStartDate"
)

// IsExclusion reports whether the reason is an intentional exclusion rather
// than a data error. Summaries count exclusions separately.
func (r ReasonCode) IsExclusion() bool {
	return r == FilteredByStartDate
}

// Sentinel configuration errors. Configuration errors abort a conversion
// before any output is produced; row-level problems never do.
var (
	// ErrDelimiterAmbiguous means no candidate delimiter split the sampled
	// lines into a consistent multi-column table. The caller must supply
	// the delimiter explicitly rather than let a silent guess corrupt data.
	ErrDelimiterAmbiguous = errors.New("delimiter ambiguous: no candidate produces a consistent multi-column split")

	// ErrEmptyFile means the input has no content to convert.
	ErrEmptyFile = errors.New("empty file: no data rows to convert")
)

// UnmappedFieldError reports output fields with no input column assigned.
type UnmappedFieldError struct {
	Missing []TargetField
}

func (e *UnmappedFieldError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("unmapped target field(s): %s", strings.Join(names, ", "))
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// reasonMessages maps each row-level reason code to its user message.
// Every ReasonCode constant must have an entry here.
var reasonMessages = map[ReasonCode]UserMessage{
	TimestampFormatMismatch: {
		Message: "Timestamp does not match the configured format",
		Action:  "Check the -time-format layout, or drop it to enable format detection",
		Code:    "TS001",
	},
	TimestampUnparseable: {
		Message: "Timestamp format not recognized",
		Action:  "Use ISO 8601 or YYYY-MM-DD HH:MM:SS timestamps",
		Code:    "TS002",
	},
	CoordinateUnparseable: {
		Message: "Coordinate is not a decimal number",
		Action:  "Coordinates must be decimal degrees, e.g. 63.4305190",
		Code:    "GEO001",
	},
	CoordinateOutOfRange: {
		Message: "Coordinate outside the valid range",
		Action:  "Check for swapped columns or projected coordinates",
		Code:    "GEO002",
	},
	FilteredByStartDate: {
		Message: "Fix is earlier than the start date",
		Action:  "Adjust -start or the filters file to include earlier fixes",
		Code:    "FLT001",
	},
}

// MessageFor returns the user message for a row-level reason code.
// Unknown codes fall back to the default message.
func MessageFor(reason ReasonCode) UserMessage {
	if msg, ok := reasonMessages[reason]; ok {
		return msg
	}
	return defaultMessage
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Patterns are matched using strings.Contains, so partial matches
// work. The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
var errorPatterns = []errorPattern{
	// =========================================================================
	// Configuration Errors (CFG001-CFG002)
	// These abort a conversion before any output is produced.
	// =========================================================================
	{
		pattern: "delimiter ambiguous",
		msg: UserMessage{
			Message: "Could not determine the column delimiter",
			Action:  "Pass the delimiter explicitly with -delimiter",
			Code:    "CFG001",
		},
	},
	{
		pattern: "unmapped target field",
		msg: UserMessage{
			Message: "Some output fields have no input column assigned",
			Action:  "Map the missing fields with -map or a profile",
			Code:    "CFG002",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE003)
	// These errors occur while reading the input file.
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Raise COLLARCSV_MAX_FILE_SIZE or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The input file has no data rows",
			Action:  "Check that the export completed",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The input file has no data rows",
			Action:  "Check that the export completed",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported file",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Export the data as CSV and retry",
			Code:    "FILE003",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors; the log carries the original
// technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Re-run with COLLARCSV_LOG_LEVEL=debug and check the log",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := core.ErrDelimiterAmbiguous
//	msg := MapError(err)
//	// msg.Code == "CFG001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// This is the primary function for displaying fatal errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown
// to users as-is. Returns true if the error matches a specific pattern (not
// the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean
// message for display.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. The returned UserError preserves the original
// technical error for logging via Unwrap(), while providing a clean user
// message via Error().
//
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
