package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Validation Errors (VAL001-VAL099)
//
// Errors in individual cell values:
//
//	VAL001 - Invalid number: A salary or amount is not a number
//	         Action: Remove letters and use a plain decimal such as 1234.56
//	         Patterns: "invalid number"
//
//	VAL002 - Negative amount: A salary or amount is below zero
//	         Action: Correct the amount in the payroll export
//	         Patterns: "negative amount"
//
//	VAL003 - Invalid date: A date could not be read
//	         Action: Use YYYY-MM-DD or DD/MM/YYYY
//	         Patterns: "invalid date"
//
// # Submission Errors (SUB001-SUB099)
//
// Errors in an assembled or uploaded submission:
//
//	SUB001 - Validation failed: The submission is incomplete or inconsistent
//	         Action: Review the listed problems and correct the source files
//	         Patterns: "validation failed"
//
//	SUB002 - Invalid submission: The submission document could not be read
//	         Action: Check that the file is a submission JSON document
//	         Patterns: "invalid submission"
//
// # Request Errors (REQ001-REQ099)
//
// Malformed or incomplete API requests:
//
//	REQ001 - Invalid body, Patterns: "invalid request body"
//	REQ002 - Missing source, Patterns: "no source specified"
//	REQ003 - Missing run id, Patterns: "no run id provided"
//	REQ004 - No employees, Patterns: "no employees provided"
//
// # Packaging Errors (PKG001-PKG099)
//
// Errors while writing an archive:
//
//	PKG001 - Unsafe run id: The run id cannot be used as a file name
//	         Action: Use letters, digits, '-' and '_' only
//	         Patterns: "unsafe run id"
//
//	PKG002 - Path escape: The archive path would leave the submissions folder
//	         Action: Use a simpler run id or employer id
//	         Patterns: "escapes destination directory"
//
//	PKG003 - Run in progress: The same run is already being packaged
//	         Action: Wait for the current packaging to finish
//	         Patterns: "run already in progress"
//
//	PKG004 - System busy: Too many archives are being written
//	         Action: Please wait a moment and try again
//	         Patterns: "too many packaging"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Unknown source: The payroll source is not supported
//	         Action: Choose one of the listed payroll sources
//	         Patterns: "unknown source"
//
//	SRC002 - Not implemented: The payroll source is not available yet
//	         Action: Export from a supported payroll source for now
//	         Patterns: "source not yet implemented"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large, Patterns: "file too large"
//	FILE002 - Invalid CSV, Patterns: "invalid csv"
//	FILE003 - Encoding error, Patterns: "encoding error"
//	FILE004 - No file, Patterns: "no file provided"
//	FILE005 - Empty file, Patterns: "empty file"
//	FILE006 - File not found, Patterns: "no such file"
//	FILE007 - Permission denied, Patterns: "permission denied"
//	FILE008 - Disk full, Patterns: "no space left"
//
// # Request Errors (UPL001-UPL099)
//
//	UPL001 - Request cancelled, Patterns: "context canceled"
//	UPL002 - Request timeout, Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited, Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error when users report ERR000.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Submission Errors (SUB001-SUB002)
	// Checked first: a validation summary can quote cell values.
	// =========================================================================
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "The submission is incomplete or inconsistent",
			Action:  "Review the listed problems and correct the source files",
			Code:    "SUB001",
		},
	},
	{
		pattern: "invalid submission",
		msg: UserMessage{
			Message: "The submission document could not be read",
			Action:  "Check that the file is a submission JSON document",
			Code:    "SUB002",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ004)
	// =========================================================================
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a JSON body matching the documented shape",
			Code:    "REQ001",
		},
	},
	{
		pattern: "no source specified",
		msg: UserMessage{
			Message: "No payroll source was chosen",
			Action:  "Choose the payroll software the file was exported from",
			Code:    "REQ002",
		},
	},
	{
		pattern: "no run id provided",
		msg: UserMessage{
			Message: "No run id was given",
			Action:  "Provide the payroll run id to package",
			Code:    "REQ003",
		},
	},
	{
		pattern: "no employees provided",
		msg: UserMessage{
			Message: "There are no employees to package",
			Action:  "Import a payroll file before building the archive",
			Code:    "REQ004",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL003)
	// =========================================================================
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Remove letters and use a plain decimal such as 1234.56",
			Code:    "VAL001",
		},
	},
	{
		pattern: "negative amount",
		msg: UserMessage{
			Message: "A salary or amount is below zero",
			Action:  "Correct the amount in the payroll export",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use YYYY-MM-DD or DD/MM/YYYY",
			Code:    "VAL003",
		},
	},

	// =========================================================================
	// Packaging Errors (PKG001-PKG004)
	// =========================================================================
	{
		pattern: "unsafe run id",
		msg: UserMessage{
			Message: "The run id cannot be used as a file name",
			Action:  "Use letters, digits, '-' and '_' only",
			Code:    "PKG001",
		},
	},
	{
		pattern: "escapes destination directory",
		msg: UserMessage{
			Message: "The archive path would leave the submissions folder",
			Action:  "Use a simpler run id or employer id",
			Code:    "PKG002",
		},
	},
	{
		pattern: "run already in progress",
		msg: UserMessage{
			Message: "This run is already being packaged",
			Action:  "Wait for the current packaging to finish",
			Code:    "PKG003",
		},
	},
	{
		pattern: "too many packaging",
		msg: UserMessage{
			Message: "System is busy writing other archives",
			Action:  "Please wait a moment and try again",
			Code:    "PKG004",
		},
	},

	// =========================================================================
	// Source Errors (SRC001-SRC002)
	// =========================================================================
	{
		pattern: "source not yet implemented",
		msg: UserMessage{
			Message: "This payroll source is not available yet",
			Action:  "Export from a supported payroll source for now",
			Code:    "SRC002",
		},
	},
	{
		pattern: "unknown source",
		msg: UserMessage{
			Message: "The payroll source is not supported",
			Action:  "Choose one of the listed payroll sources",
			Code:    "SRC001",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE008)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 or choose the matching encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Please provide a CSV file with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "File not found",
			Action:  "Check the path and try again",
			Code:    "FILE006",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "Permission denied",
			Action:  "Check that the folder is writable",
			Code:    "FILE007",
		},
	},
	{
		pattern: "no space left",
		msg: UserMessage{
			Message: "The disk is full",
			Action:  "Free some space and try again",
			Code:    "FILE008",
		},
	},

	// =========================================================================
	// Request Errors (UPL001-UPL002)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(ErrUnsafeRunID)
//	// msg.Code == "PKG001"
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
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
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

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
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
