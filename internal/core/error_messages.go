package core

// error_messages.go maps technical errors to user-facing messages with codes.
//
// When users encounter errors they can quote the code to support staff for
// faster diagnosis. Codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: an uploaded export exceeds the size limit
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Not a workbook: the file is not a readable .xlsx workbook
//	          Patterns: "not a valid workbook", "not a valid zip file", "unsupported workbook"
//	FILE003 - File not found: an input path does not exist
//	          Patterns: "no such file or directory"
//	FILE004 - No file: no orders export was uploaded
//	          Patterns: "no file provided"
//	FILE005 - Missing orders: the mandatory orders export was not given
//	          Patterns: "missing required source"
//	FILE006 - Missing output: no output path was given
//	          Patterns: "missing output path"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Unknown source: the upload field does not name a source
//	         Patterns: "unknown source"
//	SRC002 - Empty workbook: the workbook has no worksheet
//	         Patterns: "no sheets"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - System busy: too many reconciliations in progress
//	         Patterns: "too many concurrent"
//	RUN002 - Cancelled: the request was cancelled
//	         Patterns: "context canceled"
//	RUN003 - Timeout: the run took too long
//	         Patterns: "context deadline exceeded", "timeout"
//	RUN004 - Output failed: the report workbook could not be written
//	         Patterns: "write output"
//
// # History Errors (HIS001-HIS099)
//
//	HIS001 - History disabled: no database is configured
//	         Patterns: "history not configured"
//	HIS002 - Database unavailable: the run history database refused the connection
//	         Patterns: "connection refused"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns come first.

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
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Run Errors (RUN004 first: output failures wrap lower-level file errors)
	// =========================================================================
	{
		pattern: "write output",
		msg: UserMessage{
			Message: "The report workbook could not be written",
			Action:  "Close the output file if it is open and check the folder is writable",
			Code:    "RUN004",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "An export exceeds the maximum upload size",
			Action:  "Remove unused sheets from the export and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "An export exceeds the maximum upload size",
			Action:  "Remove unused sheets from the export and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "not a valid workbook",
		msg: UserMessage{
			Message: "The file is not a readable Excel workbook",
			Action:  "Save the export as .xlsx and upload it again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "The file is not a readable Excel workbook",
			Action:  "Save the export as .xlsx and upload it again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported workbook",
		msg: UserMessage{
			Message: "The file is not a readable Excel workbook",
			Action:  "Save the export as .xlsx and upload it again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no such file or directory",
		msg: UserMessage{
			Message: "An input file could not be found",
			Action:  "Check the file paths and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No orders export was selected",
			Action:  "Select the orders export before starting",
			Code:    "FILE004",
		},
	},
	{
		pattern: "missing required source",
		msg: UserMessage{
			Message: "The orders export is required",
			Action:  "Provide the orders (Commandes) export and try again",
			Code:    "FILE005",
		},
	},
	{
		pattern: "missing output path",
		msg: UserMessage{
			Message: "No output file was chosen",
			Action:  "Choose where to save the report",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Source Errors (SRC001-SRC002)
	// =========================================================================
	{
		pattern: "unknown source",
		msg: UserMessage{
			Message: "Unknown source export",
			Action:  "Use one of: orders, dispatch, certifications, invoices, workflow",
			Code:    "SRC001",
		},
	},
	{
		pattern: "no sheets",
		msg: UserMessage{
			Message: "The workbook contains no worksheet",
			Action:  "Check that the right file was exported",
			Code:    "SRC002",
		},
	},

	// =========================================================================
	// Run Errors (RUN001-RUN003)
	// =========================================================================
	{
		pattern: "too many concurrent",
		msg: UserMessage{
			Message: "System is busy processing other reconciliations",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The reconciliation timed out",
			Action:  "Try again later or with smaller exports",
			Code:    "RUN003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The reconciliation timed out",
			Action:  "Try again later or with smaller exports",
			Code:    "RUN003",
		},
	},

	// =========================================================================
	// History Errors (HIS001-HIS002)
	// =========================================================================
	{
		pattern: "history not configured",
		msg: UserMessage{
			Message: "Run history is not available",
			Action:  "Configure DATABASE_URL to keep a run history",
			Code:    "HIS001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the history database",
			Action:  "Please try again in a few moments",
			Code:    "HIS002",
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
// It returns the first matching pattern, or the ERR000 fallback.
//
// Example:
//
//	err := fmt.Errorf("%w: Commande", ErrMissingSource)
//	msg := MapError(err)
//	// msg.Code == "FILE005"
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

// IsUserFacing reports whether err matches a known pattern rather than the
// generic ERR000 fallback.
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

// NewUserError maps a technical error to a UserError.
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
