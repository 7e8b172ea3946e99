// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldFiles  = "files"
	FieldConfig = "config"

	// Engine fields.
	FieldRule     = "rule"
	FieldDuration = "duration"
	FieldIssues   = "issues"
	FieldPass     = "pass"
	FieldNames    = "names"
	FieldWorkers  = "workers"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
