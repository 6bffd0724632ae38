package constants

// Common error messages
const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidRequestBody = "Invalid request body"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrProjectIDRequired  = "project_id required"
	ErrProjectNotFound    = "Project not found"
	ErrBackendFetch       = "Failed to fetch from data source"
	ErrMissingFile        = "file is required"
	ErrUnsupportedFile    = "unsupported file type, expected .csv, .xls or .xlsx"
	ErrEmptyUpload        = "upload must have a header row and at least one data row"
	ErrSnapshotNotReady   = "dashboard snapshot not ready yet"
)

// Response keys
const (
	ValueSuccess = "success"
	ValueError   = "error"
	ValueData    = "data"
)

// Content types
const (
	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
	DateFormatAlt  = "02-01-2006"
)
