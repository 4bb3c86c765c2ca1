package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyItem    = "item"
)

// Authentication
const (
	MinPasswordLength = 8
	SessionName       = "ecoscrum_session"
	SessionMaxAge     = 86400 * 7 // 7 days
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SusAF upstream
const (
	SusafRequestTimeoutSeconds = 15
)
