package constants

// Context and session keys
const (
	ContextKeyUserID = "user_id"
	SessionName      = "todo_session"
)

// Session lifetime in seconds (7 days)
const SessionMaxAge = 86400 * 7

// Authentication
const MinPasswordLength = 8

// Todo list pagination
const (
	MinListLimit     = 1
	MaxListLimit     = 100
	DefaultListLimit = 50
)

// Tag queries
const (
	DefaultPopularTagLimit = 10
	TagSearchLimit         = 10
)

// Default colors assigned when the client does not pick one
const (
	DefaultCategoryColor = "#3b82f6"
	DefaultTagColor      = "#6b7280"
)
