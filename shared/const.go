package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleUser  = "user"
	RoleAdmin = "admin"

	CategoryProphets   = "prophets"
	CategoryCompanions = "companions"
	CategoryScholars   = "scholars"

	EventTypeEvent    = "event"
	EventTypePageView = "pageview"
)
