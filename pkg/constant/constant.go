package constant

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	DefaultPort                   = "8080"
	DefaultAccessTokenExpiryMin   = 15
	DefaultRefreshTokenExpiryMin  = 10080
	DefaultCleanupIntervalMinutes = 60

	BearerScheme = "Bearer"
)
