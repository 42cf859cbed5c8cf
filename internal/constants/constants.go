package constants

// ContextKeyUserID is the gin context key the auth middleware stores the
// authenticated user ID under.
const ContextKeyUserID = "user_id"

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// RefreshTokenLength is the number of characters in a refresh token value.
const RefreshTokenLength = 64

// DefaultDevice labels refresh tokens issued without an explicit device name.
const DefaultDevice = "web"
