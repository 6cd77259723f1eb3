package utils

type contextKey string

const callerKey contextKey = "caller"

// Caller is the authenticated identity behind a request.
type Caller struct {
	UserID uint
	Email  string
	Role   string
}
