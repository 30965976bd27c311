package domain

import "time"

// SessionPhase differentiates the three session states.
type SessionPhase string

const (
	SessionUnauthenticated SessionPhase = "UNAUTHENTICATED"
	SessionRestoring       SessionPhase = "RESTORING"
	SessionAuthenticated   SessionPhase = "AUTHENTICATED"
)

// Claims carries the identity fields decoded from a bearer token. Claims are
// always re-derived from the stored credential, never persisted on their own.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// Session is a snapshot of the process-wide authentication state. Subject,
// Role and ExpiresAt are meaningful only while Phase is AUTHENTICATED.
type Session struct {
	Phase     SessionPhase
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// Authenticated reports whether a claim set is live.
func (s Session) Authenticated() bool {
	return s.Phase == SessionAuthenticated
}
