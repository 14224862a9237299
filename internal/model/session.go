package model

// AccessState is the resolved access level of a session. Every protected
// route branches on it.
type AccessState string

const (
	AccessUnauthenticated AccessState = "unauthenticated"
	AccessNoProfile       AccessState = "authenticated_no_profile"
	AccessNoTeam          AccessState = "authenticated_no_team"
	AccessWithTeam        AccessState = "authenticated_with_team"
	AccessRemoved         AccessState = "removed_from_team"
)

const (
	RedirectLogin        = "/login"
	RedirectProfileSetup = "/profile/setup"
	RedirectTeamSelect   = "/team-select"
)

type Session struct {
	State         AccessState   `json:"state"`
	Authenticated bool          `json:"authenticated"`
	HasProfile    bool          `json:"hasProfile"`
	Profile       *Profile      `json:"profile,omitempty"`
	Team          *Membership   `json:"team,omitempty"`
	RemovalReason RemovalReason `json:"removalReason,omitempty"`
	Redirect      string        `json:"redirect,omitempty"`
	// Degraded is set when a lookup failed with an ambiguous error and the
	// session was resolved optimistically.
	Degraded bool `json:"degraded,omitempty"`
}

// Unauthenticated returns the only valid shape of a session without a token.
func Unauthenticated() *Session {
	return &Session{
		State:    AccessUnauthenticated,
		Redirect: RedirectLogin,
	}
}

// NeedsRemovalNotice reports whether the one-time removal notice must be shown.
func (s *Session) NeedsRemovalNotice() bool {
	return s.State == AccessRemoved && s.RemovalReason != RemovalReasonNone
}
