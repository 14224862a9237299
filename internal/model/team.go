package model

type Role string

const (
	RoleCaptain     Role = "captain"
	RoleViceCaptain Role = "vice_captain"
	RoleMember      Role = "member"
)

type MemberStatus string

const (
	MemberStatusActive           MemberStatus = "active"
	MemberStatusInjured          MemberStatus = "injured"
	MemberStatusLongTermAbsence  MemberStatus = "long_term_absence"
	MemberStatusShortTermAbsence MemberStatus = "short_term_absence"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusInjured, MemberStatusLongTermAbsence, MemberStatusShortTermAbsence:
		return true
	}
	return false
}

// RemovalReason explains why a user who had a team no longer has one.
type RemovalReason string

const (
	RemovalReasonNone     RemovalReason = ""
	RemovalReasonLeft     RemovalReason = "left"
	RemovalReasonExpelled RemovalReason = "expelled"
)

// Membership is the user's pointer to their current team.
type Membership struct {
	TeamID   string       `json:"teamId"`
	TeamName string       `json:"teamName"`
	Role     Role         `json:"role"`
	Status   MemberStatus `json:"status"`
}

type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Region      string `json:"region,omitempty"`
	Description string `json:"description,omitempty"`
	CaptainID   string `json:"captainId"`
	Logo        string `json:"logo,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type TeamMember struct {
	ID           string       `json:"id"`
	TeamID       string       `json:"teamId"`
	UserID       string       `json:"userId"`
	Name         string       `json:"name,omitempty"`
	UserName     string       `json:"userName,omitempty"`
	JerseyNumber *int         `json:"jerseyNumber,omitempty"`
	Role         Role         `json:"role"`
	Status       MemberStatus `json:"status"`
	JoinedAt     string       `json:"joinedAt,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	Birthdate    *string      `json:"birthdate,omitempty"`
	Positions    []Position   `json:"positions,omitempty"`
	Summary      *string      `json:"summary,omitempty"`
}

// DisplayName prefers the newer name field and falls back to userName.
func (m *TeamMember) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.UserName
}

// MemberPatch is a partial member update; nil fields are left untouched.
type MemberPatch struct {
	Role         *Role         `json:"role,omitempty"`
	Status       *MemberStatus `json:"status,omitempty"`
	JerseyNumber *int          `json:"jerseyNumber,omitempty"`
}

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

type JoinRequest struct {
	ID         string            `json:"id"`
	TeamID     string            `json:"teamId,omitempty"`
	TeamName   string            `json:"teamName,omitempty"`
	UserID     string            `json:"userId"`
	UserName   string            `json:"userName"`
	Status     JoinRequestStatus `json:"status"`
	Positions  []Position        `json:"positions,omitempty"`
	Phone      *string           `json:"phone,omitempty"`
	Birthdate  *string           `json:"birthdate,omitempty"`
	Summary    *string           `json:"summary,omitempty"`
	Message    *string           `json:"message,omitempty"`
	CreatedAt  string            `json:"createdAt"`
	ReviewedAt *string           `json:"reviewedAt,omitempty"`
}

type CreateJoinRequest struct {
	TeamID  string  `json:"teamId" validate:"required"`
	Message *string `json:"message,omitempty" validate:"omitempty,max=500"`
}

// PendingJoinRequests keeps only requests still awaiting review, in input order.
func PendingJoinRequests(requests []*JoinRequest) []*JoinRequest {
	pending := make([]*JoinRequest, 0, len(requests))
	for _, r := range requests {
		if r != nil && r.Status == JoinRequestPending {
			pending = append(pending, r)
		}
	}
	return pending
}
