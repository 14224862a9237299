package model

type AttendanceStatus string

const (
	AttendanceAttending    AttendanceStatus = "attending"
	AttendanceNotAttending AttendanceStatus = "not_attending"
	AttendanceMaybe        AttendanceStatus = "maybe"
	AttendanceLate         AttendanceStatus = "late"
	AttendanceAbsent       AttendanceStatus = "absent"
)

// Votable reports whether a user may pick this status themselves.
// Late and absent are assigned by the record flow after the match.
func (s AttendanceStatus) Votable() bool {
	switch s {
	case AttendanceAttending, AttendanceNotAttending, AttendanceMaybe:
		return true
	}
	return false
}

type MatchAttendance struct {
	ID       string           `json:"id"`
	UserID   string           `json:"userId"`
	UserName string           `json:"userName"`
	Status   AttendanceStatus `json:"status"`
	VotedAt  string           `json:"votedAt"`
}

type AttendanceVoteRequest struct {
	Status AttendanceStatus `json:"status"`
}

// MyVote finds userID's entry and returns its status only when it is a vote.
func MyVote(attendances []*MatchAttendance, userID string) *AttendanceStatus {
	for _, a := range attendances {
		if a == nil || a.UserID != userID {
			continue
		}
		if !a.Status.Votable() {
			return nil
		}
		status := a.Status
		return &status
	}
	return nil
}
