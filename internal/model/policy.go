package model

import "strings"

const MaxViceCaptains = 2

const (
	ConfirmLeaveTeam  = "탈퇴"
	ConfirmDeleteTeam = "삭제"
)

func isCaptain(r Role) bool { return r == RoleCaptain }

func isStaff(r Role) bool { return r == RoleCaptain || r == RoleViceCaptain }

func CanDeleteTeam(r Role) bool { return isCaptain(r) }
func CanReviewJoinRequests(r Role) bool { return isCaptain(r) }
func CanManageViceCaptains(r Role) bool { return isCaptain(r) }
func CanManageMembers(r Role) bool { return isCaptain(r) }
func CanViewJoinRequests(r Role) bool { return isStaff(r) }
func CanRecordMatches(r Role) bool { return isStaff(r) }
func CanEditMatches(r Role) bool { return isStaff(r) }
func CanCreateMatches(r Role) bool { return isStaff(r) }

// CountViceCaptains counts members currently holding the vice-captain role.
func CountViceCaptains(members []*TeamMember) int {
	n := 0
	for _, m := range members {
		if m != nil && m.Role == RoleViceCaptain {
			n++
		}
	}
	return n
}

// Confirmed reports whether typed matches literal exactly once surrounding
// whitespace is trimmed. Case variants and partial input do not count.
func Confirmed(typed, literal string) bool {
	return strings.TrimSpace(typed) == literal
}
