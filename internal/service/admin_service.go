package service

import (
	"context"
	"sync"

	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

// AdminService holds the role-gated team operations. Every method takes
// the caller's current membership as scope; role checks run before any
// upstream call.
type AdminService struct {
	teams      backend.TeamAPI
	membership *MembershipService
	publisher  broadcast.Publisher

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewAdminService(teams backend.TeamAPI) *AdminService {
	return &AdminService{
		teams:    teams,
		inFlight: make(map[string]struct{}),
	}
}

// begin marks key busy; the returned func releases it. A busy key
// rejects the duplicate request.
func (a *AdminService) begin(key string) (func(), *Error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, busy := a.inFlight[key]; busy {
		return nil, NewError(ErrorCodeInFlight, "처리 중입니다. 잠시 후 다시 시도해주세요.")
	}
	a.inFlight[key] = struct{}{}
	return func() {
		a.mu.Lock()
		delete(a.inFlight, key)
		a.mu.Unlock()
	}, nil
}

func (a *AdminService) ListMembers(ctx context.Context, scope *model.Membership) ([]*model.TeamMember, *Error) {
	members, err := a.teams.ListMembers(ctx, scope.TeamID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list members", zap.String("team_id", scope.TeamID), zap.Error(err))
		return nil, fromBackend(err, "팀원 목록을 불러오는데 실패했습니다.")
	}
	return members, nil
}

func findMember(members []*model.TeamMember, memberID string) *model.TeamMember {
	for _, m := range members {
		if m != nil && m.ID == memberID {
			return m
		}
	}
	return nil
}

func (a *AdminService) UpdateMemberStatus(ctx context.Context, scope *model.Membership, memberID string, status model.MemberStatus) (*model.TeamMember, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanManageMembers(scope.Role) {
		l.Warn("status change refused", zap.String("role", string(scope.Role)))
		return nil, errForbidden
	}
	if !status.Valid() {
		return nil, NewError(ErrorCodeValidation, "올바르지 않은 상태입니다.")
	}

	member, err := a.teams.UpdateMember(ctx, scope.TeamID, memberID, &model.MemberPatch{Status: &status})
	if err != nil {
		l.Error("failed to update member status", zap.String("member_id", memberID), zap.Error(err))
		return nil, fromBackend(err, "상태 변경에 실패했습니다.")
	}
	a.rosterChanged(ctx, scope.TeamID)
	return member, nil
}

// UpdateJerseyNumber submits a jersey number. When the update fails the
// roster is refetched and the member as the server has it is returned
// along with the error, so the caller can revert its input.
func (a *AdminService) UpdateJerseyNumber(ctx context.Context, scope *model.Membership, memberID string, number *int) (*model.TeamMember, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanManageMembers(scope.Role) {
		return nil, errForbidden
	}

	if number != nil && *number < 0 {
		l.Warn("negative jersey number", zap.Int("jersey_number", *number))
		return a.serverMember(ctx, scope, memberID), NewError(ErrorCodeValidation, "등번호는 0 이상의 숫자여야 합니다.")
	}

	member, err := a.teams.UpdateMember(ctx, scope.TeamID, memberID, &model.MemberPatch{JerseyNumber: number})
	if err != nil {
		l.Warn("jersey number rejected, reverting", zap.String("member_id", memberID), zap.Error(err))
		return a.serverMember(ctx, scope, memberID), fromBackend(err, "등번호 변경에 실패했습니다.")
	}
	return member, nil
}

func (a *AdminService) serverMember(ctx context.Context, scope *model.Membership, memberID string) *model.TeamMember {
	members, err := a.teams.ListMembers(ctx, scope.TeamID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to refetch roster", zap.Error(err))
		return nil
	}
	return findMember(members, memberID)
}

// AppointViceCaptain promotes a member. The cap is checked against a
// fresh roster and a full team is refused without any update request.
func (a *AdminService) AppointViceCaptain(ctx context.Context, scope *model.Membership, memberID string) (*model.TeamMember, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanManageViceCaptains(scope.Role) {
		return nil, errForbidden
	}

	done, ferr := a.begin(scope.TeamID + ":vice")
	if ferr != nil {
		return nil, ferr
	}
	defer done()

	members, err := a.teams.ListMembers(ctx, scope.TeamID)
	if err != nil {
		l.Error("failed to list members", zap.Error(err))
		return nil, fromBackend(err, "부팀장 임명에 실패했습니다.")
	}

	target := findMember(members, memberID)
	if target == nil {
		return nil, NewError(ErrorCodeNotFound, "팀원을 찾을 수 없습니다.")
	}
	if target.Role == model.RoleViceCaptain {
		return target, nil
	}
	if target.Role == model.RoleCaptain {
		return nil, NewError(ErrorCodeValidation, "팀장은 부팀장으로 임명할 수 없습니다.")
	}
	if model.CountViceCaptains(members) >= model.MaxViceCaptains {
		l.Warn("vice captain cap reached", zap.String("team_id", scope.TeamID))
		return nil, NewError(ErrorCodeConflict, "부팀장은 최대 2명까지 임명할 수 있습니다.")
	}

	role := model.RoleViceCaptain
	member, err := a.teams.UpdateMember(ctx, scope.TeamID, memberID, &model.MemberPatch{Role: &role})
	if err != nil {
		l.Error("failed to appoint vice captain", zap.String("member_id", memberID), zap.Error(err))
		return nil, fromBackend(err, "부팀장 임명에 실패했습니다.")
	}
	a.rosterChanged(ctx, scope.TeamID)
	return member, nil
}

// RevokeViceCaptain demotes a vice-captain to member. Any other target,
// the captain included, is refused before the update request.
func (a *AdminService) RevokeViceCaptain(ctx context.Context, scope *model.Membership, memberID string) (*model.TeamMember, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanManageViceCaptains(scope.Role) {
		return nil, errForbidden
	}

	done, ferr := a.begin(scope.TeamID + ":vice")
	if ferr != nil {
		return nil, ferr
	}
	defer done()

	members, err := a.teams.ListMembers(ctx, scope.TeamID)
	if err != nil {
		l.Error("failed to list members", zap.Error(err))
		return nil, fromBackend(err, "부팀장 해제에 실패했습니다.")
	}

	target := findMember(members, memberID)
	if target == nil {
		return nil, NewError(ErrorCodeNotFound, "팀원을 찾을 수 없습니다.")
	}
	if target.Role != model.RoleViceCaptain {
		l.Warn("revoke target is not a vice captain", zap.String("member_id", memberID), zap.String("role", string(target.Role)))
		return nil, NewError(ErrorCodeValidation, "부팀장이 아닌 팀원입니다.")
	}

	role := model.RoleMember
	member, err := a.teams.UpdateMember(ctx, scope.TeamID, memberID, &model.MemberPatch{Role: &role})
	if err != nil {
		l.Error("failed to revoke vice captain", zap.String("member_id", memberID), zap.Error(err))
		return nil, fromBackend(err, "부팀장 해제에 실패했습니다.")
	}
	a.rosterChanged(ctx, scope.TeamID)
	return member, nil
}

// ChangeViceCaptain demotes from and then promotes to. It is the way to
// swap a vice-captain while the cap is reached. If the promotion fails
// from is restored to vice-captain.
func (a *AdminService) ChangeViceCaptain(ctx context.Context, scope *model.Membership, fromID, toID string) ([]*model.TeamMember, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanManageViceCaptains(scope.Role) {
		return nil, errForbidden
	}

	done, ferr := a.begin(scope.TeamID + ":vice")
	if ferr != nil {
		return nil, ferr
	}
	defer done()

	members, err := a.teams.ListMembers(ctx, scope.TeamID)
	if err != nil {
		l.Error("failed to list members", zap.Error(err))
		return nil, fromBackend(err, "부팀장 변경에 실패했습니다.")
	}
	from, to := findMember(members, fromID), findMember(members, toID)
	if from == nil || to == nil {
		return nil, NewError(ErrorCodeNotFound, "팀원을 찾을 수 없습니다.")
	}
	if from.Role != model.RoleViceCaptain {
		return nil, NewError(ErrorCodeValidation, "부팀장이 아닌 팀원입니다.")
	}
	if to.Role != model.RoleMember {
		return nil, NewError(ErrorCodeValidation, "일반 팀원만 부팀장으로 임명할 수 있습니다.")
	}

	demote, promote := model.RoleMember, model.RoleViceCaptain

	demoted, err := a.teams.UpdateMember(ctx, scope.TeamID, fromID, &model.MemberPatch{Role: &demote})
	if err != nil {
		l.Error("failed to demote vice captain", zap.String("member_id", fromID), zap.Error(err))
		return nil, fromBackend(err, "부팀장 변경에 실패했습니다.")
	}
	promoted, err := a.teams.UpdateMember(ctx, scope.TeamID, toID, &model.MemberPatch{Role: &promote})
	if err != nil {
		l.Error("failed to promote new vice captain", zap.String("member_id", toID), zap.Error(err))
		if _, rerr := a.teams.UpdateMember(ctx, scope.TeamID, fromID, &model.MemberPatch{Role: &promote}); rerr != nil {
			l.Error("failed to restore demoted vice captain", zap.String("member_id", fromID), zap.Error(rerr))
		} else {
			l.Info("restored demoted vice captain", zap.String("member_id", fromID))
		}
		a.rosterChanged(ctx, scope.TeamID)
		return nil, fromBackend(err, "부팀장 변경에 실패했습니다.")
	}

	l.Debug("vice captain changed", zap.String("from", fromID), zap.String("to", toID))
	a.rosterChanged(ctx, scope.TeamID)
	return []*model.TeamMember{demoted, promoted}, nil
}

func (a *AdminService) RemoveMember(ctx context.Context, scope *model.Membership, memberID string) *Error {
	l := logger.FromContext(ctx)

	if !model.CanManageMembers(scope.Role) {
		return errForbidden
	}

	if err := a.teams.RemoveMember(ctx, scope.TeamID, memberID); err != nil {
		l.Error("failed to remove member", zap.String("member_id", memberID), zap.Error(err))
		return fromBackend(err, "팀원 추방에 실패했습니다.")
	}
	l.Info("member removed", zap.String("team_id", scope.TeamID), zap.String("member_id", memberID))
	a.rosterChanged(ctx, scope.TeamID)
	return nil
}

// LeaveTeam requires the typed confirmation and marks the session as
// having left voluntarily.
func (a *AdminService) LeaveTeam(ctx context.Context, scope *model.Membership, sessionID, confirm string) *Error {
	l := logger.FromContext(ctx)

	if !model.Confirmed(confirm, model.ConfirmLeaveTeam) {
		return NewError(ErrorCodeValidation, `"탈퇴"를 정확히 입력해주세요.`)
	}

	done, ferr := a.begin(sessionID + ":leave")
	if ferr != nil {
		return ferr
	}
	defer done()

	if err := a.teams.LeaveTeam(ctx, scope.TeamID); err != nil {
		l.Error("failed to leave team", zap.String("team_id", scope.TeamID), zap.Error(err))
		return fromBackend(err, "팀 탈퇴에 실패했습니다.")
	}
	if err := a.membership.Left(ctx, sessionID); err != nil {
		l.Warn("failed to record leave", zap.Error(err))
	}
	l.Info("left team", zap.String("team_id", scope.TeamID))
	return nil
}

func (a *AdminService) DeleteTeam(ctx context.Context, scope *model.Membership, sessionID, confirm string) *Error {
	l := logger.FromContext(ctx)

	if !model.CanDeleteTeam(scope.Role) {
		return errForbidden
	}
	if !model.Confirmed(confirm, model.ConfirmDeleteTeam) {
		return NewError(ErrorCodeValidation, `"삭제"를 정확히 입력해주세요.`)
	}

	done, ferr := a.begin(scope.TeamID + ":delete")
	if ferr != nil {
		return ferr
	}
	defer done()

	if err := a.teams.DeleteTeam(ctx, scope.TeamID); err != nil {
		l.Error("failed to delete team", zap.String("team_id", scope.TeamID), zap.Error(err))
		return fromBackend(err, "팀 삭제에 실패했습니다.")
	}
	if err := a.membership.Dissolved(ctx, sessionID); err != nil {
		l.Warn("failed to clear team pointer", zap.Error(err))
	}
	l.Info("team deleted", zap.String("team_id", scope.TeamID))
	return nil
}

// PendingJoinRequests is the review queue; only pending requests are shown.
func (a *AdminService) PendingJoinRequests(ctx context.Context, scope *model.Membership) ([]*model.JoinRequest, *Error) {
	if !model.CanViewJoinRequests(scope.Role) {
		return nil, errForbidden
	}

	requests, err := a.teams.ListTeamJoinRequests(ctx, scope.TeamID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list join requests", zap.String("team_id", scope.TeamID), zap.Error(err))
		return nil, fromBackend(err, "가입신청 목록을 불러오는데 실패했습니다.")
	}
	return model.PendingJoinRequests(requests), nil
}

func (a *AdminService) ReviewJoinRequest(ctx context.Context, scope *model.Membership, requestID string, status model.JoinRequestStatus) (*model.JoinRequest, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanReviewJoinRequests(scope.Role) {
		return nil, errForbidden
	}
	if status != model.JoinRequestApproved && status != model.JoinRequestRejected {
		return nil, NewError(ErrorCodeValidation, "승인 또는 거절만 선택할 수 있습니다.")
	}

	done, ferr := a.begin("join-request:" + requestID)
	if ferr != nil {
		return nil, ferr
	}
	defer done()

	jr, err := a.teams.ReviewJoinRequest(ctx, scope.TeamID, requestID, status)
	if err != nil {
		l.Error("failed to review join request", zap.String("request_id", requestID), zap.Error(err))
		return nil, fromBackend(err, "처리 중 오류가 발생했습니다.")
	}
	l.Info("join request reviewed", zap.String("request_id", requestID), zap.String("status", string(status)))
	if status == model.JoinRequestApproved {
		a.rosterChanged(ctx, scope.TeamID)
	}
	return jr, nil
}

func (a *AdminService) rosterChanged(ctx context.Context, teamID string) {
	if a.publisher != nil {
		a.publisher.Publish(ctx, broadcast.Event{Topic: broadcast.TopicRosterChanged, TeamID: teamID})
	}
}

func (a *AdminService) WithMembership(m *MembershipService) *AdminService {
	a.membership = m
	return a
}

func (a *AdminService) WithPublisher(p broadcast.Publisher) *AdminService {
	a.publisher = p
	return a
}
