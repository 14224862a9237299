package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/service"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

type confirmRequest struct {
	Confirm string `json:"confirm" validate:"required"`
}

func (h *Handler) CurrentTeam(e echo.Context) error {
	return e.JSON(http.StatusOK, teamScope(e))
}

func (h *Handler) CreateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.CreateTeamRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	team, err := h.team.CreateTeam(e.Request().Context(), sessionID(e), &req)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, team)
}

func (h *Handler) ListPublicTeams(e echo.Context) error {
	teams, err := h.team.ListPublicTeams(e.Request().Context())
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) CreateJoinRequest(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.CreateJoinRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	jr, err := h.team.RequestToJoin(e.Request().Context(), &req)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, jr)
}

func (h *Handler) MyJoinRequests(e echo.Context) error {
	requests, err := h.team.MyPendingRequests(e.Request().Context())
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, requests)
}

func (h *Handler) CancelJoinRequest(e echo.Context) error {
	if err := h.team.CancelJoinRequest(e.Request().Context(), e.Param("requestId")); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) LeaveTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req confirmRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.admin.LeaveTeam(e.Request().Context(), teamScope(e), sessionID(e), req.Confirm); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req confirmRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.admin.DeleteTeam(e.Request().Context(), teamScope(e), sessionID(e), req.Confirm); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMembers(e echo.Context) error {
	members, err := h.admin.ListMembers(e.Request().Context(), teamScope(e))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, members)
}

func (h *Handler) UpdateMemberStatus(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Status model.MemberStatus `json:"status" validate:"required"`
	}
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	member, err := h.admin.UpdateMemberStatus(e.Request().Context(), teamScope(e), e.Param("memberId"), req.Status)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, member)
}

// UpdateJerseyNumber answers a failed update with the member as the
// server has it, so the client can revert its input.
func (h *Handler) UpdateJerseyNumber(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		JerseyNumber *int `json:"jerseyNumber"`
	}
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	member, err := h.admin.UpdateJerseyNumber(e.Request().Context(), teamScope(e), e.Param("memberId"), req.JerseyNumber)
	if err != nil {
		return e.JSON(statusFor(err.Code), struct {
			Error  *service.Error    `json:"error"`
			Member *model.TeamMember `json:"member,omitempty"`
		}{Error: err, Member: member})
	}
	return e.JSON(http.StatusOK, member)
}

func (h *Handler) AppointViceCaptain(e echo.Context) error {
	member, err := h.admin.AppointViceCaptain(e.Request().Context(), teamScope(e), e.Param("memberId"))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, member)
}

func (h *Handler) RevokeViceCaptain(e echo.Context) error {
	member, err := h.admin.RevokeViceCaptain(e.Request().Context(), teamScope(e), e.Param("memberId"))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, member)
}

func (h *Handler) ChangeViceCaptain(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		From string `json:"from" validate:"required"`
		To   string `json:"to" validate:"required,nefield=From"`
	}
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	members, err := h.admin.ChangeViceCaptain(e.Request().Context(), teamScope(e), req.From, req.To)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, members)
}

func (h *Handler) RemoveMember(e echo.Context) error {
	if err := h.admin.RemoveMember(e.Request().Context(), teamScope(e), e.Param("memberId")); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) PendingJoinRequests(e echo.Context) error {
	requests, err := h.admin.PendingJoinRequests(e.Request().Context(), teamScope(e))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, requests)
}

func (h *Handler) ReviewJoinRequest(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Status model.JoinRequestStatus `json:"status" validate:"required,oneof=approved rejected"`
	}
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	jr, err := h.admin.ReviewJoinRequest(e.Request().Context(), teamScope(e), e.Param("requestId"), req.Status)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, jr)
}
