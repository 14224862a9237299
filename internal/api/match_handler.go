package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/record"
	"github.com/yakoovad/club-portal/internal/service"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

func intParam(raw string) (int, *service.Error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.NewError(service.ErrorCodeInvalidBody, "잘못된 요청입니다.")
	}
	return v, nil
}

func (h *Handler) ListMatches(e echo.Context) error {
	year, err := intParam(e.QueryParam("year"))
	if err != nil {
		return h.transportError(e, err)
	}
	month, err := intParam(e.QueryParam("month"))
	if err != nil {
		return h.transportError(e, err)
	}

	items, err := h.match.ListMatches(e.Request().Context(), teamScope(e), year, month)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, items)
}

func (h *Handler) CreateMatch(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.CreateMatchRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	match, err := h.match.CreateMatch(e.Request().Context(), teamScope(e), &req)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusCreated, match)
}

func (h *Handler) GetMatch(e echo.Context) error {
	view, err := h.match.GetMatch(e.Request().Context(), teamScope(e), userID(e), e.Param("id"))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateMatch(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.UpdateMatchRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	match, err := h.match.UpdateMatch(e.Request().Context(), teamScope(e), e.Param("id"), &req)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, match)
}

func (h *Handler) DeleteMatch(e echo.Context) error {
	if err := h.match.DeleteMatch(e.Request().Context(), teamScope(e), e.Param("id")); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) Vote(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.AttendanceVoteRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	res, err := h.attendance.Vote(e.Request().Context(), teamScope(e), sessionID(e), e.Param("id"), req.Status)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, res)
}

func (h *Handler) MyVote(e echo.Context) error {
	vote, err := h.attendance.MyVote(e.Request().Context(), e.Param("id"), userID(e))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, struct {
		MatchID string                  `json:"matchId"`
		MyVote  *model.AttendanceStatus `json:"myVote"`
	}{MatchID: e.Param("id"), MyVote: vote})
}

func (h *Handler) draftResponse(e echo.Context, view *record.View, err *service.Error) error {
	if err == nil {
		return e.JSON(http.StatusOK, view)
	}
	if view == nil {
		return h.transportError(e, err)
	}
	return e.JSON(statusFor(err.Code), struct {
		Error *service.Error `json:"error"`
		Draft *record.View   `json:"draft"`
	}{Error: err, Draft: view})
}

func (h *Handler) OpenRecord(e echo.Context) error {
	view, err := h.record.Open(e.Request().Context(), teamScope(e), sessionID(e), e.Param("id"))
	return h.draftResponse(e, view, err)
}

func (h *Handler) GetRecord(e echo.Context) error {
	view, err := h.record.View(sessionID(e), e.Param("id"))
	return h.draftResponse(e, view, err)
}

func (h *Handler) DiscardRecord(e echo.Context) error {
	h.record.Discard(sessionID(e), e.Param("id"))
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) AddGame(e echo.Context) error {
	view, err := h.record.AddGame(sessionID(e), e.Param("id"))
	return h.draftResponse(e, view, err)
}

func (h *Handler) RemoveGame(e echo.Context) error {
	index, err := intParam(e.Param("index"))
	if err != nil {
		return h.transportError(e, err)
	}
	view, err := h.record.RemoveGame(sessionID(e), e.Param("id"), index)
	return h.draftResponse(e, view, err)
}

func (h *Handler) SetScore(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	index, err := intParam(e.Param("index"))
	if err != nil {
		return h.transportError(e, err)
	}

	var req struct {
		OurScore      int `json:"ourScore" validate:"min=0"`
		OpponentScore int `json:"opponentScore" validate:"min=0"`
	}
	if err = decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	view, err := h.record.SetScore(sessionID(e), e.Param("id"), index, req.OurScore, req.OpponentScore)
	return h.draftResponse(e, view, err)
}

func (h *Handler) SetPlayerRecord(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	index, err := intParam(e.Param("index"))
	if err != nil {
		return h.transportError(e, err)
	}

	var req model.PlayerRecord
	if err = decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	view, err := h.record.SetPlayerRecord(sessionID(e), e.Param("id"), index, e.Param("userId"), req)
	return h.draftResponse(e, view, err)
}

func (h *Handler) SetNotes(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Notes string `json:"notes"`
	}
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	view, err := h.record.SetNotes(sessionID(e), e.Param("id"), req.Notes)
	return h.draftResponse(e, view, err)
}

func (h *Handler) SubmitRecord(e echo.Context) error {
	view, err := h.record.Submit(e.Request().Context(), teamScope(e), sessionID(e), e.Param("id"))
	return h.draftResponse(e, view, err)
}
