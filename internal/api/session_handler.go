package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) Login(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.Credentials
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	res, err := h.session.Login(e.Request().Context(), &req)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, res)
}

func (h *Handler) Signup(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.Credentials
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	res, err := h.session.Signup(e.Request().Context(), &req)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, res)
}

func (h *Handler) Logout(e echo.Context) error {
	if err := h.session.Logout(e.Request().Context(), sessionID(e)); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

// GetSession never answers 401: a missing or dead session resolves to the
// unauthenticated state.
func (h *Handler) GetSession(e echo.Context) error {
	sid := sessionID(e)
	if sid == "" {
		return e.JSON(http.StatusOK, model.Unauthenticated())
	}

	sess, err := h.session.Resolve(e.Request().Context(), sid)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, sess)
}

func (h *Handler) RefreshSession(e echo.Context) error {
	sess, err := h.session.Refresh(e.Request().Context(), sessionID(e))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, sess)
}

func (h *Handler) AcknowledgeRemoval(e echo.Context) error {
	if err := h.session.AcknowledgeRemoval(e.Request().Context(), sessionID(e)); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) GetProfile(e echo.Context) error {
	profile, err := h.profile.GetProfile(e.Request().Context())
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, profile)
}

func (h *Handler) CreateProfile(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.CreateProfileRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	profile, err := h.profile.CreateProfile(e.Request().Context(), &req)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, profile)
}

func (h *Handler) UpdateProfile(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.UpdateProfileRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	profile, err := h.profile.UpdateProfile(e.Request().Context(), &req)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, profile)
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *Handler) ChangePassword(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req passwordChangeRequest
	if err := decodeRequest(e, &req); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.profile.ChangePassword(e.Request().Context(), req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteAccount(e echo.Context) error {
	if err := h.session.DeleteAccount(e.Request().Context(), sessionID(e)); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}
