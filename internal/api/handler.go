package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yakoovad/club-portal/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	session    *service.SessionService
	membership *service.MembershipService
	profile    *service.ProfileService
	team       *service.TeamService
	admin      *service.AdminService
	match      *service.MatchService
	attendance *service.AttendanceService
	record     *service.RecordService
	stats      *service.StatsService

	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithSessionService(s *service.SessionService) *Handler {
	h.session = s
	return h
}

func (h *Handler) WithMembershipService(m *service.MembershipService) *Handler {
	h.membership = m
	return h
}

func (h *Handler) WithProfileService(p *service.ProfileService) *Handler {
	h.profile = p
	return h
}

func (h *Handler) WithTeamService(t *service.TeamService) *Handler {
	h.team = t
	return h
}

func (h *Handler) WithAdminService(a *service.AdminService) *Handler {
	h.admin = a
	return h
}

func (h *Handler) WithMatchService(m *service.MatchService) *Handler {
	h.match = m
	return h
}

func (h *Handler) WithAttendanceService(a *service.AttendanceService) *Handler {
	h.attendance = a
	return h
}

func (h *Handler) WithRecordService(r *service.RecordService) *Handler {
	h.record = r
	return h
}

func (h *Handler) WithStatsService(s *service.StatsService) *Handler {
	h.stats = s
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	e.POST("/auth/login", h.Login)
	e.POST("/auth/signup", h.Signup)

	e.GET("/session", h.GetSession, h.SessionMiddleware(true))

	authed := e.Group("", h.SessionMiddleware(false))

	authed.POST("/auth/logout", h.Logout)
	authed.POST("/session/refresh", h.RefreshSession)
	authed.POST("/session/removal/ack", h.AcknowledgeRemoval)

	authed.GET("/profile", h.GetProfile)
	authed.POST("/profile", h.CreateProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.DELETE("/profile", h.DeleteAccount)
	authed.PUT("/profile/password", h.ChangePassword)

	authed.POST("/teams", h.CreateTeam)
	authed.GET("/teams/public", h.ListPublicTeams)
	authed.POST("/join-requests", h.CreateJoinRequest)
	authed.GET("/join-requests/me", h.MyJoinRequests)
	authed.DELETE("/join-requests/:requestId", h.CancelJoinRequest)

	team := authed.Group("", h.TeamMiddleware())

	team.GET("/teams/current", h.CurrentTeam)
	team.POST("/teams/current/leave", h.LeaveTeam)
	team.DELETE("/teams/current", h.DeleteTeam)
	team.GET("/teams/current/members", h.ListMembers)
	team.PUT("/teams/current/members/:memberId/status", h.UpdateMemberStatus)
	team.PUT("/teams/current/members/:memberId/jersey", h.UpdateJerseyNumber)
	team.POST("/teams/current/members/:memberId/vice-captain", h.AppointViceCaptain)
	team.DELETE("/teams/current/members/:memberId/vice-captain", h.RevokeViceCaptain)
	team.POST("/teams/current/vice-captains/change", h.ChangeViceCaptain)
	team.DELETE("/teams/current/members/:memberId", h.RemoveMember)
	team.GET("/teams/current/join-requests", h.PendingJoinRequests)
	team.PUT("/teams/current/join-requests/:requestId", h.ReviewJoinRequest)

	team.GET("/matches", h.ListMatches)
	team.POST("/matches", h.CreateMatch)
	team.GET("/matches/:id", h.GetMatch)
	team.PUT("/matches/:id", h.UpdateMatch)
	team.DELETE("/matches/:id", h.DeleteMatch)
	team.POST("/matches/:id/vote", h.Vote)
	team.GET("/matches/:id/vote", h.MyVote)

	team.POST("/matches/:id/record/draft", h.OpenRecord)
	team.GET("/matches/:id/record/draft", h.GetRecord)
	team.DELETE("/matches/:id/record/draft", h.DiscardRecord)
	team.POST("/matches/:id/record/draft/games", h.AddGame)
	team.DELETE("/matches/:id/record/draft/games/:index", h.RemoveGame)
	team.PUT("/matches/:id/record/draft/games/:index/score", h.SetScore)
	team.PUT("/matches/:id/record/draft/games/:index/players/:userId", h.SetPlayerRecord)
	team.PUT("/matches/:id/record/draft/notes", h.SetNotes)
	team.POST("/matches/:id/record/draft/submit", h.SubmitRecord)

	team.GET("/dashboard", h.Dashboard)
	team.GET("/rankings", h.Rankings)
}

func statusFor(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeNotFound:
		return http.StatusNotFound
	case service.ErrorCodeValidation, service.ErrorCodeInvalidBody:
		return http.StatusBadRequest
	case service.ErrorCodeConflict, service.ErrorCodeInFlight:
		return http.StatusConflict
	case service.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case service.ErrorCodeForbidden, service.ErrorCodeNoTeam:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	return e.JSON(statusFor(err.Code), response)
}
