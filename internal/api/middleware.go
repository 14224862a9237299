package api

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/club-portal/internal/auth"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/repository"
	"github.com/yakoovad/club-portal/internal/service"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

const (
	loggerKey    = "logger"
	sessionIDKey = "session_id"
	stateKey     = "session_state"
	scopeKey     = "team_scope"
)

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			c.Set(loggerKey, reqLogger)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

func GetLoggerFromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SessionMiddleware attaches the portal session named by the bearer token.
// With optional set, requests without a usable session pass through
// unattached instead of being refused.
func (h *Handler) SessionMiddleware(optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := GetLoggerFromContext(c)
			unauthorized := service.NewError(service.ErrorCodeUnauthorized, "로그인이 필요합니다.")

			token := bearerToken(c)
			if token == "" {
				if optional {
					return next(c)
				}
				return h.transportError(c, unauthorized)
			}

			claims, err := auth.VerifyToken(token)
			if err != nil {
				l.Debug("rejected session token", zap.Error(err))
				if optional {
					return next(c)
				}
				return h.transportError(c, unauthorized)
			}

			ctx, st, serr := h.session.Attach(c.Request().Context(), claims.SessionID)
			if serr != nil {
				if optional && serr.Code == service.ErrorCodeUnauthorized {
					return next(c)
				}
				return h.transportError(c, serr)
			}

			sessLogger := l.With(zap.String("session_id", claims.SessionID))
			c.Set(loggerKey, sessLogger)
			c.Set(sessionIDKey, claims.SessionID)
			c.Set(stateKey, st)
			c.SetRequest(c.Request().WithContext(logger.WithLogger(ctx, sessLogger)))

			return next(c)
		}
	}
}

// TeamMiddleware resolves the caller's current team and refuses callers
// without one.
func (h *Handler) TeamMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope, serr := h.membership.CurrentTeam(c.Request().Context(), sessionID(c))
			if serr != nil {
				return h.transportError(c, serr)
			}
			c.Set(scopeKey, scope)
			return next(c)
		}
	}
}

func sessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}

func sessionState(c echo.Context) *repository.LocalState {
	st, _ := c.Get(stateKey).(*repository.LocalState)
	return st
}

func userID(c echo.Context) string {
	if st := sessionState(c); st != nil {
		return st.UserID
	}
	return ""
}

func teamScope(c echo.Context) *model.Membership {
	scope, _ := c.Get(scopeKey).(*model.Membership)
	return scope
}
