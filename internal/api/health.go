package api

import (
	"log"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
	healthPgx "github.com/hellofresh/health-go/v5/checks/pgx5"
	"github.com/labstack/echo/v4"
)

type HealthChecker interface {
	HealthCheck() echo.HandlerFunc
}

type healthChecker struct {
	health *health.Health
}

func MustNewHealthChecker(checks ...health.Config) HealthChecker {
	h, _ := health.New(health.WithComponent(health.Component{Name: "club-portal", Version: "v0.1.0"}))

	for _, check := range checks {
		if err := h.Register(check); err != nil {
			log.Fatal("failed to register health check:", err)
		}
	}

	return &healthChecker{
		health: h,
	}
}

func (h *healthChecker) HealthCheck() echo.HandlerFunc {
	return echo.WrapHandler(h.health.Handler())
}

// PostgresCheck reports the session store's database.
func PostgresCheck(dsn string) health.Config {
	return health.Config{
		Name:    "postgres",
		Timeout: 2 * time.Second,
		Check:   healthPgx.New(healthPgx.Config{DSN: dsn}),
	}
}

// UpstreamCheck pings the club API. An unreachable upstream degrades the
// portal instead of failing it.
func UpstreamCheck(url string) health.Config {
	return health.Config{
		Name:      "upstream",
		Timeout:   3 * time.Second,
		SkipOnErr: true,
		Check:     healthHttp.New(healthHttp.Config{URL: url, RequestTimeout: 2 * time.Second}),
	}
}
