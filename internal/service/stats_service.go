package service

import (
	"context"
	"sync"

	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/stats"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

// StatsService builds dashboard and ranking views. Dashboard summaries are
// cached per team until any broadcast touching that team arrives.
type StatsService struct {
	stats backend.StatisticsAPI

	mu    sync.RWMutex
	cache map[string]*model.DashboardSummary
	// gens counts invalidations per team and epoch counts full flushes.
	// A fetch only fills the cache if neither moved while it ran.
	gens  map[string]uint64
	epoch uint64
}

func NewStatsService(api backend.StatisticsAPI) *StatsService {
	return &StatsService{
		stats: api,
		cache: make(map[string]*model.DashboardSummary),
		gens:  make(map[string]uint64),
	}
}

var dashboardTopics = []broadcast.Topic{
	broadcast.TopicAttendanceVoted,
	broadcast.TopicMatchRecorded,
	broadcast.TopicMatchChanged,
	broadcast.TopicRosterChanged,
	broadcast.TopicTeamChanged,
	broadcast.TopicSessionStale,
}

// Watch subscribes cache invalidation to the hub. The returned func
// unsubscribes.
func (s *StatsService) Watch(hub *broadcast.Hub) func() {
	invalidate := func(_ context.Context, e broadcast.Event) {
		if e.TeamID == "" {
			s.InvalidateAll()
			return
		}
		s.Invalidate(e.TeamID)
	}

	unsubs := make([]func(), 0, len(dashboardTopics))
	for _, topic := range dashboardTopics {
		unsubs = append(unsubs, hub.Subscribe(topic, invalidate))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func (s *StatsService) Invalidate(teamID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, teamID)
	s.gens[teamID]++
}

func (s *StatsService) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*model.DashboardSummary)
	s.epoch++
}

// generation must be called with mu held.
func (s *StatsService) generation(teamID string) uint64 {
	return s.epoch + s.gens[teamID]
}

func (s *StatsService) Dashboard(ctx context.Context, scope *model.Membership) (*stats.DashboardView, *Error) {
	l := logger.FromContext(ctx)

	s.mu.RLock()
	summary, ok := s.cache[scope.TeamID]
	gen := s.generation(scope.TeamID)
	s.mu.RUnlock()

	if !ok {
		fresh, err := s.stats.DashboardSummary(ctx, scope.TeamID)
		if err != nil {
			l.Error("failed to load dashboard summary", zap.String("team_id", scope.TeamID), zap.Error(err))
			return nil, fromBackend(err, "대시보드 정보를 불러오는데 실패했습니다.")
		}
		s.mu.Lock()
		if s.generation(scope.TeamID) == gen {
			s.cache[scope.TeamID] = fresh
		} else {
			l.Debug("dashboard invalidated during fetch, not caching", zap.String("team_id", scope.TeamID))
		}
		s.mu.Unlock()
		summary = fresh
	}

	return stats.NewDashboardView(summary), nil
}

func (s *StatsService) Rankings(ctx context.Context, scope *model.Membership) (*stats.RankingsView, *Error) {
	l := logger.FromContext(ctx)

	r, err := s.stats.Rankings(ctx, scope.TeamID)
	if err != nil {
		l.Error("failed to load rankings", zap.String("team_id", scope.TeamID), zap.Error(err))
		return nil, fromBackend(err, "랭킹 정보를 불러오는데 실패했습니다.")
	}
	return stats.NewRankingsView(r), nil
}
