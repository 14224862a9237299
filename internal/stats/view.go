package stats

import (
	"fmt"

	"github.com/yakoovad/club-portal/internal/model"
)

type Entry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Value    string `json:"value"`
}

// TopN keeps the first n players in input order and numbers them from 1.
// Server-side ranks are ignored; ties are not collapsed.
func TopN(players []*model.RankedPlayer, n int, format func(float64) string) []Entry {
	players = present(players)
	if n > len(players) {
		n = len(players)
	}
	entries := make([]Entry, 0, n)
	for i, p := range players[:n] {
		entries = append(entries, Entry{
			Rank:     i + 1,
			UserID:   p.UserID,
			UserName: p.UserName,
			Value:    format(p.Value),
		})
	}
	return entries
}

// present drops null entries from an upstream list.
func present(players []*model.RankedPlayer) []*model.RankedPlayer {
	out := make([]*model.RankedPlayer, 0, len(players))
	for _, p := range players {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func formatRatio(v float64) string {
	return FormatRate(&v)
}

type Top10Board struct {
	Appearances []Entry `json:"appearances"`
	Goals       []Entry `json:"goals"`
	Assists     []Entry `json:"assists"`
	WinRate     []Entry `json:"winRate"`
}

func NewTop10Board(t *model.Top10) *Top10Board {
	if t == nil {
		t = &model.Top10{}
	}
	return &Top10Board{
		Appearances: TopN(t.Appearances, TopListSize, FormatCount),
		Goals:       TopN(t.Goals, TopListSize, FormatCount),
		Assists:     TopN(t.Assists, TopListSize, FormatCount),
		WinRate:     TopN(t.WinRate, TopListSize, formatRatio),
	}
}

type Medal string

const (
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
)

// RankLabel is 🥇🥈🥉 for the podium and "N등" below it.
func RankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d등", rank)
	}
}

func medalFor(rank int) Medal {
	switch rank {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	default:
		return ""
	}
}

type RankingCard struct {
	Rank     int    `json:"rank"`
	Label    string `json:"label"`
	Medal    Medal  `json:"medal,omitempty"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Value    string `json:"value"`
}

// RankingCards keeps the first five players. Unlike TopN it shows the
// upstream rank, so tied players share a label.
func RankingCards(players []*model.RankedPlayer) []RankingCard {
	players = present(players)
	n := len(players)
	if n > RankingCardSize {
		n = RankingCardSize
	}
	cards := make([]RankingCard, 0, n)
	for _, p := range players[:n] {
		cards = append(cards, RankingCard{
			Rank:     p.Rank,
			Label:    RankLabel(p.Rank),
			Medal:    medalFor(p.Rank),
			UserID:   p.UserID,
			UserName: p.UserName,
			Value:    FormatCount(p.Value),
		})
	}
	return cards
}

type RankingsView struct {
	Attendance []RankingCard `json:"attendance"`
	Games      []RankingCard `json:"games"`
	Goals      []RankingCard `json:"goals"`
	Assists    []RankingCard `json:"assists"`
}

func NewRankingsView(r *model.Rankings) *RankingsView {
	if r == nil {
		r = &model.Rankings{}
	}
	return &RankingsView{
		Attendance: RankingCards(r.Attendance),
		Games:      RankingCards(r.Games),
		Goals:      RankingCards(r.Goals),
		Assists:    RankingCards(r.Assists),
	}
}

type MatchStatsView struct {
	MatchCount        int    `json:"matchCount"`
	Wins              int    `json:"wins"`
	Draws             int    `json:"draws"`
	Losses            int    `json:"losses"`
	GoalsPerMatch     string `json:"goalsPerMatch"`
	ConcededPerMatch  string `json:"concededPerMatch"`
	CleanSheetRate    string `json:"cleanSheetRate"`
	NoGoalRate        string `json:"noGoalRate"`
	CleanSheetMatches int    `json:"cleanSheetMatches"`
	NoGoalMatches     int    `json:"noGoalMatches"`
}

type GameStatsView struct {
	GameCount       int    `json:"gameCount"`
	Wins            int    `json:"wins"`
	Draws           int    `json:"draws"`
	Losses          int    `json:"losses"`
	GoalsPerGame    string `json:"goalsPerGame"`
	ConcededPerGame string `json:"concededPerGame"`
	CleanSheetRate  string `json:"cleanSheetRate"`
	NoGoalRate      string `json:"noGoalRate"`
	CleanSheetGames int    `json:"cleanSheetGames"`
	NoGoalGames     int    `json:"noGoalGames"`
}

type TeamStatsView struct {
	Match  *MatchStatsView        `json:"matchStats,omitempty"`
	Game   *GameStatsView         `json:"gameStats,omitempty"`
	Totals *model.TotalStatistics `json:"totalGoals,omitempty"`
}

func NewTeamStatsView(s *model.TeamStatistics) *TeamStatsView {
	if s == nil {
		return nil
	}
	v := &TeamStatsView{Totals: s.TotalStatistics}
	if m := s.MatchStatistics; m != nil {
		v.Match = &MatchStatsView{
			MatchCount:        m.MatchCount,
			Wins:              m.Wins,
			Draws:             m.Draws,
			Losses:            m.Losses,
			GoalsPerMatch:     FormatAverage(m.GoalsPerMatch),
			ConcededPerMatch:  FormatAverage(m.OpponentGoalsPerMatch),
			CleanSheetRate:    FormatRate(m.CleanSheetRatio),
			NoGoalRate:        FormatRate(m.NoGoalRatio),
			CleanSheetMatches: m.CleanSheetMatches,
			NoGoalMatches:     m.NoGoalMatches,
		}
	}
	if g := s.GameStatistics; g != nil {
		v.Game = &GameStatsView{
			GameCount:       g.GameCount,
			Wins:            g.Wins,
			Draws:           g.Draws,
			Losses:          g.Losses,
			GoalsPerGame:    FormatAverage(g.GoalsPerGame),
			ConcededPerGame: FormatAverage(g.OpponentGoalsPerGame),
			CleanSheetRate:  FormatRate(g.CleanSheetRatio),
			NoGoalRate:      FormatRate(g.NoGoalRatio),
			CleanSheetGames: g.CleanSheetGames,
			NoGoalGames:     g.NoGoalGames,
		}
	}
	return v
}

type AttendanceView struct {
	Attending      int    `json:"attending"`
	Late           int    `json:"late"`
	Absent         int    `json:"absent"`
	AttendingShare string `json:"attendingShare"`
	LateShare      string `json:"lateShare"`
	AbsentShare    string `json:"absentShare"`
}

func NewAttendanceView(a *model.AttendanceSummary) *AttendanceView {
	if a == nil {
		return nil
	}
	total := a.Attending + a.Late + a.Absent
	return &AttendanceView{
		Attending:      a.Attending,
		Late:           a.Late,
		Absent:         a.Absent,
		AttendingShare: Share(a.Attending, total),
		LateShare:      Share(a.Late, total),
		AbsentShare:    Share(a.Absent, total),
	}
}

type DashboardView struct {
	NextMatch       *model.NextMatch       `json:"nextMatch,omitempty"`
	TeamComposition *model.TeamComposition `json:"teamComposition,omitempty"`
	TeamStats       *TeamStatsView         `json:"teamStats,omitempty"`
	Top10           *Top10Board            `json:"top10"`
	Attendance      *AttendanceView        `json:"attendance,omitempty"`
}

func NewDashboardView(s *model.DashboardSummary) *DashboardView {
	if s == nil {
		s = &model.DashboardSummary{}
	}
	return &DashboardView{
		NextMatch:       s.NextMatch,
		TeamComposition: s.TeamComposition,
		TeamStats:       NewTeamStatsView(s.TeamStatistics),
		Top10:           NewTop10Board(s.Top10),
		Attendance:      NewAttendanceView(s.AttendanceSummary),
	}
}
