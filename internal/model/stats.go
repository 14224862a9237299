package model

// Payload shapes of the upstream statistics endpoints. Ratios are [0,1]
// fractions and may be absent when the team has no matches yet.

type MatchStatistics struct {
	MatchCount            int      `json:"matchCount"`
	Wins                  int      `json:"wins"`
	Draws                 int      `json:"draws"`
	Losses                int      `json:"losses"`
	GoalsPerMatch         *float64 `json:"goalsPerMatch"`
	OpponentGoalsPerMatch *float64 `json:"opponentGoalsPerMatch"`
	CleanSheetRatio       *float64 `json:"cleanSheetRatio"`
	NoGoalRatio           *float64 `json:"noGoalRatio"`
	CleanSheetMatches     int      `json:"cleanSheetMatches"`
	NoGoalMatches         int      `json:"noGoalMatches"`
}

type GameStatistics struct {
	GameCount            int      `json:"gameCount"`
	Wins                 int      `json:"wins"`
	Draws                int      `json:"draws"`
	Losses               int      `json:"losses"`
	GoalsPerGame         *float64 `json:"goalsPerGame"`
	OpponentGoalsPerGame *float64 `json:"opponentGoalsPerGame"`
	CleanSheetRatio      *float64 `json:"cleanSheetRatio"`
	NoGoalRatio          *float64 `json:"noGoalRatio"`
	CleanSheetGames      int      `json:"cleanSheetGames"`
	NoGoalGames          int      `json:"noGoalGames"`
}

type TotalStatistics struct {
	TotalGoals         int `json:"totalGoals"`
	TotalOpponentGoals int `json:"totalOpponentGoals"`
	GoalDifference     int `json:"goalDifference"`
	TotalAssists       int `json:"totalAssists"`
	FieldGoals         int `json:"fieldGoals"`
	FreeKickGoals      int `json:"freeKickGoals"`
	PenaltyGoals       int `json:"penaltyGoals"`
	OwnGoals           int `json:"ownGoals"`
}

type TeamStatistics struct {
	MatchStatistics *MatchStatistics `json:"matchStatistics,omitempty"`
	GameStatistics  *GameStatistics  `json:"gameStatistics,omitempty"`
	TotalStatistics *TotalStatistics `json:"totalStatistics,omitempty"`
}

type RankedPlayer struct {
	UserID   string  `json:"userId"`
	UserName string  `json:"userName"`
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"`
}

type Top10 struct {
	Appearances []*RankedPlayer `json:"appearances"`
	Goals       []*RankedPlayer `json:"goals"`
	Assists     []*RankedPlayer `json:"assists"`
	WinRate     []*RankedPlayer `json:"winRate"`
}

type NextMatch struct {
	ID                 string            `json:"id"`
	OpponentTeamName   string            `json:"opponentTeamName"`
	Date               string            `json:"date"`
	Time               *string           `json:"time,omitempty"`
	Location           *string           `json:"location,omitempty"`
	MyAttendanceStatus *AttendanceStatus `json:"myAttendanceStatus,omitempty"`
}

type PositionCount struct {
	GK int `json:"GK"`
	DF int `json:"DF"`
	MF int `json:"MF"`
	FW int `json:"FW"`
}

type TeamComposition struct {
	TotalMembers  int           `json:"totalMembers"`
	PositionCount PositionCount `json:"positionCount"`
}

type AttendanceSummary struct {
	Attending int `json:"attending"`
	Late      int `json:"late"`
	Absent    int `json:"absent"`
}

type DashboardSummary struct {
	NextMatch         *NextMatch         `json:"nextMatch,omitempty"`
	TeamComposition   *TeamComposition   `json:"teamComposition,omitempty"`
	TeamStatistics    *TeamStatistics    `json:"teamStatistics,omitempty"`
	Top10             *Top10             `json:"top10,omitempty"`
	AttendanceSummary *AttendanceSummary `json:"attendanceSummary,omitempty"`
}

type Rankings struct {
	Attendance []*RankedPlayer `json:"attendance"`
	Games      []*RankedPlayer `json:"games"`
	Goals      []*RankedPlayer `json:"goals"`
	Assists    []*RankedPlayer `json:"assists"`
}
