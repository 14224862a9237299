package model

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchFinished   MatchStatus = "finished"
	MatchCancelled  MatchStatus = "cancelled"
)

type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultDraw GameResult = "draw"
	ResultLoss GameResult = "loss"
)

// DeriveResult is the only way a game result is produced; it is never user-set.
func DeriveResult(ourScore, opponentScore int) GameResult {
	switch {
	case ourScore > opponentScore:
		return ResultWin
	case ourScore < opponentScore:
		return ResultLoss
	default:
		return ResultDraw
	}
}

type Match struct {
	ID                 string      `json:"id"`
	TeamID             string      `json:"teamId"`
	OpponentTeamName   string      `json:"opponentTeamName"`
	Date               string      `json:"date"`
	Time               *string     `json:"time,omitempty"`
	Location           *string     `json:"location,omitempty"`
	Status             MatchStatus `json:"status"`
	TotalOurScore      *int        `json:"totalOurScore,omitempty"`
	TotalOpponentScore *int        `json:"totalOpponentScore,omitempty"`
	Notes              *string     `json:"notes,omitempty"`
	CreatedAt          string      `json:"createdAt,omitempty"`
	UpdatedAt          string      `json:"updatedAt,omitempty"`
}

type Game struct {
	ID            string     `json:"id,omitempty"`
	MatchID       string     `json:"matchId,omitempty"`
	GameNumber    int        `json:"gameNumber"`
	OurScore      int        `json:"ourScore"`
	OpponentScore int        `json:"opponentScore"`
	Result        GameResult `json:"result"`
}

type MatchDetail struct {
	Match
	Games       []*Game            `json:"games"`
	Attendances []*MatchAttendance `json:"attendances,omitempty"`
}

// ApplyTotals overwrites the match totals with the sum of its game scores.
// Totals stay nil when the match has no games recorded.
func (d *MatchDetail) ApplyTotals() {
	games := d.Games[:0]
	for _, g := range d.Games {
		if g != nil {
			games = append(games, g)
		}
	}
	d.Games = games

	if len(d.Games) == 0 {
		d.TotalOurScore = nil
		d.TotalOpponentScore = nil
		return
	}
	our, opp := 0, 0
	for _, g := range d.Games {
		our += g.OurScore
		opp += g.OpponentScore
		g.Result = DeriveResult(g.OurScore, g.OpponentScore)
	}
	d.TotalOurScore = &our
	d.TotalOpponentScore = &opp
}

type MatchListItem struct {
	ID                 string `json:"id"`
	OpponentTeamName   string `json:"opponentTeamName"`
	Date               string `json:"date"`
	GameCount          int    `json:"gameCount"`
	Wins               int    `json:"wins"`
	Draws              int    `json:"draws"`
	Losses             int    `json:"losses"`
	TotalGoals         int    `json:"totalGoals"`
	TotalAssists       int    `json:"totalAssists"`
	TotalOpponentGoals int    `json:"totalOpponentGoals"`
}

type MatchFilter struct {
	TeamID string
	Year   int
	Month  int
}

type CreateMatchRequest struct {
	TeamID           string  `json:"teamId"`
	OpponentTeamName string  `json:"opponentTeamName" validate:"required"`
	Date             string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time             *string `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Location         *string `json:"location,omitempty"`
}

type UpdateMatchRequest struct {
	OpponentTeamName *string      `json:"opponentTeamName,omitempty" validate:"omitempty,min=1"`
	Date             *string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time             *string      `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Location         *string      `json:"location,omitempty"`
	Status           *MatchStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress finished cancelled"`
}

type PlayerRecord struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Played   bool   `json:"played"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
}

type GameRecord struct {
	GameNumber    int             `json:"gameNumber"`
	OurScore      int             `json:"ourScore"`
	OpponentScore int             `json:"opponentScore"`
	Result        GameResult      `json:"result"`
	PlayerRecords []*PlayerRecord `json:"playerRecords"`
}

type RecordMatchRequest struct {
	Games []*GameRecord `json:"games"`
	Notes *string       `json:"notes,omitempty"`
}
