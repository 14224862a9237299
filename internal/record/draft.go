package record

import (
	"context"
	"strings"
	"sync"

	"github.com/yakoovad/club-portal/internal/model"
)

type State string

const (
	StateUninitialized    State = "uninitialized"
	StateMembersLoaded    State = "members_loaded"
	StateGamesInitialized State = "games_initialized"
	StateEditing          State = "editing"
	StateSubmitting       State = "submitting"
	StateSubmitted        State = "submitted"
	StateSubmitFailed     State = "submit_failed"
)

type RosterLoader func(ctx context.Context) ([]*model.TeamMember, error)

type Submitter func(ctx context.Context, matchID string, req *model.RecordMatchRequest) error

// Draft is the record-entry session for one match. All methods are safe
// for concurrent use.
type Draft struct {
	mu sync.Mutex

	matchID     string
	state       State
	roster      []*model.TeamMember
	rosterErr   error
	initialized bool
	games       []*model.GameRecord
	notes       string
	lastError   string
}

func NewDraft(matchID string) *Draft {
	return &Draft{
		matchID: matchID,
		state:   StateUninitialized,
	}
}

func (d *Draft) MatchID() string {
	return d.matchID
}

func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LoadRoster fetches the roster at most once. A failed load is permanent
// for this draft; later calls return ErrRosterUnavailable without fetching.
func (d *Draft) LoadRoster(ctx context.Context, load RosterLoader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rosterErr != nil {
		return ErrRosterUnavailable
	}
	if d.state != StateUninitialized {
		return nil
	}

	roster, err := load(ctx)
	if err != nil {
		d.rosterErr = err
		return &RosterError{Err: err}
	}
	d.roster = make([]*model.TeamMember, 0, len(roster))
	for _, m := range roster {
		if m != nil {
			d.roster = append(d.roster, m)
		}
	}
	d.state = StateMembersLoaded
	return nil
}

// Seed creates the first game from the roster. It runs exactly once;
// later calls keep the games being edited.
func (d *Draft) Seed() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}
	if d.state != StateMembersLoaded {
		return ErrNotReady
	}

	d.games = []*model.GameRecord{d.newGame(1)}
	d.initialized = true
	d.state = StateGamesInitialized
	return nil
}

func (d *Draft) newGame(number int) *model.GameRecord {
	records := make([]*model.PlayerRecord, 0, len(d.roster))
	for _, m := range d.roster {
		records = append(records, &model.PlayerRecord{
			UserID:   m.UserID,
			UserName: m.DisplayName(),
		})
	}
	return &model.GameRecord{
		GameNumber:    number,
		Result:        model.DeriveResult(0, 0),
		PlayerRecords: records,
	}
}

// editable must be called with mu held.
func (d *Draft) editable() error {
	switch d.state {
	case StateGamesInitialized, StateEditing, StateSubmitFailed:
		d.state = StateEditing
		return nil
	case StateSubmitting:
		return ErrInFlight
	case StateSubmitted:
		return ErrSubmitted
	default:
		return ErrNotReady
	}
}

func (d *Draft) gameAt(i int) (*model.GameRecord, error) {
	if i < 0 || i >= len(d.games) {
		return nil, ErrGameIndex
	}
	return d.games[i], nil
}

func (d *Draft) AddGame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	d.games = append(d.games, d.newGame(len(d.games)+1))
	return nil
}

// RemoveGame drops game i and renumbers the rest. Removing the last
// remaining game is a no-op.
func (d *Draft) RemoveGame(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if _, err := d.gameAt(i); err != nil {
		return err
	}
	if len(d.games) == 1 {
		return nil
	}

	d.games = append(d.games[:i], d.games[i+1:]...)
	for n, g := range d.games {
		g.GameNumber = n + 1
	}
	return nil
}

func (d *Draft) SetScore(i, our, opp int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if our < 0 || opp < 0 {
		return ErrNegativeValue
	}
	g, err := d.gameAt(i)
	if err != nil {
		return err
	}
	g.OurScore = our
	g.OpponentScore = opp
	g.Result = model.DeriveResult(our, opp)
	return nil
}

// SetPlayerRecord upserts by user id. Goals and assists of a player who
// did not play are kept as entered but never submitted.
func (d *Draft) SetPlayerRecord(gameIndex int, userID string, rec model.PlayerRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if userID == "" {
		return ErrUnknownPlayer
	}
	if rec.Goals < 0 || rec.Assists < 0 {
		return ErrNegativeValue
	}
	g, err := d.gameAt(gameIndex)
	if err != nil {
		return err
	}

	rec.UserID = userID
	for _, pr := range g.PlayerRecords {
		if pr.UserID == userID {
			if rec.UserName == "" {
				rec.UserName = pr.UserName
			}
			*pr = rec
			return nil
		}
	}
	g.PlayerRecords = append(g.PlayerRecords, &rec)
	return nil
}

func (d *Draft) SetNotes(notes string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	d.notes = notes
	return nil
}

func hasScore(games []*model.GameRecord) bool {
	for _, g := range games {
		if g.OurScore > 0 || g.OpponentScore > 0 {
			return true
		}
	}
	return false
}

// payload must be called with mu held.
func (d *Draft) payload() *model.RecordMatchRequest {
	games := make([]*model.GameRecord, 0, len(d.games))
	for _, g := range d.games {
		played := make([]*model.PlayerRecord, 0, len(g.PlayerRecords))
		for _, pr := range g.PlayerRecords {
			if pr.Played {
				cp := *pr
				played = append(played, &cp)
			}
		}
		games = append(games, &model.GameRecord{
			GameNumber:    g.GameNumber,
			OurScore:      g.OurScore,
			OpponentScore: g.OpponentScore,
			Result:        model.DeriveResult(g.OurScore, g.OpponentScore),
			PlayerRecords: played,
		})
	}

	req := &model.RecordMatchRequest{Games: games}
	if n := strings.TrimSpace(d.notes); n != "" {
		req.Notes = &n
	}
	return req
}

// Payload returns what Submit would send, without sending it.
func (d *Draft) Payload() (*model.RecordMatchRequest, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return nil, ErrNotReady
	}
	if !hasScore(d.games) {
		return nil, ErrNoScore
	}
	return d.payload(), nil
}

// Submit validates the draft and sends it. The lock is released while the
// request is in flight; concurrent edits and submits are refused with
// ErrInFlight. On failure the draft keeps its data and the next edit or
// submit resumes editing.
func (d *Draft) Submit(ctx context.Context, submit Submitter) error {
	d.mu.Lock()
	if err := d.editable(); err != nil {
		d.mu.Unlock()
		return err
	}
	if !hasScore(d.games) {
		d.mu.Unlock()
		return ErrNoScore
	}
	req := d.payload()
	d.state = StateSubmitting
	d.lastError = ""
	d.mu.Unlock()

	err := submit(ctx, d.matchID, req)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = StateSubmitFailed
		d.lastError = err.Error()
		return err
	}
	d.state = StateSubmitted
	return nil
}

// View is a point-in-time copy of the draft.
type View struct {
	MatchID   string              `json:"matchId"`
	State     State               `json:"state"`
	Roster    []*model.TeamMember `json:"roster"`
	Games     []*model.GameRecord `json:"games"`
	Notes     string              `json:"notes"`
	CanSubmit bool                `json:"canSubmit"`
	LastError string              `json:"lastError,omitempty"`
}

func (d *Draft) Snapshot() *View {
	d.mu.Lock()
	defer d.mu.Unlock()

	games := make([]*model.GameRecord, 0, len(d.games))
	for _, g := range d.games {
		cp := *g
		cp.PlayerRecords = make([]*model.PlayerRecord, 0, len(g.PlayerRecords))
		for _, pr := range g.PlayerRecords {
			prCopy := *pr
			cp.PlayerRecords = append(cp.PlayerRecords, &prCopy)
		}
		games = append(games, &cp)
	}

	return &View{
		MatchID:   d.matchID,
		State:     d.state,
		Roster:    d.roster,
		Games:     games,
		Notes:     d.notes,
		CanSubmit: d.initialized && d.state != StateSubmitting && d.state != StateSubmitted && hasScore(d.games),
		LastError: d.lastError,
	}
}
