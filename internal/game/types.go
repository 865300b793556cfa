package game

import "time"

// Phase is one state of a room's lifecycle.
type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseChoosing  Phase = "choosing"
	PhasePlaying   Phase = "playing"
	PhaseReviewing Phase = "reviewing"
	PhaseFinished  Phase = "finished"
)

// Categories is the fixed set of topics every round is answered against.
// The set is identical across rounds and deployments.
var Categories = []string{"name", "plant", "animal", "thing", "country"}

// Config holds the per-deployment knobs of the engine. A zero Config is not
// usable; start from DefaultConfig.
type Config struct {
	MaxRounds    int           // rounds per game
	MaxPlayers   int           // room player ceiling
	MinPlayers   int           // connected, ready players required to start
	RoundSeconds int           // countdown length of the Playing phase
	MaxNameLen   int           // display name length bound, in runes
	IdleTimeout  time.Duration // grace before an empty waiting room is destroyed
	FinishedTTL  time.Duration // how long a finished room survives for result reading
	RateWindow   time.Duration // sliding window of the per-connection rate limiter
	RateLimit    int           // accepted events per window before dropping
}

// DefaultConfig returns the stock deployment settings.
func DefaultConfig() Config {
	return Config{
		MaxRounds:    5,
		MaxPlayers:   6,
		MinPlayers:   2,
		RoundSeconds: 60,
		MaxNameLen:   24,
		IdleTimeout:  5 * time.Minute,
		FinishedTTL:  30 * time.Second,
		RateWindow:   10 * time.Second,
		RateLimit:    15,
	}
}

// Player is one participant of a room. Name is the stable key within the
// room; ConnID is volatile and rebound on reconnect.
type Player struct {
	ConnID            string `json:"id"`
	Name              string `json:"name"`
	Score             int    `json:"score"`
	Ready             bool   `json:"ready"`
	Disconnected      bool   `json:"disconnected"`
	FinishedReviewing bool   `json:"-"`
}

// Room is one isolated game instance. All fields are guarded by the
// Manager's lock; the unexported handles are server-only.
type Room struct {
	Code          string
	HostName      string
	Players       []*Player // join order, fixes the chooser rotation
	Phase         Phase
	CurrentRound  int // 1-based once the game has started
	MaxRounds     int
	CurrentLetter string
	TimeRemaining int
	ChooserIndex  int // monotonically increasing, chooser = Players[idx mod len]

	// Per-round state, reset on every entry into Choosing.
	Answers   map[string]map[string]string // player name -> category -> raw answer
	Submitted map[string]bool

	// At most one countdown and one idle/deletion handle may be live.
	timerGen  int
	timerStop chan struct{}
	idleTimer *time.Timer
}

// Chooser returns the player whose turn it is to pick the letter. The index
// is reduced against the live roster length on every use, so removals
// mid-game never leave a stale slot.
func (r *Room) Chooser() *Player {
	if len(r.Players) == 0 {
		return nil
	}
	return r.Players[r.ChooserIndex%len(r.Players)]
}

func (r *Room) playerByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.Disconnected {
			n++
		}
	}
	return n
}

// roster returns a snapshot of the players for broadcast payloads.
func (r *Room) roster() []Player {
	out := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, *p)
	}
	return out
}

// resetRound clears the per-round state on entry into Choosing.
func (r *Room) resetRound() {
	r.CurrentLetter = ""
	r.Answers = make(map[string]map[string]string)
	r.Submitted = make(map[string]bool)
	for _, p := range r.Players {
		p.FinishedReviewing = false
	}
}
