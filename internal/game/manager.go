package game

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"k8s.io/klog/v2"
)

// Sender delivers engine messages to connections. Implementations must not
// block: the Manager calls Send while holding its lock.
type Sender interface {
	Send(connID string, msg Message)
}

// connRef resolves a connection identity to its room and player.
type connRef struct {
	roomCode string
	name     string
}

// Manager owns every room and the connection directory. All mutation goes
// through its lock, one event at a time: player events, timer ticks and
// cleanup callbacks are serialized against each other, which is what makes
// the phase guards below sufficient.
//
// Rooms share no state with each other beyond the two maps, so independent
// rooms only contend for the brief event dispatch itself.
type Manager struct {
	cfg    Config
	sender Sender

	mu    sync.Mutex
	rooms map[string]*Room
	conns map[string]connRef
}

// NewManager creates an engine instance. Each instance is fully independent,
// so tests can create as many as they like.
func NewManager(cfg Config, sender Sender) *Manager {
	return &Manager{
		cfg:    cfg,
		sender: sender,
		rooms:  make(map[string]*Room),
		conns:  make(map[string]connRef),
	}
}

// Handle validates and dispatches one client message. All engine errors are
// reported back to the sending connection; none of them are fatal.
func (m *Manager) Handle(connID string, msg Message) {
	payload, err := msg.ParseClient()
	if err != nil {
		m.sendError(connID, MsgTypeError, err.Error())
		return
	}

	switch p := payload.(type) {
	case *CreateRoomMessage:
		m.CreateRoom(connID, p.Name)
	case *JoinRoomMessage:
		m.JoinRoom(connID, p.RoomCode, p.Name)
	case *PlayerReadyMessage:
		m.PlayerReady(connID)
	case *StartGameMessage:
		m.StartGame(connID)
	case *LetterChosenMessage:
		m.LetterChosen(connID, p.Letter)
	case *SubmitAnswersMessage:
		m.SubmitAnswers(connID, p.Answers)
	case *FinishedReviewingMessage:
		m.FinishedReviewing(connID)
	case *RequestPlayersMessage:
		m.RequestPlayers(connID)
	case *LeaveRoomMessage:
		m.Leave(connID)
	}
}

// CreateRoom creates a new room with the sender as host.
func (m *Manager) CreateRoom(connID, name string) {
	name, ok := m.validName(name)
	if !ok {
		m.sendError(connID, MsgTypeError, "invalid player name")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conns[connID]; exists {
		m.sendError(connID, MsgTypeError, "already in a room")
		return
	}

	code := newRoomCode(func(c string) bool {
		_, taken := m.rooms[c]
		return taken
	})
	host := &Player{ConnID: connID, Name: name}
	r := &Room{
		Code:      code,
		HostName:  name,
		Players:   []*Player{host},
		Phase:     PhaseWaiting,
		MaxRounds: m.cfg.MaxRounds,
		Answers:   make(map[string]map[string]string),
		Submitted: make(map[string]bool),
	}
	m.rooms[code] = r
	m.conns[connID] = connRef{roomCode: code, name: name}

	m.send(connID, mustMessage(MsgTypeRoomCreated, RoomCreatedMessage{RoomCode: code, Player: *host}))
	klog.Infof("room %s created by %q (%d rooms live)", code, name, len(m.rooms))
}

// JoinRoom adds a new player to a waiting room, or rebinds an existing
// player (matched by display name) to this connection.
func (m *Manager) JoinRoom(connID, code, name string) {
	name, ok := m.validName(name)
	if !ok {
		m.sendError(connID, MsgTypeError, "invalid player name")
		return
	}
	code = normalizeRoomCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.rooms[code]
	if !exists {
		m.sendError(connID, MsgTypeError, "room not found or expired")
		return
	}

	if p := r.playerByName(name); p != nil {
		// Reconnection: rebind the connection identity, never a new player.
		if p.ConnID != "" {
			delete(m.conns, p.ConnID)
		}
		p.ConnID = connID
		p.Disconnected = false
		m.conns[connID] = connRef{roomCode: code, name: name}
		m.stopIdleTimer(r)
		if r.Phase == PhaseFinished {
			// A finished room stays scheduled for destruction; reconnecting
			// only restarts the grace interval.
			m.armFinishedReap(r)
		}

		m.send(connID, mustMessage(MsgTypeJoinedRoom, JoinedRoomMessage{RoomCode: code, Player: *p, Players: r.roster()}))
		m.broadcast(r, mustMessage(MsgTypePlayerRejoined, PlayerJoinedMessage{Player: *p, Players: r.roster()}))
		klog.Infof("room %s: %q reconnected", code, name)

		if r.Phase == PhaseWaiting {
			m.broadcastReadyStatus(r)
			m.maybeStartGame(r)
		}
		return
	}

	if r.Phase != PhaseWaiting {
		m.sendError(connID, MsgTypeError, "game already started")
		return
	}
	if len(r.Players) >= m.cfg.MaxPlayers {
		m.sendError(connID, MsgTypeError, fmt.Sprintf("room is full (max %d players)", m.cfg.MaxPlayers))
		return
	}

	p := &Player{ConnID: connID, Name: name}
	r.Players = append(r.Players, p)
	m.conns[connID] = connRef{roomCode: code, name: name}
	m.stopIdleTimer(r)

	m.send(connID, mustMessage(MsgTypeJoinedRoom, JoinedRoomMessage{RoomCode: code, Player: *p, Players: r.roster()}))
	m.broadcast(r, mustMessage(MsgTypePlayerJoined, PlayerJoinedMessage{Player: *p, Players: r.roster()}))
	m.broadcastReadyStatus(r)
	klog.Infof("room %s: %q joined (%d players)", code, name, len(r.Players))
}

// PlayerReady marks the sender ready. The game auto-starts once every
// connected player is ready and the minimum player count is met.
func (m *Manager) PlayerReady(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, p, ok := m.resolve(connID)
	if !ok {
		return
	}
	if r.Phase != PhaseWaiting {
		m.sendError(connID, MsgTypeSyncError, "cannot ready up: game is not waiting")
		return
	}

	p.Ready = true
	m.broadcast(r, mustMessage(MsgTypePlayerReadyUpdate, PlayerReadyUpdateMessage{PlayerID: p.ConnID, Players: r.roster()}))
	m.broadcastReadyStatus(r)
	m.maybeStartGame(r)
}

// StartGame is the explicit host-initiated start, under the same
// precondition as the auto-start.
func (m *Manager) StartGame(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, p, ok := m.resolve(connID)
	if !ok {
		return
	}
	if r.Phase != PhaseWaiting {
		m.sendError(connID, MsgTypeSyncError, "game already started")
		return
	}
	if p.Name != r.HostName {
		m.sendError(connID, MsgTypeSyncError, "only the host can start the game")
		return
	}
	if !m.readyQuorum(r) {
		m.sendError(connID, MsgTypeError, fmt.Sprintf("need at least %d ready players", m.cfg.MinPlayers))
		return
	}
	m.startGame(r)
}

// LetterChosen accepts the round's constraint letter from the rotation
// chooser and moves the room into Playing.
func (m *Manager) LetterChosen(connID, letter string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, p, ok := m.resolve(connID)
	if !ok {
		return
	}
	if r.Phase != PhaseChoosing {
		m.sendError(connID, MsgTypeSyncError, "no letter is being chosen right now")
		return
	}
	if chooser := r.Chooser(); chooser == nil || chooser.Name != p.Name {
		m.sendError(connID, MsgTypeSyncError, "not your turn to choose the letter")
		return
	}
	if !validLetter(letter) {
		m.sendError(connID, MsgTypeError, "letter must be a single alphabetic character")
		return
	}

	r.CurrentLetter = strings.TrimSpace(letter)
	r.Phase = PhasePlaying
	r.TimeRemaining = m.cfg.RoundSeconds

	m.broadcast(r, mustMessage(MsgTypeGameStarted, GameStartedMessage{
		Letter:    r.CurrentLetter,
		Round:     r.CurrentRound,
		MaxRounds: r.MaxRounds,
		Timer:     r.TimeRemaining,
	}))
	m.startCountdown(r)
	klog.Infof("room %s: round %d playing with letter %q", r.Code, r.CurrentRound, r.CurrentLetter)
}

// SubmitAnswers captures one player's answers for the active round. A second
// submission in the same round is rejected without any state change.
func (m *Manager) SubmitAnswers(connID string, answers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, p, ok := m.resolve(connID)
	if !ok {
		return
	}
	if r.Phase != PhasePlaying {
		m.sendError(connID, MsgTypeSyncError, "no round is being played")
		return
	}
	if r.Submitted[p.Name] {
		m.sendError(connID, MsgTypeError, "answers already submitted this round")
		return
	}

	// Keep only known categories; anything else is discarded at the boundary.
	kept := make(map[string]string, len(Categories))
	for _, category := range Categories {
		if v, found := answers[category]; found {
			kept[category] = v
		}
	}
	r.Answers[p.Name] = kept
	r.Submitted[p.Name] = true

	m.broadcast(r, mustMessage(MsgTypePlayerSubmitted, PlayerSubmittedMessage{
		PlayerID:       p.ConnID,
		PlayerName:     p.Name,
		TotalSubmitted: len(r.Submitted),
		TotalPlayers:   len(r.Players),
	}))

	if m.allSubmitted(r) {
		m.endRound(r)
	}
}

// FinishedReviewing marks the sender done with the score review. Once every
// connected player is done the room advances to the next round, or finishes
// when the round limit is reached.
func (m *Manager) FinishedReviewing(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, p, ok := m.resolve(connID)
	if !ok {
		return
	}
	if r.Phase != PhaseReviewing {
		m.sendError(connID, MsgTypeSyncError, "no scores are being reviewed")
		return
	}

	p.FinishedReviewing = true
	if m.allReviewed(r) {
		m.advanceRound(r)
	}
}

// RequestPlayers replies to the sender with the current roster, flagging the
// sender's own entry.
func (m *Manager) RequestPlayers(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, p, ok := m.resolve(connID)
	if !ok {
		return
	}
	entries := make([]RosterEntry, 0, len(r.Players))
	for _, other := range r.Players {
		entries = append(entries, RosterEntry{Player: *other, IsCurrentPlayer: other.Name == p.Name})
	}
	m.send(connID, mustMessage(MsgTypePlayersData, PlayersDataMessage{Players: entries}))
}

// Leave handles an explicit leave request.
func (m *Manager) Leave(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conns[connID]; !exists {
		m.sendError(connID, MsgTypeSyncError, "session expired")
		return
	}
	m.dropConnection(connID)
}

// Disconnect handles a closed connection. Unknown connections are ignored:
// a socket that was already rebound away or never joined has nothing to do.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropConnection(connID)
}

// Close destroys every room. Used on server shutdown and in tests.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		m.destroyRoom(r)
	}
}

// RoomCount reports the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// ---------------------------------------------------------------------------
// Internals. Every method below expects m.mu to be held.

// resolve maps a connection to its room and player. A dangling directory
// entry is treated as an expired session and cleaned up.
func (m *Manager) resolve(connID string) (*Room, *Player, bool) {
	ref, exists := m.conns[connID]
	if !exists {
		m.sendError(connID, MsgTypeSyncError, "session expired")
		return nil, nil, false
	}
	r, exists := m.rooms[ref.roomCode]
	if !exists {
		delete(m.conns, connID)
		m.sendError(connID, MsgTypeSyncError, "session expired")
		return nil, nil, false
	}
	p := r.playerByName(ref.name)
	if p == nil || p.ConnID != connID {
		delete(m.conns, connID)
		m.sendError(connID, MsgTypeSyncError, "session expired")
		return nil, nil, false
	}
	return r, p, true
}

// dropConnection removes the connection from the directory and applies the
// departure rules: waiting rooms keep the player around for reconnection,
// active games remove them outright.
func (m *Manager) dropConnection(connID string) {
	ref, exists := m.conns[connID]
	if !exists {
		return
	}
	delete(m.conns, connID)

	r, exists := m.rooms[ref.roomCode]
	if !exists {
		return
	}
	p := r.playerByName(ref.name)
	if p == nil || p.ConnID != connID {
		// Stale socket of a player who already rebound elsewhere.
		return
	}

	switch r.Phase {
	case PhaseWaiting, PhaseFinished:
		p.Disconnected = true
		p.ConnID = ""
		if r.Phase == PhaseWaiting && r.HostName == p.Name {
			// Hand the host slot to the first connected player so the room
			// keeps someone who can drive the explicit start.
			for _, other := range r.Players {
				if !other.Disconnected {
					r.HostName = other.Name
					klog.Infof("room %s: host reassigned to %q", r.Code, r.HostName)
					break
				}
			}
		}
		m.broadcast(r, mustMessage(MsgTypePlayerLeft, PlayerLeftMessage{
			PlayerID: connID, PlayerName: p.Name, Players: r.roster(), HostName: r.HostName,
		}))
		klog.Infof("room %s: %q disconnected (%d connected)", r.Code, p.Name, r.connectedCount())
		if r.Phase == PhaseWaiting {
			m.broadcastReadyStatus(r)
			if r.connectedCount() == 0 {
				m.armIdleReap(r)
			} else {
				// A non-ready player leaving can complete the quorum.
				m.maybeStartGame(r)
			}
		}

	default:
		m.removeFromActiveGame(r, p, connID)
	}
}

// removeFromActiveGame removes a player mid-game and re-evaluates every
// condition their absence could have been blocking, so a departure can
// never stall the room.
func (m *Manager) removeFromActiveGame(r *Room, p *Player, connID string) {
	for i, other := range r.Players {
		if other == p {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	delete(r.Answers, p.Name)
	delete(r.Submitted, p.Name)

	if len(r.Players) == 0 {
		// Nothing identifies this game anymore; rejoining is impossible.
		klog.Infof("room %s: last player %q left mid-game, destroying", r.Code, p.Name)
		m.destroyRoom(r)
		return
	}
	if r.HostName == p.Name {
		r.HostName = r.Players[0].Name
		klog.Infof("room %s: host reassigned to %q", r.Code, r.HostName)
	}
	m.broadcast(r, mustMessage(MsgTypePlayerLeft, PlayerLeftMessage{
		PlayerID: connID, PlayerName: p.Name, Players: r.roster(), HostName: r.HostName,
	}))
	klog.Infof("room %s: %q left mid-game (%d players remain)", r.Code, p.Name, len(r.Players))

	switch r.Phase {
	case PhaseChoosing:
		// The rotation re-derives against the shrunken roster; tell everyone
		// who holds the turn now.
		m.broadcastChooser(r)
	case PhasePlaying:
		if m.allSubmitted(r) {
			m.endRound(r)
		}
	case PhaseReviewing:
		if m.allReviewed(r) {
			m.advanceRound(r)
		}
	}
}

// readyQuorum reports whether the game may start: at least MinPlayers
// connected players, all of them ready. Disconnected players never block.
func (m *Manager) readyQuorum(r *Room) bool {
	connected := 0
	for _, p := range r.Players {
		if p.Disconnected {
			continue
		}
		if !p.Ready {
			return false
		}
		connected++
	}
	return connected >= m.cfg.MinPlayers
}

func (m *Manager) maybeStartGame(r *Room) {
	if r.Phase == PhaseWaiting && m.readyQuorum(r) {
		m.startGame(r)
	}
}

// startGame resets scores and rotation and enters the first Choosing phase.
// Players still flagged disconnected are purged: they cannot answer, and
// leaving them in the roster would hand them chooser turns.
func (m *Manager) startGame(r *Room) {
	kept := r.Players[:0]
	for _, p := range r.Players {
		if !p.Disconnected {
			kept = append(kept, p)
		}
	}
	r.Players = kept
	if r.playerByName(r.HostName) == nil {
		r.HostName = r.Players[0].Name
	}

	r.Phase = PhaseChoosing
	r.CurrentRound = 1
	r.ChooserIndex = 0
	for _, p := range r.Players {
		p.Score = 0
	}
	r.resetRound()
	m.stopIdleTimer(r)

	m.broadcast(r, mustMessage(MsgTypeGameStarting, GameStartingMessage{}))
	m.broadcastChooser(r)
	klog.Infof("room %s: game started with %d players", r.Code, len(r.Players))
}

func (m *Manager) broadcastChooser(r *Room) {
	chooser := r.Chooser()
	if chooser == nil {
		return
	}
	m.broadcast(r, mustMessage(MsgTypeNewRoundPhase, NewRoundPhaseMessage{
		Phase:       PhaseChoosing,
		Round:       r.CurrentRound,
		ChooserID:   chooser.ConnID,
		ChooserName: chooser.Name,
	}))
}

func (m *Manager) allSubmitted(r *Room) bool {
	for _, p := range r.Players {
		if !r.Submitted[p.Name] {
			return false
		}
	}
	return len(r.Players) > 0
}

func (m *Manager) allReviewed(r *Room) bool {
	for _, p := range r.Players {
		if !p.FinishedReviewing {
			return false
		}
	}
	return len(r.Players) > 0
}

// endRound is the single Playing->Reviewing transition. The phase check
// makes it idempotent: whichever of "last submission" and "timer expiry"
// runs second finds the room already Reviewing and does nothing, so scores
// are computed and applied exactly once per round.
func (m *Manager) endRound(r *Room) {
	if r.Phase != PhasePlaying {
		return
	}
	r.Phase = PhaseReviewing
	m.stopCountdown(r)

	deltas := ScoreRound(r.CurrentLetter, r.Answers)

	msg := ScoresCalculatedMessage{Letter: r.CurrentLetter, Round: r.CurrentRound}
	for _, p := range r.Players {
		p.Score += deltas[p.Name]
		if answers, submitted := r.Answers[p.Name]; submitted {
			msg.Answers = append(msg.Answers, PlayerAnswers{PlayerID: p.ConnID, PlayerName: p.Name, Answers: answers})
		}
		msg.RoundScores = append(msg.RoundScores, PlayerScore{PlayerID: p.ConnID, Name: p.Name, Score: deltas[p.Name]})
		msg.TotalScores = append(msg.TotalScores, PlayerScore{PlayerID: p.ConnID, Name: p.Name, Score: p.Score})
	}
	m.broadcast(r, mustMessage(MsgTypeScoresCalculated, msg))
	klog.Infof("room %s: round %d scored", r.Code, r.CurrentRound)
}

// advanceRound is the Reviewing->Choosing / Reviewing->Finished transition.
func (m *Manager) advanceRound(r *Room) {
	if r.Phase != PhaseReviewing {
		return
	}
	if r.CurrentRound < r.MaxRounds {
		r.CurrentRound++
		r.ChooserIndex++
		r.Phase = PhaseChoosing
		r.resetRound()
		m.broadcastChooser(r)
		return
	}
	m.finishGame(r)
}

// finishGame computes final rankings and schedules the room's destruction
// after a grace interval so clients can read the results.
func (m *Manager) finishGame(r *Room) {
	r.Phase = PhaseFinished

	ranked := make([]PlayerScore, 0, len(r.Players))
	for _, p := range r.Players {
		ranked = append(ranked, PlayerScore{PlayerID: p.ConnID, Name: p.Name, Score: p.Score})
	}
	// Stable keeps join order for equal scores.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	m.broadcast(r, mustMessage(MsgTypeGameEnded, GameEndedMessage{Winner: ranked[0], Rankings: ranked}))
	klog.Infof("room %s: game over, winner %q with %d points", r.Code, ranked[0].Name, ranked[0].Score)

	m.armFinishedReap(r)
}

// destroyRoom tears a room down: timers first, then directory entries, then
// the registry slot. A timer outliving its room would be a correctness bug,
// not just a leak.
func (m *Manager) destroyRoom(r *Room) {
	m.stopCountdown(r)
	m.stopIdleTimer(r)
	for _, p := range r.Players {
		if p.ConnID != "" {
			delete(m.conns, p.ConnID)
		}
	}
	delete(m.rooms, r.Code)
	klog.Infof("room %s destroyed (%d rooms live)", r.Code, len(m.rooms))
}

// ---------------------------------------------------------------------------
// Countdown timer. One per room, enforced by startCountdown cancelling any
// predecessor. The generation counter makes a straggling tick a no-op even
// if it was already past its channel select when cancelled.

func (m *Manager) startCountdown(r *Room) {
	m.stopCountdown(r)
	gen := r.timerGen
	stop := make(chan struct{})
	r.timerStop = stop
	code := r.Code

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !m.countdownTick(code, gen) {
					return
				}
			}
		}
	}()
}

func (m *Manager) stopCountdown(r *Room) {
	if r.timerStop != nil {
		close(r.timerStop)
		r.timerStop = nil
	}
	r.timerGen++
}

// countdownTick advances the countdown by one second. Returns false once the
// countdown is obsolete or has reached zero.
func (m *Manager) countdownTick(code string, gen int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.rooms[code]
	if !exists || r.timerGen != gen || r.Phase != PhasePlaying {
		return false
	}
	r.TimeRemaining--
	m.broadcast(r, mustMessage(MsgTypeTimerUpdate, TimerUpdateMessage{Remaining: r.TimeRemaining}))
	if r.TimeRemaining <= 0 {
		m.endRound(r)
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Idle / deletion handles. A room holds at most one, reused for both the
// empty-room grace period and the finished-room TTL. Callbacks re-check
// their precondition under the lock; a reap that lost its race is a no-op.

func (m *Manager) armIdleReap(r *Room) {
	m.stopIdleTimer(r)
	code := r.Code
	r.idleTimer = time.AfterFunc(m.cfg.IdleTimeout, func() { m.reapIdle(code) })
	klog.Infof("room %s empty, deletion in %s unless someone reconnects", code, m.cfg.IdleTimeout)
}

func (m *Manager) armFinishedReap(r *Room) {
	m.stopIdleTimer(r)
	code := r.Code
	r.idleTimer = time.AfterFunc(m.cfg.FinishedTTL, func() { m.reapFinished(code) })
}

func (m *Manager) stopIdleTimer(r *Room) {
	if r.idleTimer != nil {
		r.idleTimer.Stop()
		r.idleTimer = nil
	}
}

func (m *Manager) reapIdle(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, exists := m.rooms[code]
	if !exists || r.connectedCount() > 0 {
		return
	}
	m.destroyRoom(r)
}

func (m *Manager) reapFinished(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, exists := m.rooms[code]
	if !exists || r.Phase != PhaseFinished {
		return
	}
	m.destroyRoom(r)
}

// ---------------------------------------------------------------------------
// Emission.

func (m *Manager) send(connID string, msg Message) {
	m.sender.Send(connID, msg)
}

func (m *Manager) sendError(connID string, t MessageType, text string) {
	m.sender.Send(connID, mustMessage(t, ErrorMessage{Message: text}))
	klog.V(1).Infof("conn %s rejected: %s", connID, text)
}

// broadcast delivers a message to every connected player of a room.
func (m *Manager) broadcast(r *Room, msg Message) {
	for _, p := range r.Players {
		if p.Disconnected || p.ConnID == "" {
			continue
		}
		m.sender.Send(p.ConnID, msg)
	}
}

func (m *Manager) broadcastReadyStatus(r *Room) {
	ready := 0
	for _, p := range r.Players {
		if !p.Disconnected && p.Ready {
			ready++
		}
	}
	m.broadcast(r, mustMessage(MsgTypeRoomReadyStatus, RoomReadyStatusMessage{
		ReadyCount: ready,
		Total:      r.connectedCount(),
		CanStart:   m.readyQuorum(r),
	}))
}

// validName trims and bounds a display name.
func (m *Manager) validName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > m.cfg.MaxNameLen {
		return "", false
	}
	return name, true
}
