package game

import (
	"encoding/json"
	"fmt"
)

// MessageType names one event on the wire, client->server or server->client.
type MessageType string

// Client -> server.
const (
	MsgTypeCreateRoom        MessageType = "createRoom"
	MsgTypeJoinRoom          MessageType = "joinRoom"
	MsgTypePlayerReady       MessageType = "playerReady"
	MsgTypeStartGame         MessageType = "startGameRequest"
	MsgTypeLetterChosen      MessageType = "letterChosen"
	MsgTypeSubmitAnswers     MessageType = "submitAnswers"
	MsgTypeFinishedReviewing MessageType = "finishedReviewing"
	MsgTypeRequestPlayers    MessageType = "requestPlayersData"
	MsgTypeLeaveRoom         MessageType = "leaveRoom"
)

// Server -> client.
const (
	MsgTypeRoomCreated       MessageType = "roomCreated"
	MsgTypeJoinedRoom        MessageType = "joinedRoom"
	MsgTypePlayerJoined      MessageType = "playerJoined"
	MsgTypePlayerRejoined    MessageType = "playerRejoined"
	MsgTypePlayerLeft        MessageType = "playerLeft"
	MsgTypePlayerReadyUpdate MessageType = "playerReadyUpdate"
	MsgTypeRoomReadyStatus   MessageType = "roomReadyStatus"
	MsgTypeGameStarting      MessageType = "gameStarting"
	MsgTypeNewRoundPhase     MessageType = "newRoundPhase"
	MsgTypeGameStarted       MessageType = "gameStarted"
	MsgTypeTimerUpdate       MessageType = "timerUpdate"
	MsgTypePlayerSubmitted   MessageType = "playerSubmitted"
	MsgTypeScoresCalculated  MessageType = "scoresCalculated"
	MsgTypeGameEnded         MessageType = "gameEnded"
	MsgTypePlayersData       MessageType = "playersData"
	MsgTypeError             MessageType = "error"
	MsgTypeSyncError         MessageType = "syncError"
)

// Message is the envelope for all websocket traffic.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a Message with a marshaled payload.
func NewMessage(msgType MessageType, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return Message{Type: msgType, Payload: payloadBytes}, nil
}

// mustMessage is NewMessage for payload types the engine itself defines,
// which cannot fail to marshal.
func mustMessage(msgType MessageType, payload any) Message {
	m, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseClient unmarshals the payload of a client-sent message into its
// concrete type. Server-sent and unknown types are rejected, so nothing past
// this point sees an unvalidated shape.
func (m *Message) ParseClient() (any, error) {
	var target any
	switch m.Type {
	case MsgTypeCreateRoom:
		target = &CreateRoomMessage{}
	case MsgTypeJoinRoom:
		target = &JoinRoomMessage{}
	case MsgTypePlayerReady:
		target = &PlayerReadyMessage{}
	case MsgTypeStartGame:
		target = &StartGameMessage{}
	case MsgTypeLetterChosen:
		target = &LetterChosenMessage{}
	case MsgTypeSubmitAnswers:
		target = &SubmitAnswersMessage{}
	case MsgTypeFinishedReviewing:
		target = &FinishedReviewingMessage{}
	case MsgTypeRequestPlayers:
		target = &RequestPlayersMessage{}
	case MsgTypeLeaveRoom:
		target = &LeaveRoomMessage{}
	default:
		return nil, fmt.Errorf("unknown message type: %s", m.Type)
	}

	if len(m.Payload) == 0 {
		return target, nil
	}
	if err := json.Unmarshal(m.Payload, target); err != nil {
		return nil, fmt.Errorf("malformed %s payload: %w", m.Type, err)
	}
	return target, nil
}

// CreateRoomMessage is the payload for MsgTypeCreateRoom.
type CreateRoomMessage struct {
	Name string `json:"name"`
}

// JoinRoomMessage is the payload for MsgTypeJoinRoom.
type JoinRoomMessage struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

// PlayerReadyMessage, StartGameMessage, FinishedReviewingMessage,
// RequestPlayersMessage and LeaveRoomMessage carry no payload.
type PlayerReadyMessage struct{}
type StartGameMessage struct{}
type FinishedReviewingMessage struct{}
type RequestPlayersMessage struct{}
type LeaveRoomMessage struct{}

// LetterChosenMessage is the payload for MsgTypeLetterChosen.
type LetterChosenMessage struct {
	Letter string `json:"letter"`
}

// SubmitAnswersMessage is the payload for MsgTypeSubmitAnswers, keyed by
// category name.
type SubmitAnswersMessage struct {
	Answers map[string]string `json:"answers"`
}

// RoomCreatedMessage is the payload for MsgTypeRoomCreated.
type RoomCreatedMessage struct {
	RoomCode string `json:"roomCode"`
	Player   Player `json:"player"`
}

// JoinedRoomMessage is the payload for MsgTypeJoinedRoom, sent to the
// joining connection only.
type JoinedRoomMessage struct {
	RoomCode string   `json:"roomCode"`
	Player   Player   `json:"player"`
	Players  []Player `json:"players"`
}

// PlayerJoinedMessage is the payload for MsgTypePlayerJoined and
// MsgTypePlayerRejoined.
type PlayerJoinedMessage struct {
	Player  Player   `json:"player"`
	Players []Player `json:"players"`
}

// PlayerLeftMessage is the payload for MsgTypePlayerLeft. HostName reflects
// any host reassignment caused by the departure.
type PlayerLeftMessage struct {
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Players    []Player `json:"players"`
	HostName   string   `json:"hostName"`
}

// PlayerReadyUpdateMessage is the payload for MsgTypePlayerReadyUpdate.
type PlayerReadyUpdateMessage struct {
	PlayerID string   `json:"playerId"`
	Players  []Player `json:"players"`
}

// RoomReadyStatusMessage is the payload for MsgTypeRoomReadyStatus.
type RoomReadyStatusMessage struct {
	ReadyCount int  `json:"readyCount"`
	Total      int  `json:"total"`
	CanStart   bool `json:"canStart"`
}

// GameStartingMessage is the payload for MsgTypeGameStarting.
type GameStartingMessage struct{}

// NewRoundPhaseMessage is the payload for MsgTypeNewRoundPhase. Phase is
// always PhaseChoosing.
type NewRoundPhaseMessage struct {
	Phase       Phase  `json:"phase"`
	Round       int    `json:"round"`
	ChooserID   string `json:"chooserId"`
	ChooserName string `json:"chooserName"`
}

// GameStartedMessage is the payload for MsgTypeGameStarted.
type GameStartedMessage struct {
	Letter    string `json:"letter"`
	Round     int    `json:"round"`
	MaxRounds int    `json:"maxRounds"`
	Timer     int    `json:"timer"`
}

// TimerUpdateMessage is the payload for MsgTypeTimerUpdate.
type TimerUpdateMessage struct {
	Remaining int `json:"remaining"`
}

// PlayerSubmittedMessage is the payload for MsgTypePlayerSubmitted.
type PlayerSubmittedMessage struct {
	PlayerID       string `json:"playerId"`
	PlayerName     string `json:"playerName"`
	TotalSubmitted int    `json:"totalSubmitted"`
	TotalPlayers   int    `json:"totalPlayers"`
}

// PlayerAnswers pairs a player with the raw answers they submitted.
type PlayerAnswers struct {
	PlayerID   string            `json:"playerId"`
	PlayerName string            `json:"playerName"`
	Answers    map[string]string `json:"answers"`
}

// PlayerScore pairs a player with a point value, either a round delta or a
// cumulative total.
type PlayerScore struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// ScoresCalculatedMessage is the payload for MsgTypeScoresCalculated.
type ScoresCalculatedMessage struct {
	Letter      string          `json:"letter"`
	Round       int             `json:"round"`
	Answers     []PlayerAnswers `json:"answers"`
	RoundScores []PlayerScore   `json:"roundScores"`
	TotalScores []PlayerScore   `json:"totalScores"`
}

// GameEndedMessage is the payload for MsgTypeGameEnded. Rankings are in
// descending score order, ties broken by join order.
type GameEndedMessage struct {
	Winner   PlayerScore   `json:"winner"`
	Rankings []PlayerScore `json:"rankings"`
}

// RosterEntry is one player in a PlayersDataMessage.
type RosterEntry struct {
	Player
	IsCurrentPlayer bool `json:"isCurrentPlayer"`
}

// PlayersDataMessage is the payload for MsgTypePlayersData, sent to the
// requesting connection only.
type PlayersDataMessage struct {
	Players []RosterEntry `json:"players"`
}

// ErrorMessage is the payload for MsgTypeError and MsgTypeSyncError.
type ErrorMessage struct {
	Message string `json:"message"`
}
