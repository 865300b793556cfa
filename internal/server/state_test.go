package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/harfgame/harf/internal/game"
)

// TestRoomWebsocket plays a complete single-round game through real
// websocket connections: create, join, ready up, choose a letter, submit
// answers, review, final rankings.
func TestRoomWebsocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg := game.DefaultConfig()
	cfg.MaxRounds = 1

	started := make(chan *ServerState, 1)
	go func() {
		if err := Run(ctx, "", cfg, started); err != nil {
			t.Errorf("server exited with error: %v", err)
		}
	}()
	state := <-started
	wsURL := "ws://" + state.Address + "/ws"

	dial := func(name string) *websocket.Conn {
		conn, _, err := websocket.Dial(ctx, wsURL, nil)
		if err != nil {
			t.Fatalf("%s failed to dial: %v", name, err)
		}
		t.Cleanup(func() { _ = conn.CloseNow() })
		return conn
	}

	send := func(conn *websocket.Conn, msgType game.MessageType, payload any) {
		msg, err := game.NewMessage(msgType, payload)
		if err != nil {
			t.Fatalf("failed to build %s message: %v", msgType, err)
		}
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			t.Fatalf("failed to send %s: %v", msgType, err)
		}
	}

	// readUntil discards messages until one of the wanted type arrives.
	readUntil := func(conn *websocket.Conn, who string, msgType game.MessageType) game.Message {
		for {
			var msg game.Message
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				t.Fatalf("%s failed to read while waiting for %s: %v", who, msgType, err)
			}
			if msg.Type == game.MsgTypeError || msg.Type == game.MsgTypeSyncError {
				t.Fatalf("%s received unexpected %s while waiting for %s: %s", who, msg.Type, msgType, msg.Payload)
			}
			if msg.Type == msgType {
				return msg
			}
		}
	}

	decode := func(msg game.Message, out any) {
		if err := json.Unmarshal(msg.Payload, out); err != nil {
			t.Fatalf("failed to decode %s payload: %v", msg.Type, err)
		}
	}

	// Alice creates the room.
	conn1 := dial("Alice")
	send(conn1, game.MsgTypeCreateRoom, game.CreateRoomMessage{Name: "Alice"})
	var created game.RoomCreatedMessage
	decode(readUntil(conn1, "Alice", game.MsgTypeRoomCreated), &created)
	if len(created.RoomCode) != 6 {
		t.Fatalf("expected a 6-char room code, got %q", created.RoomCode)
	}

	// Bob joins it (lowercase code must be accepted).
	conn2 := dial("Bob")
	send(conn2, game.MsgTypeJoinRoom, game.JoinRoomMessage{
		RoomCode: strings.ToLower(created.RoomCode), Name: "Bob",
	})
	var joined game.JoinedRoomMessage
	decode(readUntil(conn2, "Bob", game.MsgTypeJoinedRoom), &joined)
	if len(joined.Players) != 2 {
		t.Fatalf("expected 2 players after join, got %d", len(joined.Players))
	}

	// Both ready up; the game auto-starts and Alice gets the first turn.
	send(conn1, game.MsgTypePlayerReady, nil)
	send(conn2, game.MsgTypePlayerReady, nil)

	var phase game.NewRoundPhaseMessage
	decode(readUntil(conn1, "Alice", game.MsgTypeNewRoundPhase), &phase)
	if phase.ChooserName != "Alice" || phase.Round != 1 {
		t.Fatalf("expected Alice to choose in round 1, got %+v", phase)
	}
	readUntil(conn2, "Bob", game.MsgTypeNewRoundPhase)

	// Alice picks the letter.
	send(conn1, game.MsgTypeLetterChosen, game.LetterChosenMessage{Letter: "s"})
	var startedMsg game.GameStartedMessage
	decode(readUntil(conn2, "Bob", game.MsgTypeGameStarted), &startedMsg)
	if startedMsg.Letter != "s" || startedMsg.Timer != cfg.RoundSeconds {
		t.Fatalf("unexpected gameStarted payload: %+v", startedMsg)
	}
	readUntil(conn1, "Alice", game.MsgTypeGameStarted)

	// Both submit: unique names, shared animal.
	send(conn1, game.MsgTypeSubmitAnswers, game.SubmitAnswersMessage{
		Answers: map[string]string{"name": "sam", "animal": "snake"},
	})
	send(conn2, game.MsgTypeSubmitAnswers, game.SubmitAnswersMessage{
		Answers: map[string]string{"name": "sara", "animal": "snake"},
	})

	var scores game.ScoresCalculatedMessage
	decode(readUntil(conn1, "Alice", game.MsgTypeScoresCalculated), &scores)
	totals := map[string]int{}
	for _, ps := range scores.TotalScores {
		totals[ps.Name] = ps.Score
	}
	if totals["Alice"] != 15 || totals["Bob"] != 15 {
		t.Fatalf("expected 15/15 (unique name + shared animal), got %v", totals)
	}
	readUntil(conn2, "Bob", game.MsgTypeScoresCalculated)

	// Last round, so reviewing completes straight into the final rankings.
	send(conn1, game.MsgTypeFinishedReviewing, nil)
	send(conn2, game.MsgTypeFinishedReviewing, nil)

	var ended game.GameEndedMessage
	decode(readUntil(conn2, "Bob", game.MsgTypeGameEnded), &ended)
	if ended.Winner.Name != "Alice" {
		t.Errorf("tied scores must rank by join order; winner = %q", ended.Winner.Name)
	}
	if len(ended.Rankings) != 2 {
		t.Errorf("expected full rankings, got %d entries", len(ended.Rankings))
	}
}

// TestReconnectKeepsIdentity drops a waiting player's socket and rejoins
// with the same name on a fresh connection.
func TestReconnectKeepsIdentity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	started := make(chan *ServerState, 1)
	go func() { _ = Run(ctx, "", game.DefaultConfig(), started) }()
	state := <-started
	wsURL := "ws://" + state.Address + "/ws"

	conn1, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn1.CloseNow()

	createMsg, _ := game.NewMessage(game.MsgTypeCreateRoom, game.CreateRoomMessage{Name: "Alice"})
	if err := wsjson.Write(ctx, conn1, createMsg); err != nil {
		t.Fatal(err)
	}
	var envelope game.Message
	if err := wsjson.Read(ctx, conn1, &envelope); err != nil {
		t.Fatal(err)
	}
	var created game.RoomCreatedMessage
	if err := json.Unmarshal(envelope.Payload, &created); err != nil {
		t.Fatal(err)
	}

	// Bob joins and then his socket dies.
	conn2, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	joinMsg, _ := game.NewMessage(game.MsgTypeJoinRoom, game.JoinRoomMessage{RoomCode: created.RoomCode, Name: "Bob"})
	if err := wsjson.Write(ctx, conn2, joinMsg); err != nil {
		t.Fatal(err)
	}
	if err := wsjson.Read(ctx, conn2, &envelope); err != nil {
		t.Fatal(err)
	}
	_ = conn2.CloseNow()

	// Rejoining with the same name must rebind, not duplicate.
	conn3, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn3.CloseNow()
	if err := wsjson.Write(ctx, conn3, joinMsg); err != nil {
		t.Fatal(err)
	}
	for {
		if err := wsjson.Read(ctx, conn3, &envelope); err != nil {
			t.Fatal(err)
		}
		if envelope.Type == game.MsgTypeJoinedRoom {
			break
		}
	}
	var rejoined game.JoinedRoomMessage
	if err := json.Unmarshal(envelope.Payload, &rejoined); err != nil {
		t.Fatal(err)
	}
	if len(rejoined.Players) != 2 {
		t.Errorf("expected 2 players after rejoin, got %d", len(rejoined.Players))
	}
}
