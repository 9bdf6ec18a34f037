package domain

import "fmt"

// RoomState is the explicit lifecycle state of a chat room. It replaces
// ad-hoc reads of the Live/Mailed flags with a single tagged value and a
// transition function that rejects illegal moves.
type RoomState string

const (
	// RoomBotServed: the bot answers inbound messages; no operator engaged.
	RoomBotServed RoomState = "BOT_SERVED"
	// RoomAwaitingHuman: the bot could not answer; an unanswered
	// FilterQuestion exists and the room waits for operator pickup.
	RoomAwaitingHuman RoomState = "AWAITING_HUMAN"
	// RoomHumanLive: an operator is actively engaged (Live flag set).
	RoomHumanLive RoomState = "HUMAN_LIVE"
	// RoomClosed: resolved; resolution notice handed to the mailer. Not
	// terminal: a new inbound message reopens the room as RoomBotServed.
	RoomClosed RoomState = "CLOSED"
)

// transitions enumerates every legal state change. Self-transitions are
// deliberately absent: escalating a live room or re-closing a closed room
// is a conflict, not a no-op.
var transitions = map[RoomState][]RoomState{
	RoomBotServed:     {RoomAwaitingHuman, RoomHumanLive, RoomClosed},
	RoomAwaitingHuman: {RoomHumanLive, RoomBotServed},
	RoomHumanLive:     {RoomClosed},
	RoomClosed:        {RoomBotServed},
}

// CanTransition reports whether moving from from to to is legal.
func CanTransition(from, to RoomState) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition validates the move from from to to and returns the new state,
// or an error naming both states when the move is illegal.
func Transition(from, to RoomState) (RoomState, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("illegal room transition %s -> %s", from, to)
	}
	return to, nil
}

// StateOf derives the explicit state of a room from its persisted flags and
// whether an unanswered filter question is pending for the conversation.
func StateOf(room *ChatRoom, awaitingHuman bool) RoomState {
	switch {
	case room.Live:
		return RoomHumanLive
	case room.Mailed:
		return RoomClosed
	case awaitingHuman:
		return RoomAwaitingHuman
	default:
		return RoomBotServed
	}
}
