package domain

import "testing"

func TestCanTransition_LegalMoves(t *testing.T) {
	legal := []struct{ from, to RoomState }{
		{RoomBotServed, RoomAwaitingHuman},
		{RoomBotServed, RoomHumanLive},
		{RoomBotServed, RoomClosed},
		{RoomAwaitingHuman, RoomHumanLive},
		{RoomAwaitingHuman, RoomBotServed},
		{RoomHumanLive, RoomClosed},
		{RoomClosed, RoomBotServed},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}
}

func TestCanTransition_IllegalMoves(t *testing.T) {
	illegal := []struct{ from, to RoomState }{
		{RoomHumanLive, RoomHumanLive},   // double escalation
		{RoomClosed, RoomClosed},         // double close
		{RoomClosed, RoomHumanLive},      // must reopen first
		{RoomHumanLive, RoomBotServed},   // no demotion from live
		{RoomAwaitingHuman, RoomClosed},  // resolve goes through bot-served
		{RoomHumanLive, RoomAwaitingHuman},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestTransition_ErrorNamesBothStates(t *testing.T) {
	got, err := Transition(RoomClosed, RoomHumanLive)
	if err == nil {
		t.Fatalf("expected error for CLOSED -> HUMAN_LIVE")
	}
	if got != RoomClosed {
		t.Fatalf("state must not change on illegal transition, got %s", got)
	}

	got, err = Transition(RoomBotServed, RoomHumanLive)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got != RoomHumanLive {
		t.Fatalf("expected HUMAN_LIVE, got %s", got)
	}
}

func TestStateOf_DerivesFromFlags(t *testing.T) {
	cases := []struct {
		name     string
		room     ChatRoom
		awaiting bool
		want     RoomState
	}{
		{"fresh", ChatRoom{}, false, RoomBotServed},
		{"live wins over mailed", ChatRoom{Live: true, Mailed: true}, false, RoomHumanLive},
		{"closed", ChatRoom{Mailed: true}, false, RoomClosed},
		{"awaiting", ChatRoom{}, true, RoomAwaitingHuman},
		{"live ignores awaiting", ChatRoom{Live: true}, true, RoomHumanLive},
	}
	for _, tc := range cases {
		if got := StateOf(&tc.room, tc.awaiting); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
