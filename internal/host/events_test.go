package host

import "testing"

func TestDecodeEvent(t *testing.T) {
	evt, err := DecodeEvent([]byte(`{"type":"players.list","players":[{"name":"A","rank":60},{"name":"B"}]}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if evt.Type != EventPlayersList || len(evt.Players) != 2 || evt.Players[0].Rank != 60 {
		t.Fatalf("unexpected event %+v", evt)
	}

	evt, err = DecodeEvent([]byte(`{"type":"variable.set","name":"Rank Limit","value":"30"}`))
	if err != nil || evt.Value != "30" {
		t.Fatalf("unexpected variable event %+v err=%v", evt, err)
	}
}

func TestDecodeEventRejectsInvalid(t *testing.T) {
	cases := []string{
		`not json`,
		`{}`,
		`{"type":"reserved.added"}`,
		`{"type":"player.join"}`,
		`{"type":"server.exploded"}`,
	}
	for _, raw := range cases {
		if _, err := DecodeEvent([]byte(raw)); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestValidateAllowsEmptyLists(t *testing.T) {
	for _, typ := range []string{EventPlayersList, EventReservedList, EventReservedCleared} {
		if err := (Event{Type: typ}).Validate(); err != nil {
			t.Fatalf("%s: expected valid, got %v", typ, err)
		}
	}
}
