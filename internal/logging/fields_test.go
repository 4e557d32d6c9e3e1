package logging

import (
	"log/slog"
	"testing"
)

func TestWithCommonAppendsServiceAndVersion(t *testing.T) {
	attrs := WithCommon(nil, "rank-kicker", "v1")
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attrs, got %d", len(attrs))
	}
	if attrs[0].Key != FieldService || attrs[0].Value.String() != "rank-kicker" {
		t.Fatalf("expected service attr, got %+v", attrs[0])
	}
	if attrs[1].Key != FieldVersion || attrs[1].Value.String() != "v1" {
		t.Fatalf("expected version attr, got %+v", attrs[1])
	}
}

func TestWithCommonSkipsEmpty(t *testing.T) {
	attrs := WithCommon([]slog.Attr{slog.String(FieldPlayer, "Soldier")}, "", "")
	if len(attrs) != 1 || attrs[0].Key != FieldPlayer {
		t.Fatalf("expected original attrs preserved, got %+v", attrs)
	}
}
