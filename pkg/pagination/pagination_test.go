package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if NormalizeLimit(0) != DefaultLimit {
		t.Fatal("expected default for zero")
	}
	if NormalizeLimit(-1) != DefaultLimit {
		t.Fatal("expected default for negative")
	}
	if NormalizeLimit(MaxLimit+50) != MaxLimit {
		t.Fatal("expected cap at max")
	}
	if NormalizeLimit(10) != 10 {
		t.Fatal("expected passthrough inside bounds")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	orig := Cursor{CreatedAt: time.Now().UTC().Truncate(time.Microsecond), ID: uuid.New()}
	decoded, err := ParseCursor(EncodeCursor(orig))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if decoded == nil || !decoded.CreatedAt.Equal(orig.CreatedAt) || decoded.ID != orig.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, orig)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	cursor, err := ParseCursor("  ")
	if err != nil || cursor != nil {
		t.Fatalf("expected nil cursor for blank input, got %v %v", cursor, err)
	}
}

func TestParseCursorGarbage(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
