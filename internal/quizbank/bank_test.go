package quizbank

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type memCursor struct {
	value int
}

func (c *memCursor) BankCursor(ctx context.Context) (int, error)    { return c.value, nil }
func (c *memCursor) SetBankCursor(ctx context.Context, n int) error { c.value = n; return nil }

func writeBank(t *testing.T, entries []bankQuestion) string {
	t.Helper()

	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func question(text string) bankQuestion {
	return bankQuestion{
		Question:        text,
		Options:         []string{"a", "b", "c", "d"},
		CorrectOptionID: 1,
		Explanation:     "because",
	}
}

func TestFetchAdvancesCursorAndWraps(t *testing.T) {
	path := writeBank(t, []bankQuestion{question("q0"), question("q1"), question("q2")})
	cursor := &memCursor{}

	bank, err := Load(path, cursor, zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []string{"q0", "q1", "q2", "q0", "q1"}
	for i, w := range want {
		item, err := bank.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch() #%d error: %v", i, err)
		}
		if item.Question != w {
			t.Fatalf("Fetch() #%d = %q, want %q", i, item.Question, w)
		}
	}

	if cursor.value != 2 {
		t.Fatalf("cursor = %d, want 2", cursor.value)
	}
}

func TestFetchSkipsOversizedEntries(t *testing.T) {
	oversized := question(strings.Repeat("x", 301))
	entries := []bankQuestion{question("q0"), oversized, question("q2")}
	path := writeBank(t, entries)
	cursor := &memCursor{}

	bank, err := Load(path, cursor, zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// First fetch returns q0, second must skip the oversized entry.
	for _, want := range []string{"q0", "q2"} {
		item, err := bank.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if item.Question != want {
			t.Fatalf("Fetch() = %q, want %q", item.Question, want)
		}
	}
}

func TestFetchAllEntriesInvalid(t *testing.T) {
	bad := question(strings.Repeat("x", 301))
	path := writeBank(t, []bankQuestion{bad, bad})
	bank, err := Load(path, &memCursor{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	_, err = bank.Fetch(context.Background())
	if !errors.Is(err, ErrBankExhausted) {
		t.Fatalf("Fetch() = %v, want ErrBankExhausted", err)
	}
}

func TestLoadEmptyBank(t *testing.T) {
	path := writeBank(t, []bankQuestion{})
	if _, err := Load(path, &memCursor{}, zap.NewNop()); !errors.Is(err, ErrEmptyBank) {
		t.Fatalf("Load() = %v, want ErrEmptyBank", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json"), &memCursor{}, zap.NewNop()); err == nil {
		t.Fatal("Load() succeeded for missing file")
	}
}
