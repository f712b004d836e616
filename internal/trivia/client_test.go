package trivia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/domain/entities"
)

func newTestClient(t *testing.T, body string, status int) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, 5*time.Second)
}

func TestFetchCorrectIndexPointsAtCorrectAnswer(t *testing.T) {
	body := `{
		"response_code": 0,
		"results": [{
			"category": "Geography",
			"difficulty": "easy",
			"question": "What is the capital of France?",
			"correct_answer": "Paris",
			"incorrect_answers": ["Lyon", "Marseille", "Nice"]
		}]
	}`
	client := newTestClient(t, body, http.StatusOK)

	// Shuffling is random, so exercise the round-trip property repeatedly.
	for i := 0; i < 20; i++ {
		item, err := client.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(item.Options) != 4 {
			t.Fatalf("got %d options, want 4", len(item.Options))
		}
		if item.Options[item.CorrectIndex] != "Paris" {
			t.Fatalf("Options[%d] = %q, want %q", item.CorrectIndex, item.Options[item.CorrectIndex], "Paris")
		}
	}
}

func TestFetchDecodesHTMLEntities(t *testing.T) {
	body := `{
		"response_code": 0,
		"results": [{
			"category": "Science &amp; Nature",
			"difficulty": "easy",
			"question": "What&#039;s the chemical symbol for gold?",
			"correct_answer": "Au",
			"incorrect_answers": ["Ag", "Gd", "Go"]
		}]
	}`
	client := newTestClient(t, body, http.StatusOK)

	item, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if item.Question != "What's the chemical symbol for gold?" {
		t.Fatalf("question not decoded: %q", item.Question)
	}
	if item.Explanation != "Correct answer: Au (Science & Nature)" {
		t.Fatalf("explanation not decoded: %q", item.Explanation)
	}
}

func TestFetchCollapsesDuplicateOptions(t *testing.T) {
	// The correct answer also appears among the incorrect ones; the merged
	// set must contain it exactly once.
	body := `{
		"response_code": 0,
		"results": [{
			"category": "History",
			"difficulty": "medium",
			"question": "Who painted the Mona Lisa?",
			"correct_answer": "Leonardo da Vinci",
			"incorrect_answers": ["Leonardo da Vinci", "Raphael", "Michelangelo"]
		}]
	}`
	client := newTestClient(t, body, http.StatusOK)

	item, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(item.Options) != 3 {
		t.Fatalf("got %d options, want 3 after collapse: %v", len(item.Options), item.Options)
	}
	count := 0
	for _, opt := range item.Options {
		if opt == "Leonardo da Vinci" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("correct answer appears %d times, want 1", count)
	}
	if item.Options[item.CorrectIndex] != "Leonardo da Vinci" {
		t.Fatalf("Options[%d] = %q, want correct answer", item.CorrectIndex, item.Options[item.CorrectIndex])
	}
}

func TestFetchRejectsCollapsedOptionSet(t *testing.T) {
	// Every answer is textually identical, so deduplication collapses the
	// set to a single entry, which cannot form a poll.
	body := `{
		"response_code": 0,
		"results": [{
			"category": "History",
			"difficulty": "easy",
			"question": "Degenerate question?",
			"correct_answer": "Same",
			"incorrect_answers": ["Same", "Same", "Same"]
		}]
	}`
	client := newTestClient(t, body, http.StatusOK)

	_, err := client.Fetch(context.Background())
	if !errors.Is(err, ErrBadPayload) {
		t.Fatalf("Fetch() = %v, want ErrBadPayload", err)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		wantErr error
	}{
		{
			name:    "non-zero response code",
			body:    `{"response_code": 1, "results": []}`,
			status:  http.StatusOK,
			wantErr: ErrNoQuestion,
		},
		{
			name:    "malformed json",
			body:    `{"response_code": 0, "results"`,
			status:  http.StatusOK,
			wantErr: ErrBadPayload,
		},
		{
			name:   "server error",
			body:   `oops`,
			status: http.StatusTooManyRequests,
		},
		{
			name: "missing correct answer",
			body: `{
				"response_code": 0,
				"results": [{
					"question": "Q?",
					"correct_answer": "",
					"incorrect_answers": ["a", "b", "c"]
				}]
			}`,
			status:  http.StatusOK,
			wantErr: ErrBadPayload,
		},
		{
			name: "question too long",
			body: `{
				"response_code": 0,
				"results": [{
					"question": "` + longString(entities.MaxQuestionLen+1) + `",
					"correct_answer": "a",
					"incorrect_answers": ["b", "c", "d"]
				}]
			}`,
			status:  http.StatusOK,
			wantErr: ErrBadPayload,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.body, tc.status)
			_, err := client.Fetch(context.Background())
			if err == nil {
				t.Fatal("Fetch() succeeded, want error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("Fetch() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func longString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}
