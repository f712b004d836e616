package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/domain/entities"
)

const DefaultBaseURL = "https://opentdb.com/api.php"

var (
	// ErrNoQuestion means the upstream had nothing usable this time; the
	// caller should simply try again later.
	ErrNoQuestion = errors.New("no question available")

	// ErrBadPayload means the upstream response could not be normalized
	// into a quiz item.
	ErrBadPayload = errors.New("malformed trivia payload")
)

// Client fetches multiple-choice questions from an Open Trivia DB compatible
// endpoint and normalizes them into quiz items.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type apiQuestion struct {
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Fetch requests one multiple-choice question. Transport errors, non-zero
// API response codes and unusable payloads are all surfaced as errors; the
// scheduling loop treats every one of them as "no quiz this tick".
func (c *Client) Fetch(ctx context.Context) (*entities.QuizItem, error) {
	url := c.baseURL + "?amount=1&type=multiple"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build trivia request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trivia question: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trivia API status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if payload.ResponseCode != 0 || len(payload.Results) == 0 {
		return nil, fmt.Errorf("%w: response code %d", ErrNoQuestion, payload.ResponseCode)
	}

	return normalize(payload.Results[0])
}

// normalize merges the correct and incorrect answers into a shuffled option
// list and recomputes the correct answer's position. Options with identical
// text collapse into one entry before the shuffle.
func normalize(q apiQuestion) (*entities.QuizItem, error) {
	question := html.UnescapeString(strings.TrimSpace(q.Question))
	correct := html.UnescapeString(strings.TrimSpace(q.CorrectAnswer))
	if question == "" || correct == "" {
		return nil, fmt.Errorf("%w: missing question or correct answer", ErrBadPayload)
	}

	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	options = append(options, correct)
	for _, answer := range q.IncorrectAnswers {
		options = append(options, html.UnescapeString(strings.TrimSpace(answer)))
	}
	options = dedupe(options)

	if len(options) < entities.MinOptions {
		return nil, fmt.Errorf("%w: only %d distinct options", ErrBadPayload, len(options))
	}

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := -1
	for i, opt := range options {
		if opt == correct {
			correctIndex = i
			break
		}
	}
	if correctIndex < 0 {
		return nil, fmt.Errorf("%w: correct answer missing from options", ErrBadPayload)
	}

	item := &entities.QuizItem{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		Explanation:  explanation(correct, q),
	}

	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	return item, nil
}

// dedupe removes duplicate option texts, keeping first occurrences in order.
func dedupe(options []string) []string {
	seen := make(map[string]bool, len(options))
	out := options[:0]
	for _, opt := range options {
		if opt == "" || seen[opt] {
			continue
		}
		seen[opt] = true
		out = append(out, opt)
	}
	return out
}

func explanation(correct string, q apiQuestion) string {
	category := html.UnescapeString(strings.TrimSpace(q.Category))
	if category == "" {
		return fmt.Sprintf("Correct answer: %s", correct)
	}
	return fmt.Sprintf("Correct answer: %s (%s)", correct, category)
}
