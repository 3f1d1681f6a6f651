// Package client is the typed SDK for the Mix-Mode study service. It wraps
// the HTTP contract with a protocol Client, persists session pointers so a
// study run survives restarts, and drives the whole flow through a
// SessionController state machine that callers render directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mix-service/pkg/mix"
)

// Client is a typed client for the Mix-Mode HTTP contract. It is safe for
// concurrent use; responses are decoded into the shared wire types.
type Client struct {
	baseURL string
	userID  string
	httpc   *http.Client // reused across calls
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithUserID sets the identity header sent with every request. In
// production the gateway injects it after verifying the caller's token.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSession creates a fresh session over the given decks.
func (c *Client) StartSession(ctx context.Context, courseID string, deckIDs []string) (*mix.StartSessionResult, error) {
	body := &mix.StartSessionRequest{CourseID: courseID, DeckIDs: deckIDs}
	var result mix.StartSessionResult
	if err := c.do(ctx, http.MethodPost, "/mix/start", body, &result, KindSessionCreation, "start session"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSession fetches a session the caller owns. Used to resume: a failure
// here is soft and the caller starts fresh instead.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*mix.SessionInfo, error) {
	var info mix.SessionInfo
	if err := c.do(ctx, http.MethodGet, "/mix/session/"+sessionID, nil, &info, KindSessionResume, "resume session"); err != nil {
		return nil, err
	}
	return &info, nil
}

// NextActivity fetches the next activity. A nil activity with a nil error
// means the session is complete; the server signals it with a JSON null.
func (c *Client) NextActivity(ctx context.Context, sessionID string) (*mix.Activity, error) {
	var activity *mix.Activity
	if err := c.do(ctx, http.MethodGet, "/mix/session/"+sessionID+"/next", nil, &activity, KindActivityFetch, "fetch next activity"); err != nil {
		return nil, err
	}
	return activity, nil
}

// SubmitAnswer grades the pending question and returns the feedback.
func (c *Client) SubmitAnswer(ctx context.Context, sessionID string, req *mix.SubmitAnswerRequest) (*mix.AnswerFeedback, error) {
	var feedback mix.AnswerFeedback
	if err := c.do(ctx, http.MethodPost, "/mix/session/"+sessionID+"/answer", req, &feedback, KindSubmitAnswer, "submit answer"); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// RevealAnswer gives up on the pending question and returns the solution.
func (c *Client) RevealAnswer(ctx context.Context, sessionID string, req *mix.RevealAnswerRequest) (*mix.RevealedAnswer, error) {
	var revealed mix.RevealedAnswer
	if err := c.do(ctx, http.MethodPost, "/mix/session/"+sessionID+"/reveal", req, &revealed, KindRevealAnswer, "reveal answer"); err != nil {
		return nil, err
	}
	return &revealed, nil
}

// SessionStatus fetches live progress and points for a session.
func (c *Client) SessionStatus(ctx context.Context, sessionID string) (*mix.SessionStatus, error) {
	var status mix.SessionStatus
	if err := c.do(ctx, http.MethodGet, "/mix/session/"+sessionID+"/status", nil, &status, KindActivityFetch, "fetch session status"); err != nil {
		return nil, err
	}
	return &status, nil
}

// DeckReadiness computes the readiness score for a deck selection.
func (c *Client) DeckReadiness(ctx context.Context, req *mix.DeckReadinessRequest) (*mix.ReadinessScore, error) {
	var score mix.ReadinessScore
	if err := c.do(ctx, http.MethodPost, "/mix/deck-readiness", req, &score, KindReadinessFetch, "fetch deck readiness"); err != nil {
		return nil, err
	}
	return &score, nil
}

// LectureReadiness returns per-lecture scores keyed by lecture id.
func (c *Client) LectureReadiness(ctx context.Context, courseID string, lectureIDs []string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("course_id", courseID)
	q.Set("lecture_ids", strings.Join(lectureIDs, ","))
	var scores map[string]float64
	if err := c.do(ctx, http.MethodGet, "/api/v1/readiness/lectures?"+q.Encode(), nil, &scores, KindReadinessFetch, "fetch lecture readiness"); err != nil {
		return nil, err
	}
	return scores, nil
}

// FlashcardContent fetches the learn-view content of a single flashcard,
// used when the learner refers back to the source card mid-session.
func (c *Client) FlashcardContent(ctx context.Context, courseID, flashcardID string) (*mix.FlashcardContent, error) {
	var content mix.FlashcardContent
	path := "/mix/flashcard/" + courseID + "/" + flashcardID
	if err := c.do(ctx, http.MethodGet, path, nil, &content, KindFlashcardFetch, "fetch flashcard content"); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, kind Kind, op string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: kind, Op: op, Wrapped: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Kind: kind, Op: op, Wrapped: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &Error{Kind: kind, Op: op, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &Error{Kind: kind, Op: op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: kind, Op: op, Wrapped: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage pulls the "error" field out of a failed response body.
func errorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}
