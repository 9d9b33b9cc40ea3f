package anki

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/revijouer/core/internal/infrastructure/config"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/infrastructure/metrics"
)

// request is the AnkiConnect envelope
type request struct {
	Action  string         `json:"action"`
	Version int            `json:"version"`
	Params  map[string]any `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// APIError is an error reported by AnkiConnect itself
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anki %s: %s", e.Action, e.Message)
}

// CardInfo is the subset of a cardsInfo entry the trainer uses
type CardInfo struct {
	CardID   int64  `json:"cardId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	DeckName string `json:"deckName"`
}

// Client talks to a local AnkiConnect instance. Calls are synchronous,
// paced by a rate limiter and never retried.
type Client struct {
	http     *resty.Client
	endpoint string
	version  int
	limiter  *rate.Limiter
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// NewClient creates a new AnkiConnect client
func NewClient(cfg config.AnkiConfig, logger *logger.Logger, m *metrics.Metrics) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	version := cfg.Version
	if version == 0 {
		version = 6
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:     httpClient,
		endpoint: cfg.Endpoint(),
		version:  version,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.WithComponent("anki_client"),
		metrics:  m,
	}
}

// Endpoint returns the AnkiConnect URL the client posts to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Invoke runs one AnkiConnect action and decodes its result into out, which
// may be nil.
func (c *Client) Invoke(ctx context.Context, action string, params map[string]any, out any) (err error) {
	defer func() { c.metrics.ObserveAnkiRequest(action, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("anki %s: %w", action, err)
	}

	if params == nil {
		params = map[string]any{}
	}

	c.logger.Debugw("AnkiConnect request", "action", action, "params", params)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request{Action: action, Version: c.version, Params: params}).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("anki %s: %w", action, err)
	}
	if resp.IsError() {
		return fmt.Errorf("anki %s: unexpected status %d", action, resp.StatusCode())
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return fmt.Errorf("anki %s: decode response: %w", action, err)
	}
	if body.Error != nil {
		return &APIError{Action: action, Message: *body.Error}
	}

	if out != nil && len(body.Result) > 0 {
		if err := json.Unmarshal(body.Result, out); err != nil {
			return fmt.Errorf("anki %s: decode result: %w", action, err)
		}
	}
	return nil
}

// Version returns the AnkiConnect API version
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	if err := c.Invoke(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	decks := []string{}
	if err := c.Invoke(ctx, "deckNames", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

func (c *Client) FindCards(ctx context.Context, query string) ([]int64, error) {
	ids := []int64{}
	if err := c.Invoke(ctx, "findCards", map[string]any{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) CardsInfo(ctx context.Context, ids []int64) ([]CardInfo, error) {
	cards := []CardInfo{}
	if err := c.Invoke(ctx, "cardsInfo", map[string]any{"cards": ids}, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// AnswerCard rates the card currently shown in the Anki reviewer. It reports
// false when Anki refused the answer.
func (c *Client) AnswerCard(ctx context.Context, cardID int64, ease int) (bool, error) {
	var ok bool
	err := c.Invoke(ctx, "guiAnswerCard", map[string]any{"cardId": cardID, "ease": ease}, &ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}
