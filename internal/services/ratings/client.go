package ratings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/mcoot/chessclub/internal/dependencies/clock"
	"github.com/mcoot/chessclub/internal/model"
)

// DefaultBaseURL is the US Chess ratings API
const DefaultBaseURL = "https://ratings-api.uschess.org/api/v1"

var tracer = otel.Tracer("github.com/mcoot/chessclub/internal/services/ratings")

// Config configures the federation API client
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration // Successful responses are reused for this long
	MaxBody  int64         // Larger response bodies are rejected
}

// DefaultConfig returns the client defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  5 * time.Second,
		CacheTTL: 5 * time.Minute,
		MaxBody:  4 << 20,
	}
}

// Client queries the federation ratings API over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	cfg     Config
	clock   clock.Clock
	logger  *slog.Logger

	flight singleflight.Group

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	members   []model.CandidateProfile
	expiresAt time.Time
}

// Ensure Client implements Directory
var _ Directory = (*Client)(nil)

// NewClient creates a federation API client
func NewClient(cfg Config, clk clock.Clock, logger *slog.Logger) *Client {
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultConfig().MaxBody
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		clock:   clk,
		logger:  logger,
		cache:   make(map[string]cacheEntry),
	}
}

// Search performs a fuzzy member search
func (c *Client) Search(ctx context.Context, query string) ([]model.CandidateProfile, error) {
	q, ok := NormalizeQuery(query)
	if !ok {
		return nil, model.ErrQueryTooShort
	}

	ctx, span := tracer.Start(ctx, "ratings.Search", trace.WithAttributes(attribute.String("ratings.query", q)))
	defer span.End()

	endpoint, err := url.JoinPath(c.baseURL, "members")
	if err != nil {
		return nil, err
	}
	endpoint += "?" + url.Values{"Fuzzy": {q}}.Encode()

	members, err := c.fetch(ctx, "search:"+strings.ToLower(q), endpoint, decodeMemberList)
	if err != nil {
		// The directory answers 404 when nothing matches
		if errors.Is(err, model.ErrMemberNotFound) {
			return []model.CandidateProfile{}, nil
		}
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("ratings.results", len(members)))
	return members, nil
}

// Lookup fetches a single member by ID
func (c *Client) Lookup(ctx context.Context, memberID string) (*model.CandidateProfile, error) {
	id := strings.TrimSpace(memberID)
	if id == "" {
		return nil, model.ErrMemberNotFound
	}

	ctx, span := tracer.Start(ctx, "ratings.Lookup", trace.WithAttributes(attribute.String("ratings.member_id", id)))
	defer span.End()

	endpoint, err := url.JoinPath(c.baseURL, "members", id)
	if err != nil {
		return nil, err
	}

	members, err := c.fetch(ctx, "member:"+id, endpoint, decodeMember)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	if len(members) == 0 {
		return nil, model.ErrMemberNotFound
	}
	return &members[0], nil
}

type decodeFunc func(data []byte) ([]model.CandidateProfile, error)

// fetch serves from cache, collapsing identical concurrent requests into one call.
// A caller whose context ends stops waiting without failing the shared request.
func (c *Client) fetch(ctx context.Context, key, endpoint string, decode decodeFunc) ([]model.CandidateProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if members, ok := c.cached(key); ok {
		return members, nil
	}

	ch := c.flight.DoChan(key, func() (any, error) {
		members, err := c.get(context.WithoutCancel(ctx), endpoint, decode)
		if err != nil {
			return nil, err
		}
		c.store(key, members)
		return members, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneProfiles(res.Val.([]model.CandidateProfile)), nil
	}
}

func (c *Client) get(ctx context.Context, endpoint string, decode decodeFunc) ([]model.CandidateProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := c.clock.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("ratings request",
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", c.clock.Now().Sub(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return nil, model.ErrMemberNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d: %s", model.ErrLookupUnavailable, resp.StatusCode, drainError(resp.Body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrLookupUnavailable, err)
	}
	if int64(len(data)) > c.cfg.MaxBody {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", model.ErrLookupUnavailable, c.cfg.MaxBody)
	}
	members, err := decode(data)
	if errors.Is(err, model.ErrMemberNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", model.ErrLookupUnavailable, err)
	}
	return members, nil
}

func (c *Client) cached(key string) ([]model.CandidateProfile, bool) {
	if c.cfg.CacheTTL <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		delete(c.cache, key)
		return nil, false
	}
	return cloneProfiles(entry.members), true
}

func (c *Client) store(key string, members []model.CandidateProfile) {
	if c.cfg.CacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{
		members:   cloneProfiles(members),
		expiresAt: c.clock.Now().Add(c.cfg.CacheTTL),
	}
}

// Wire format

type memberPayload struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Title          string          `json:"title"`
	StateRep       string          `json:"stateRep"`
	Status         string          `json:"status"`
	ExpirationDate string          `json:"expirationDate"`
	Ratings        []ratingPayload `json:"ratings"`
}

type ratingPayload struct {
	Rating        *int   `json:"rating"`
	RatingSystem  string `json:"ratingSystem"`
	GamesPlayed   int    `json:"gamesPlayed"`
	IsProvisional bool   `json:"isProvisional"`
}

type memberListPayload struct {
	Items []memberPayload `json:"items"`
}

func (p memberPayload) toProfile() model.CandidateProfile {
	profile := model.CandidateProfile{
		ID:             strings.TrimSpace(p.ID),
		FirstName:      strings.TrimSpace(p.FirstName),
		LastName:       strings.TrimSpace(p.LastName),
		Title:          strings.TrimSpace(p.Title),
		StateRep:       strings.TrimSpace(p.StateRep),
		Status:         strings.TrimSpace(p.Status),
		ExpirationDate: strings.TrimSpace(p.ExpirationDate),
	}
	for _, r := range p.Ratings {
		profile.Ratings = append(profile.Ratings, model.Rating{
			RatingSystem:  r.RatingSystem,
			Rating:        r.Rating,
			GamesPlayed:   r.GamesPlayed,
			IsProvisional: r.IsProvisional,
		})
	}
	return profile
}

// decodeMemberList accepts either a bare array or an {"items": [...]} envelope
func decodeMemberList(data []byte) ([]model.CandidateProfile, error) {
	trimmed := bytes.TrimSpace(data)
	var payloads []memberPayload
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			return nil, err
		}
	} else {
		var envelope memberListPayload
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		payloads = envelope.Items
	}

	members := make([]model.CandidateProfile, 0, len(payloads))
	for _, p := range payloads {
		members = append(members, p.toProfile())
	}
	return members, nil
}

func decodeMember(data []byte) ([]model.CandidateProfile, error) {
	var p memberPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, model.ErrMemberNotFound
	}
	return []model.CandidateProfile{p.toProfile()}, nil
}

func drainError(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(data))
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func cloneProfiles(members []model.CandidateProfile) []model.CandidateProfile {
	out := make([]model.CandidateProfile, len(members))
	copy(out, members)
	return out
}
