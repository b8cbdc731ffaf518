/*
Package tracker implements the gateway to the external issue tracker.

This file defines the Gateway struct, which fetches issue summaries and
creates issues over the tracker's HTTP API. The wire encoding (XML or JSON)
is a tagged variant fixed once at construction: it selects both the response
decoder and the create-payload encoder for the lifetime of the process.
*/
package tracker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/louiz/rugamia/internal/pkg/errs"
	"github.com/louiz/rugamia/internal/pkg/logx"
)

const (
	// requestTimeout bounds every tracker HTTP call so a stuck request
	// resolves to an error instead of hanging a reply forever.
	requestTimeout = 10 * time.Second

	// apiKeyHeader carries the per-identity access key on create requests.
	apiKeyHeader = "X-Redmine-API-Key"

	// Tracker request throttle: sustained rate and burst. A single chat
	// message can legitimately trigger a burst of reference lookups.
	throttleRate  = rate.Limit(2)
	throttleBurst = 4
)

// Format is the tracker wire encoding, selected once at configuration time.
type Format int

const (
	FormatXML Format = iota
	FormatJSON
)

// ParseFormat maps the configuration selector to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, errs.NewError(errs.ErrInvalidTrackerFormat, s)
	}
}

// String returns the selector/extension form of the format.
func (f Format) String() string {
	if f == FormatXML {
		return "xml"
	}
	return "json"
}

// Issue is the normalized result of a tracker fetch, independent of the
// tracker's wire encoding.
type Issue struct {
	ID        int
	Subject   string
	Status    string
	Tracker   string
	Author    string
	CreatedOn string
	UpdatedOn string
	URL       string
}

// KeyStore is the slice of the credential store the gateway needs.
type KeyStore interface {
	GetKey(identity string) (string, bool)
	GetProjectID(room string) (int, error)
}

// Gateway performs issue fetches and creations against one tracker instance.
// Safe for concurrent use; worker goroutines share one Gateway.
type Gateway struct {
	// baseURL of the tracker, without trailing slash.
	baseURL string

	// format fixes the request/response encoding.
	format Format

	// creds resolves identities to API keys and rooms to project ids.
	creds KeyStore

	// client is the shared HTTP client with the request timeout applied.
	client *http.Client

	// limiter throttles outgoing tracker requests (token bucket).
	limiter *rate.Limiter

	// structured logger with gateway context.
	logger zerolog.Logger
}

// NewGateway constructs a Gateway for the given tracker base URL and format.
func NewGateway(baseURL string, format Format, creds KeyStore) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		format:  format,
		creds:   creds,
		client:  &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(throttleRate, throttleBurst),
		logger:  logx.Component("TrackerGateway"),
	}
}

// FetchIssue retrieves the issue with the given numeric id.
// A non-success status or an undecodable response comes back as an error the
// caller turns into a "not found" reply. A response that decodes to an empty
// record returns (nil, nil), which the caller answers with silence.
func (g *Gateway) FetchIssue(ctx context.Context, id int) (*Issue, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/issues/%d.%s", g.baseURL, id, g.format)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Debug().Int("issue", id).Str("status", resp.Status).Msg("Issue fetch rejected by tracker.")
		return nil, errs.NewError(errs.ErrTrackerStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var issue *Issue
	if g.format == FormatXML {
		issue, err = parseIssueXML(body)
	} else {
		issue, err = parseIssueJSON(body)
	}
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, nil
	}

	issue.ID = id
	issue.URL = fmt.Sprintf("%s/issues/%d", g.baseURL, id)
	return issue, nil
}

// CreateIssue files a new issue with the given title and body under the
// project mapped to room, authenticated with the identity's API key.
// It returns the human-readable outcome relayed verbatim to the room.
func (g *Gateway) CreateIssue(ctx context.Context, identity, room, title, body string) (string, error) {
	key, ok := g.creds.GetKey(identity)
	if !ok {
		return "", errs.NewError(errs.ErrNoTrackerKey)
	}

	projectID, err := g.creds.GetProjectID(room)
	if err != nil {
		return "", err
	}

	var payload []byte
	if g.format == FormatXML {
		payload, err = encodeCreateXML(projectID, title, body)
	} else {
		payload, err = encodeCreateJSON(projectID, title, body)
	}
	if err != nil {
		return "", err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/issues.%s", g.baseURL, g.format)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set(apiKeyHeader, key)
	req.Header.Set("Content-Type", fmt.Sprintf("application/%s", g.format))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Warn().Str("room", room).Str("status", resp.Status).Msg("Issue creation rejected by tracker.")
		return "", errs.NewError(errs.ErrTrackerStatus, resp.Status)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var createdID int
	if g.format == FormatXML {
		createdID, err = parseCreatedXML(respBody)
	} else {
		createdID, err = parseCreatedJSON(respBody)
	}
	if err != nil {
		return "", err
	}

	g.logger.Info().Str("room", room).Int("issue", createdID).Msg("Issue created.")
	return fmt.Sprintf("Bug created: %s/issues/%d", g.baseURL, createdID), nil
}
