package tle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/passtrack/internal/logging"
	"github.com/signalsfoundry/passtrack/model"
)

const (
	defaultBaseURL = "https://celestrak.org"
	defaultTimeout = 30 * time.Second

	// Celestrak caps the group catalog at a few MB; this bound keeps a
	// misbehaving endpoint from exhausting memory.
	maxResponseBytes = 16 << 20
)

// Client fetches element sets from Celestrak.
type Client struct {
	// BaseURL overrides the Celestrak endpoint, mainly for tests.
	BaseURL string

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client

	Log logging.Logger
}

// Fetch resolves the element set for one NORAD catalog number. It queries the
// per-satellite endpoint first and falls back to scanning the active-satellite
// group catalog, mirroring how Celestrak indexes recently launched objects.
func (c *Client) Fetch(ctx context.Context, noradID uint32) (model.OrbitalElements, error) {
	byID := fmt.Sprintf("%s/NORAD/elements/gp.php?CATNR=%d&FORMAT=TLE", c.baseURL(), noradID)
	el, err := c.fetchDirect(ctx, byID)
	if err == nil {
		return el, nil
	}
	c.log().Debug(ctx, "per-satellite TLE lookup failed, scanning group catalog",
		logging.Int("norad_id", int(noradID)),
		logging.String("error", err.Error()))

	group := fmt.Sprintf("%s/NORAD/elements/gp.php?GROUP=active&FORMAT=TLE", c.baseURL())
	el, groupErr := c.fetchFromGroup(ctx, group, noradID)
	if groupErr != nil {
		return model.OrbitalElements{}, fmt.Errorf("fetch TLE for NORAD %d: %w", noradID, errors.Join(err, groupErr))
	}
	return el, nil
}

func (c *Client) fetchDirect(ctx context.Context, url string) (model.OrbitalElements, error) {
	lines, err := c.get(ctx, url)
	if err != nil {
		return model.OrbitalElements{}, err
	}
	if len(lines) < 3 {
		return model.OrbitalElements{}, fmt.Errorf("response has %d lines, want a name plus two element lines", len(lines))
	}
	el := model.OrbitalElements{Name: lines[0], Line1: lines[1], Line2: lines[2]}
	if err := Validate(el); err != nil {
		return model.OrbitalElements{}, err
	}
	return el, nil
}

func (c *Client) fetchFromGroup(ctx context.Context, url string, noradID uint32) (model.OrbitalElements, error) {
	lines, err := c.get(ctx, url)
	if err != nil {
		return model.OrbitalElements{}, err
	}

	for i := 0; i+2 < len(lines); i += 3 {
		if catalogNumber(lines[i+1]) != noradID {
			continue
		}
		el := model.OrbitalElements{Name: lines[i], Line1: lines[i+1], Line2: lines[i+2]}
		if err := Validate(el); err != nil {
			return model.OrbitalElements{}, err
		}
		return el, nil
	}
	return model.OrbitalElements{}, fmt.Errorf("NORAD %d not present in group catalog", noradID)
}

func (c *Client) get(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	raw := strings.Split(strings.TrimSpace(string(body)), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimRight(strings.TrimSuffix(line, "\r"), " "))
	}
	return lines, nil
}

// catalogNumber extracts the NORAD catalog number from columns 3-7 of an
// element line, returning 0 when the field does not parse.
func catalogNumber(line string) uint32 {
	if len(line) < 7 {
		return 0
	}
	n, err := strconv.ParseUint(strings.TrimSpace(line[2:7]), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return defaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func (c *Client) log() logging.Logger {
	if c.Log != nil {
		return c.Log
	}
	return logging.Noop()
}
