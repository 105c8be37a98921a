package reader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/sounding"
)

// UWyoWeb fetches a sounding from the University of Wyoming atmospheric
// sounding archive. The archive serves an HTML page whose <PRE> block
// holds the same fixed-width table the uwyo file reader parses.
type UWyoWeb struct {
	station    string
	timeStr    string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func newUWyoWeb(opts Options, rt config.Runtime, logger *slog.Logger) Reader {
	return &UWyoWeb{
		station: opts.Station,
		timeStr: opts.Time,
		baseURL: rt.UWyoBaseURL,
		httpClient: &http.Client{
			Timeout: rt.HTTPTimeout,
		},
		logger: logger,
	}
}

func (r *UWyoWeb) Read(ctx context.Context) (*sounding.Sounding, error) {
	when, err := r.requestTime()
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"TYPE":  {"TEXT:LIST"},
		"YEAR":  {when.Format("2006")},
		"MONTH": {when.Format("01")},
		"FROM":  {when.Format("0215")},
		"TO":    {when.Format("0215")},
		"STNM":  {r.station},
	}
	fullURL := r.baseURL + "?" + params.Encode()
	r.logger.Debug("fetching sounding", "station", r.station, "time", when, "url", fullURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch station %s: %w", r.station, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("uwyo archive error: status %d: %s", resp.StatusCode, firstLine(body))
	}

	text, err := extractPreText(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse archive page: %w", err)
	}
	if text == "" {
		return nil, fmt.Errorf("station %s: no sounding data for %s", r.station, when.Format("2006-01-02 15Z"))
	}

	snd, err := parseUWyoText(text)
	if err != nil {
		return nil, fmt.Errorf("parse station %s sounding: %w", r.station, err)
	}
	snd.Source = "uwyoweb"
	if snd.StationID == "" {
		snd.StationID = r.station
	}
	r.logger.Debug("remote sounding read", "station", snd.StationID, "levels", len(snd.Levels))
	return snd, nil
}

// requestTime resolves the -t flag (YYYYMMDDHH) or, when absent, the most
// recent synoptic hour (00Z/12Z) with an hour of slack for the upload lag.
func (r *UWyoWeb) requestTime() (time.Time, error) {
	if r.timeStr == "" {
		return latestSynoptic(sounding.Now()), nil
	}
	when, err := time.Parse("2006010215", r.timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want YYYYMMDDHH: %w", r.timeStr, err)
	}
	return when, nil
}

func latestSynoptic(now time.Time) time.Time {
	t := now.UTC().Add(-1 * time.Hour)
	hour := 0
	if t.Hour() >= 12 {
		hour = 12
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.UTC)
}

// extractPreText concatenates the text of every <h2> and <pre> element in
// document order. The archive titles each sounding in an <h2> and puts the
// data table in the following <pre>, so the result matches the saved-page
// layout the shared text parser expects.
func extractPreText(body io.Reader) (string, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, keep bool) {
		if n.Type == html.ElementNode && (n.Data == "pre" || n.Data == "h2") {
			keep = true
		}
		if n.Type == html.TextNode && keep {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, keep)
		}
		if n.Type == html.ElementNode && n.Data == "h2" {
			sb.WriteString("\n")
		}
	}
	walk(doc, false)
	return strings.TrimSpace(sb.String()), nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
