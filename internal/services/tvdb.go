package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/showtrack/internal/metrics"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/time/rate"
)

const defaultTVDBBaseURL = "http://thetvdb.com"

// TVDBService implements [MetadataService] against TheTVDB's legacy XML API.
//
// Requests are strictly sequential from the caller's point of view and are never retried.
// All outbound calls pass through a shared [rate.Limiter].
type TVDBService struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTVDBService creates a client for baseURL authenticated by apiKey.
func NewTVDBService(baseURL, apiKey string, client *http.Client) *TVDBService {
	if baseURL == "" {
		baseURL = defaultTVDBBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TVDBService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		language:   "en",
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
}

// NewTVDBServiceFromConfig builds a client with the configured timeout, language and request rate.
func NewTVDBServiceFromConfig(cfg shared.TVDBConfig) (*TVDBService, error) {
	if cfg.APIKey == "" {
		return nil, shared.ErrMissingAPIKey
	}

	timeout, err := cfg.ClientTimeout()
	if err != nil {
		return nil, err
	}

	srv := NewTVDBService(cfg.BaseURL, cfg.APIKey, &http.Client{Timeout: timeout})
	if cfg.Language != "" {
		srv.language = cfg.Language
	}
	srv.SetRateLimit(cfg.RequestsPerSecond)
	return srv, nil
}

// SetRateLimit caps outbound requests per second. Values <= 0 remove the cap.
func (s *TVDBService) SetRateLimit(rps float64) {
	if rps <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// Name returns the provider name
func (s *TVDBService) Name() string {
	return "TheTVDB"
}

type searchDocument struct {
	XMLName xml.Name        `xml:"Data"`
	Series  []SeriesSummary `xml:"Series"`
}

type detailDocument struct {
	XMLName  xml.Name        `xml:"Data"`
	Series   []SeriesRecord  `xml:"Series"`
	Episodes []EpisodeRecord `xml:"Episode"`
}

// SearchSeries queries GetSeries.php for name. Name should already be normalized.
func (s *TVDBService) SearchSeries(ctx context.Context, name string) ([]SeriesSummary, error) {
	endpoint := fmt.Sprintf("%s/api/GetSeries.php?seriesname=%s", s.baseURL, url.QueryEscape(name))

	body, _, err := s.get(ctx, "search", endpoint)
	if err != nil {
		return nil, err
	}

	var doc searchDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse search response: %v", shared.ErrUpstream, err)
	}

	results := make([]SeriesSummary, 0, len(doc.Series))
	for _, series := range doc.Series {
		if series.SeriesID == "" {
			series.SeriesID = series.ID
		}
		results = append(results, series)
	}
	return results, nil
}

// GetSeries retrieves the full record for seriesID including all episodes.
func (s *TVDBService) GetSeries(ctx context.Context, seriesID string) (*SeriesDetail, error) {
	endpoint := fmt.Sprintf("%s/api/%s/series/%s/all/%s.xml",
		s.baseURL, url.PathEscape(s.apiKey), url.PathEscape(seriesID), url.PathEscape(s.language))

	body, _, err := s.get(ctx, "series", endpoint)
	if err != nil {
		return nil, err
	}

	var doc detailDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse series %s: %v", shared.ErrUpstream, seriesID, err)
	}

	if len(doc.Series) == 0 {
		return nil, fmt.Errorf("%w: series %s response has no Series element", shared.ErrUpstream, seriesID)
	}

	return &SeriesDetail{Series: doc.Series[0], Episodes: doc.Episodes}, nil
}

// FetchBanner downloads the banner at path relative to the provider's banner root.
//
// When the response carries no Content-Type the media type is sniffed from the body.
func (s *TVDBService) FetchBanner(ctx context.Context, path string) (*Banner, error) {
	endpoint := fmt.Sprintf("%s/banners/%s", s.baseURL, strings.TrimLeft(path, "/"))

	body, header, err := s.get(ctx, "banner", endpoint)
	if err != nil {
		return nil, err
	}

	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = mimetype.Detect(body).String()
	}

	return &Banner{ContentType: contentType, Data: body}, nil
}

// get performs a rate limited GET and returns the body of a 2xx response.
//
// op labels the call in errors and metrics; endpoint itself is never logged because it may carry the API key.
func (s *TVDBService) get(ctx context.Context, op, endpoint string) ([]byte, http.Header, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: rate limiter: %v", shared.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(op, 0, time.Since(start))
		return nil, nil, fmt.Errorf("%w: %s request failed: %v", shared.ErrUpstream, op, redact(err, s.apiKey))
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("%w: %s returned status %d", shared.ErrUpstream, op, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read %s response: %v", shared.ErrUpstream, op, err)
	}

	return body, resp.Header, nil
}

// redact strips the API key from transport errors, which quote the request URL.
func redact(err error, apiKey string) string {
	if apiKey == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), apiKey, "***")
}
