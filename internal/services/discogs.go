package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/discosync/internal/shared"
)

const (
	defaultBaseURL   = "https://api.discogs.com"
	defaultUserAgent = "discosync/0.3 +https://github.com/desertthunder/discosync"

	searchPageSize = 50
	listPageSize   = 100

	maxRetries = 3
)

// DiscogsService implements [Catalog] against the Discogs REST API
// (https://www.discogs.com/developers) using a personal access token.
//
// Every request funnels through the service's [RateLimiter] and a fixed-delay
// retry loop; callers never throttle or retry themselves.
type DiscogsService struct {
	baseURL    string
	userAgent  string
	token      string
	currency   string
	username   string
	httpClient *http.Client
	limiter    *RateLimiter
	retryDelay time.Duration
}

// DiscogsOpts contains configuration options for creating a DiscogsService.
type DiscogsOpts struct {
	BaseURL    string
	UserAgent  string
	Token      string
	Username   string // optional; resolved via Identity when empty
	Currency   string
	HTTPClient *http.Client
}

// NewDiscogsService creates a new Discogs catalog service.
func NewDiscogsService(opts DiscogsOpts) *DiscogsService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &DiscogsService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		token:      opts.Token,
		currency:   opts.Currency,
		username:   opts.Username,
		httpClient: opts.HTTPClient,
		limiter:    NewRateLimiter(),
		retryDelay: 5 * time.Second,
	}
}

// Limiter exposes the shared rate limiter, mainly for status reporting.
func (s *DiscogsService) Limiter() *RateLimiter {
	return s.limiter
}

// doRequest performs a rate-limited request with retries and decodes the
// JSON response into result (which may be nil for mutations).
//
// This is the only retry policy in the system: up to maxRetries attempts
// with a fixed delay, then a classified network failure carrying the last
// underlying error.
func (s *DiscogsService) doRequest(ctx context.Context, method, endpoint string, query url.Values, result any) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		lastErr = s.doOnce(ctx, method, endpoint, query, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}

		if attempt < maxRetries-1 {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("%w: %s %s failed after %d attempts: %v", shared.ErrNetwork, method, endpoint, maxRetries, lastErr)
}

func (s *DiscogsService) doOnce(ctx context.Context, method, endpoint string, query url.Values, result any) error {
	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if s.token != "" {
		req.Header.Set("Authorization", "Discogs token="+s.token)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	s.limiter.UpdateFromHeaders(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status 429", shared.ErrRateLimited)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status 401", shared.ErrAuthFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discogs API error: status %d: %s", resp.StatusCode, apiMessage(body))
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// apiMessage extracts the "message" field from a Discogs error body,
// falling back to the raw body.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

// user returns the username for list endpoints, resolving it via Identity
// on first use.
func (s *DiscogsService) user(ctx context.Context) (string, error) {
	if s.username != "" {
		return s.username, nil
	}
	id, err := s.Identity(ctx)
	if err != nil {
		return "", err
	}
	s.username = id.Username
	return s.username, nil
}

// Identity returns the authenticated user.
func (s *DiscogsService) Identity(ctx context.Context) (*Identity, error) {
	var payload struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/oauth/identity", nil, &payload); err != nil {
		return nil, err
	}
	return &Identity{ID: payload.ID, Username: payload.Username}, nil
}

type searchResultPayload struct {
	ID       int      `json:"id"`
	Type     string   `json:"type"`
	MasterID int      `json:"master_id"`
	Title    string   `json:"title"`
	Year     string   `json:"year"`
	Format   []string `json:"format"`
	Country  string   `json:"country"`
}

// Search runs a database search and returns the first page of results.
func (s *DiscogsService) Search(ctx context.Context, q SearchQuery) ([]SearchCandidate, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	} else {
		if q.ReleaseTitle != "" {
			params.Set("release_title", q.ReleaseTitle)
		}
		if q.Artist != "" {
			params.Set("artist", q.Artist)
		}
		if q.Format != "" {
			params.Set("format", q.Format)
		}
		if q.Year != 0 {
			params.Set("year", strconv.Itoa(q.Year))
		}
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	params.Set("page", "1")
	params.Set("per_page", strconv.Itoa(searchPageSize))

	var payload struct {
		Results []searchResultPayload `json:"results"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/database/search", params, &payload); err != nil {
		return nil, err
	}

	candidates := make([]SearchCandidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		year, _ := strconv.Atoi(r.Year)
		candidates = append(candidates, SearchCandidate{
			ID:       r.ID,
			Type:     r.Type,
			MasterID: r.MasterID,
			Title:    r.Title,
			Year:     year,
			Formats:  r.Format,
			Country:  r.Country,
		})
	}
	return candidates, nil
}

// Master retrieves a master release by ID.
func (s *DiscogsService) Master(ctx context.Context, masterID int) (*Master, error) {
	var payload struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		MainRelease int    `json:"main_release"`
	}
	endpoint := fmt.Sprintf("/masters/%d", masterID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	return &Master{ID: payload.ID, Title: payload.Title, MainReleaseID: payload.MainRelease}, nil
}

type versionPayload struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Format       string   `json:"format"`
	MajorFormats []string `json:"major_formats"`
	Country      string   `json:"country"`
	Released     string   `json:"released"`
}

// MasterVersions retrieves one page of a master's versions.
func (s *DiscogsService) MasterVersions(ctx context.Context, masterID, page int) ([]Version, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(searchPageSize))

	var payload struct {
		Versions []versionPayload `json:"versions"`
	}
	endpoint := fmt.Sprintf("/masters/%d/versions", masterID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, params, &payload); err != nil {
		return nil, err
	}

	versions := make([]Version, 0, len(payload.Versions))
	for _, v := range payload.Versions {
		formats := v.MajorFormats
		if len(formats) == 0 && v.Format != "" {
			formats = strings.Split(v.Format, ", ")
		}
		year := 0
		if len(v.Released) >= 4 {
			year, _ = strconv.Atoi(v.Released[:4])
		}
		versions = append(versions, Version{
			ID:      v.ID,
			Title:   v.Title,
			Formats: formats,
			Country: v.Country,
			Year:    year,
		})
	}
	return versions, nil
}

type artistPayload struct {
	Name string `json:"name"`
	ANV  string `json:"anv"`
	Join string `json:"join"`
}

type formatPayload struct {
	Name         string   `json:"name"`
	Descriptions []string `json:"descriptions"`
}

type labelPayload struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

type releasePayload struct {
	ID       int             `json:"id"`
	MasterID int             `json:"master_id"`
	Title    string          `json:"title"`
	Artists  []artistPayload `json:"artists"`
	Formats  []formatPayload `json:"formats"`
	Country  string          `json:"country"`
	Year     int             `json:"year"`
	Labels   []labelPayload  `json:"labels"`
	Community *struct {
		Have int `json:"have"`
		Want int `json:"want"`
	} `json:"community"`
}

// Release retrieves a release by ID with artist, format and label info
// flattened into the normalized shape.
func (s *DiscogsService) Release(ctx context.Context, releaseID int) (*Release, error) {
	params := url.Values{}
	params.Set("curr_abbr", s.currency)

	var payload releasePayload
	endpoint := fmt.Sprintf("/releases/%d", releaseID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, params, &payload); err != nil {
		return nil, err
	}

	release := &Release{
		ID:       payload.ID,
		MasterID: payload.MasterID,
		Title:    payload.Title,
		Artist:   joinArtists(payload.Artists),
		Country:  payload.Country,
		Year:     payload.Year,
	}
	if len(payload.Formats) > 0 {
		release.Format = payload.Formats[0].Name
		release.FormatDetails = strings.Join(payload.Formats[0].Descriptions, ", ")
	}
	if len(payload.Labels) > 0 {
		release.Label = payload.Labels[0].Name
		release.CatNo = payload.Labels[0].CatNo
	}
	if payload.Community != nil {
		have, want := payload.Community.Have, payload.Community.Want
		release.CommunityHave = &have
		release.CommunityWant = &want
	}
	return release, nil
}

// ReleaseStats retrieves marketplace statistics for a release.
func (s *DiscogsService) ReleaseStats(ctx context.Context, releaseID int) (*SaleStats, error) {
	params := url.Values{}
	params.Set("curr_abbr", s.currency)

	var payload struct {
		NumForSale  int `json:"num_for_sale"`
		LowestPrice *struct {
			Value    float64 `json:"value"`
			Currency string  `json:"currency"`
		} `json:"lowest_price"`
	}
	endpoint := fmt.Sprintf("/marketplace/stats/%d", releaseID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, params, &payload); err != nil {
		return nil, err
	}

	stats := &SaleStats{NumForSale: payload.NumForSale, Currency: s.currency}
	if payload.LowestPrice != nil {
		value := payload.LowestPrice.Value
		stats.LowestPrice = &value
		if payload.LowestPrice.Currency != "" {
			stats.Currency = payload.LowestPrice.Currency
		}
	}
	return stats, nil
}

// PriceSuggestions retrieves per-condition price suggestions for a release.
// Requires completed seller settings on the account.
func (s *DiscogsService) PriceSuggestions(ctx context.Context, releaseID int) (map[string]float64, error) {
	var payload map[string]struct {
		Value    float64 `json:"value"`
		Currency string  `json:"currency"`
	}
	endpoint := fmt.Sprintf("/marketplace/price_suggestions/%d", releaseID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	suggestions := make(map[string]float64, len(payload))
	for grade, price := range payload {
		suggestions[grade] = price.Value
	}
	return suggestions, nil
}

type basicInfoPayload struct {
	ID       int             `json:"id"`
	MasterID int             `json:"master_id"`
	Title    string          `json:"title"`
	Year     int             `json:"year"`
	Formats  []formatPayload `json:"formats"`
	Artists  []artistPayload `json:"artists"`
}

// Wantlist retrieves one page of the user's wantlist.
func (s *DiscogsService) Wantlist(ctx context.Context, page int) ([]WantlistEntry, error) {
	username, err := s.user(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(listPageSize))

	var payload struct {
		Wants []struct {
			Notes string           `json:"notes"`
			Basic basicInfoPayload `json:"basic_information"`
		} `json:"wants"`
	}
	endpoint := fmt.Sprintf("/users/%s/wants", url.PathEscape(username))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, params, &payload); err != nil {
		return nil, err
	}

	entries := make([]WantlistEntry, 0, len(payload.Wants))
	for _, w := range payload.Wants {
		entry := WantlistEntry{
			ReleaseID: w.Basic.ID,
			MasterID:  w.Basic.MasterID,
			Title:     w.Basic.Title,
			Artist:    joinArtists(w.Basic.Artists),
			Year:      w.Basic.Year,
			Notes:     w.Notes,
		}
		if len(w.Basic.Formats) > 0 {
			entry.Format = w.Basic.Formats[0].Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AddToWantlist puts a release on the user's wantlist.
func (s *DiscogsService) AddToWantlist(ctx context.Context, releaseID int) error {
	username, err := s.user(ctx)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("/users/%s/wants/%d", url.PathEscape(username), releaseID)
	return s.doRequest(ctx, http.MethodPut, endpoint, nil, nil)
}

// RemoveFromWantlist deletes a release from the user's wantlist.
func (s *DiscogsService) RemoveFromWantlist(ctx context.Context, releaseID int) error {
	username, err := s.user(ctx)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("/users/%s/wants/%d", url.PathEscape(username), releaseID)
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Collection retrieves one page of a collection folder.
func (s *DiscogsService) Collection(ctx context.Context, folderID, page int) ([]CollectionEntry, error) {
	username, err := s.user(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(listPageSize))

	var payload struct {
		Releases []struct {
			InstanceID int              `json:"instance_id"`
			FolderID   int              `json:"folder_id"`
			Basic      basicInfoPayload `json:"basic_information"`
		} `json:"releases"`
	}
	endpoint := fmt.Sprintf("/users/%s/collection/folders/%d/releases", url.PathEscape(username), folderID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, params, &payload); err != nil {
		return nil, err
	}

	entries := make([]CollectionEntry, 0, len(payload.Releases))
	for _, r := range payload.Releases {
		entry := CollectionEntry{
			InstanceID: r.InstanceID,
			FolderID:   r.FolderID,
			ReleaseID:  r.Basic.ID,
			MasterID:   r.Basic.MasterID,
			Title:      r.Basic.Title,
			Artist:     joinArtists(r.Basic.Artists),
			Year:       r.Basic.Year,
		}
		if len(r.Basic.Formats) > 0 {
			entry.Format = r.Basic.Formats[0].Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AddToCollection adds a release instance to a collection folder.
func (s *DiscogsService) AddToCollection(ctx context.Context, folderID, releaseID int) error {
	username, err := s.user(ctx)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("/users/%s/collection/folders/%d/releases/%d",
		url.PathEscape(username), folderID, releaseID)
	return s.doRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// RemoveFromCollection removes one instance of a release from a folder.
func (s *DiscogsService) RemoveFromCollection(ctx context.Context, folderID, releaseID, instanceID int) error {
	username, err := s.user(ctx)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("/users/%s/collection/folders/%d/releases/%d/instances/%d",
		url.PathEscape(username), folderID, releaseID, instanceID)
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// disambiguation suffix on artist names, e.g. "John Williams (4)"
var artistSuffixRe = regexp.MustCompile(`\s*\(\d+\)$`)

// joinArtists flattens the Discogs artists array into a display name,
// honoring the per-artist join tokens and stripping disambiguation suffixes.
func joinArtists(artists []artistPayload) string {
	var b strings.Builder
	for i, a := range artists {
		name := a.ANV
		if name == "" {
			name = a.Name
		}
		b.WriteString(artistSuffixRe.ReplaceAllString(name, ""))
		if i < len(artists)-1 {
			join := strings.TrimSpace(a.Join)
			if join != "" && join != "," {
				b.WriteString(" " + join + " ")
			} else {
				b.WriteString(", ")
			}
		}
	}
	return b.String()
}
