package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"RestaurantAdviser/api/metrics"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultBaseURL is the Places web service root.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

	// A next_page_token only becomes valid a short while after it is issued.
	defaultPageDelay = 2 * time.Second

	defaultPhotoWidth = 400
	detailsFields     = "name,rating,formatted_address,geometry,photos,price_level,user_ratings_total,opening_hours,business_status"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	pageDelay  time.Duration
	details    *expirable.LRU[string, Restaurant]
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageDelay overrides the wait before following a next_page_token.
func WithPageDelay(d time.Duration) Option {
	return func(c *Client) { c.pageDelay = d }
}

// WithDetailsCache sizes the in-process details cache. A size of zero
// disables it.
func WithDetailsCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		if size <= 0 {
			c.details = nil
			return
		}
		c.details = expirable.NewLRU[string, Restaurant](size, nil, ttl)
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		pageDelay:  defaultPageDelay,
		details:    expirable.NewLRU[string, Restaurant](512, nil, 30*time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type placeResult struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	Rating           float64 `json:"rating"`
	Vicinity         string  `json:"vicinity"`
	FormattedAddress string  `json:"formatted_address"`
	PriceLevel       *int    `json:"price_level"`
	UserRatingsTotal int     `json:"user_ratings_total"`
	BusinessStatus   string  `json:"business_status"`
	Geometry         struct {
		Location Location `json:"location"`
	} `json:"geometry"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
	OpeningHours *struct {
		OpenNow     *bool    `json:"open_now"`
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
}

type nearbyResponse struct {
	Results       []placeResult `json:"results"`
	NextPageToken string        `json:"next_page_token"`
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message"`
}

type detailsResponse struct {
	Result       placeResult `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
}

// NearbySearch collects up to MaxResults restaurants around req.Location,
// following next_page_token, and returns them ranked.
func (c *Client) NearbySearch(ctx context.Context, req SearchRequest) ([]Restaurant, error) {
	req = req.Effective()

	var all []Restaurant
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("key", c.apiKey)
		if pageToken != "" {
			params.Set("pagetoken", pageToken)
		} else {
			params.Set("location", req.Location.String())
			params.Set("radius", strconv.Itoa(req.Radius))
			params.Set("type", "restaurant")
		}

		var page nearbyResponse
		if err := c.get(ctx, "nearbysearch", params, &page); err != nil {
			return nil, err
		}
		if err := checkStatus("nearbysearch", page.Status, page.ErrorMessage); err != nil {
			return nil, err
		}
		for _, r := range page.Results {
			all = append(all, c.toRestaurant(r, false))
		}

		pageToken = page.NextPageToken
		if pageToken == "" || len(all) >= MaxResults {
			break
		}
		if err := sleep(ctx, c.pageDelay); err != nil {
			return nil, err
		}
	}

	return Rank(all, req), nil
}

// Details fetches one place. Successful lookups are cached in-process.
func (c *Client) Details(ctx context.Context, placeID string) (Restaurant, error) {
	if c.details != nil {
		if r, ok := c.details.Get(placeID); ok {
			metrics.PlacesCacheLookups.WithLabelValues("details", metrics.ResultHit).Inc()
			return r, nil
		}
		metrics.PlacesCacheLookups.WithLabelValues("details", metrics.ResultMiss).Inc()
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	params.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.get(ctx, "details", params, &resp); err != nil {
		return Restaurant{}, err
	}
	if err := checkStatus("details", resp.Status, resp.ErrorMessage); err != nil {
		return Restaurant{}, err
	}
	if resp.Status == "ZERO_RESULTS" {
		return Restaurant{}, &StatusError{Endpoint: "details", Status: resp.Status, Message: placeID}
	}

	if resp.Result.PlaceID == "" {
		resp.Result.PlaceID = placeID
	}
	r := c.toRestaurant(resp.Result, true)
	if c.details != nil {
		c.details.Add(placeID, r)
	}
	return r, nil
}

// PhotoURL builds a photo link for a photo reference, or "" when ref is empty.
func (c *Client) PhotoURL(ref string, maxWidth int) string {
	if ref == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = defaultPhotoWidth
	}
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("photoreference", ref)
	params.Set("key", c.apiKey)
	return c.baseURL + "/photo?" + params.Encode()
}

func (c *Client) toRestaurant(p placeResult, detailed bool) Restaurant {
	r := Restaurant{
		PlaceID:          p.PlaceID,
		Name:             p.Name,
		Rating:           p.Rating,
		Address:          p.Vicinity,
		Location:         p.Geometry.Location,
		PriceLevel:       p.PriceLevel,
		UserRatingsTotal: p.UserRatingsTotal,
		BusinessStatus:   p.BusinessStatus,
	}
	if detailed && p.FormattedAddress != "" {
		r.Address = p.FormattedAddress
	}
	if r.Name == "" {
		r.Name = "Unknown Restaurant"
	}
	if r.Address == "" {
		r.Address = "No address available"
	}
	for _, ph := range p.Photos {
		if ph.PhotoReference != "" {
			r.PhotoReferences = append(r.PhotoReferences, ph.PhotoReference)
		}
	}
	if len(r.PhotoReferences) > 0 {
		r.PhotoReference = r.PhotoReferences[0]
		r.PhotoURL = c.PhotoURL(r.PhotoReference, defaultPhotoWidth)
	}
	if p.OpeningHours != nil {
		r.OpenNow = p.OpeningHours.OpenNow
		r.OpeningHours = p.OpeningHours.WeekdayText
	}
	return r
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dst interface{}) error {
	start := time.Now()
	result := metrics.ResultError
	defer func() {
		metrics.PlacesRequestDuration.WithLabelValues(endpoint, result).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"/json?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("places %s: build request: %w", endpoint, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places %s: unexpected http status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("places %s: decode: %w", endpoint, err)
	}
	result = metrics.ResultOK
	return nil
}

func checkStatus(endpoint, status, message string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	default:
		return &StatusError{Endpoint: endpoint, Status: status, Message: message}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
