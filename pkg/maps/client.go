package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
)

const (
	defaultBaseURL        = "https://places.googleapis.com/v1"
	defaultLanguage       = "id"
	autocompleteFieldMask = "suggestions.placePrediction.placeId,suggestions.placePrediction.text"
	placeFieldMask        = "id,formattedAddress,location"
	errorBodyLimit        = 1024
	searchURL             = "https://www.google.com/maps/search/"
)

var errAPIKeyRequired = errors.New("google maps api key is required")

// Client calls the Places API (New) to help the intake form fill an address.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, errAPIKeyRequired
	}
	client := &Client{
		apiKey:     key,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type AutocompleteRequest struct {
	Input               string   `json:"input"`
	IncludedRegionCodes []string `json:"includedRegionCodes,omitempty"`
	LanguageCode        string   `json:"languageCode,omitempty"`
}

type Suggestion struct {
	PlaceID     string
	Description string
}

type LatLng struct {
	Latitude  float64
	Longitude float64
}

type Place struct {
	PlaceID          string
	FormattedAddress string
	Location         LatLng
}

// MapsLink builds a shareable Google Maps URL for the place, the same shape
// couriers open from the task list.
func (p Place) MapsLink() string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", strconv.FormatFloat(p.Location.Latitude, 'f', 7, 64)+","+strconv.FormatFloat(p.Location.Longitude, 'f', 7, 64))
	if p.PlaceID != "" {
		q.Set("query_place_id", p.PlaceID)
	}
	return searchURL + "?" + q.Encode()
}

// Autocomplete returns place predictions for partial address input.
func (c *Client) Autocomplete(ctx context.Context, req AutocompleteRequest) ([]Suggestion, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	if strings.TrimSpace(req.Input) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "autocomplete input is required")
	}
	if req.LanguageCode == "" {
		req.LanguageCode = defaultLanguage
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal autocomplete request")
	}

	var apiResp struct {
		Suggestions []struct {
			Prediction struct {
				PlaceID string `json:"placeId"`
				Text    struct {
					Text string `json:"text"`
				} `json:"text"`
			} `json:"placePrediction"`
		} `json:"suggestions"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/places:autocomplete", autocompleteFieldMask, payload, &apiResp); err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(apiResp.Suggestions))
	for _, s := range apiResp.Suggestions {
		if s.Prediction.PlaceID == "" {
			continue
		}
		out = append(out, Suggestion{PlaceID: s.Prediction.PlaceID, Description: s.Prediction.Text.Text})
	}
	return out, nil
}

// ResolvePlace fetches the formatted address and coordinates of a place.
func (c *Client) ResolvePlace(ctx context.Context, placeID string) (*Place, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	id := strings.TrimSpace(placeID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "place ID is required")
	}

	var apiResp struct {
		ID               string `json:"id"`
		FormattedAddress string `json:"formattedAddress"`
		Location         struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
	}
	endpoint := c.baseURL + "/places/" + url.PathEscape(id) + "?languageCode=" + defaultLanguage
	if err := c.do(ctx, http.MethodGet, endpoint, placeFieldMask, nil, &apiResp); err != nil {
		return nil, err
	}

	return &Place{
		PlaceID:          apiResp.ID,
		FormattedAddress: apiResp.FormattedAddress,
		Location:         LatLng{Latitude: apiResp.Location.Latitude, Longitude: apiResp.Location.Longitude},
	}, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, fieldMask string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build places request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "places request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "places request failed")
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode places response")
	}
	return nil
}
