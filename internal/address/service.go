package address

import (
	"context"
	"strings"

	"github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/maps"
)

type placesClient interface {
	Autocomplete(ctx context.Context, req maps.AutocompleteRequest) ([]maps.Suggestion, error)
	ResolvePlace(ctx context.Context, placeID string) (*maps.Place, error)
}

// Service helps the intake form fill alamat and googleMapsLink.
type Service interface {
	Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error)
	Resolve(ctx context.Context, req ResolveRequest) (*ResolvedAddress, error)
}

type service struct {
	maps   placesClient
	region string
}

// NewService accepts a nil client; every call then reports the dependency
// as unavailable.
func NewService(client placesClient, defaultRegion string) Service {
	return &service{maps: client, region: strings.ToUpper(strings.TrimSpace(defaultRegion))}
}

func (s *service) Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error) {
	if s.maps == nil {
		return nil, errors.New(errors.CodeDependency, "address lookup is not configured")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.New(errors.CodeValidation, "query is required")
	}

	payload := maps.AutocompleteRequest{Input: query}
	region := s.region
	if country := strings.TrimSpace(req.Country); country != "" {
		region = strings.ToUpper(country)
	}
	if region != "" {
		payload.IncludedRegionCodes = []string{region}
	}
	if lang := strings.TrimSpace(req.Language); lang != "" {
		payload.LanguageCode = lang
	}

	resp, err := s.maps.Autocomplete(ctx, payload)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(resp))
	for _, item := range resp {
		suggestions = append(suggestions, Suggestion{
			PlaceID:     item.PlaceID,
			Description: item.Description,
		})
	}
	return suggestions, nil
}

func (s *service) Resolve(ctx context.Context, req ResolveRequest) (*ResolvedAddress, error) {
	if s.maps == nil {
		return nil, errors.New(errors.CodeDependency, "address lookup is not configured")
	}
	if strings.TrimSpace(req.PlaceID) == "" {
		return nil, errors.New(errors.CodeValidation, "place_id is required")
	}

	place, err := s.maps.ResolvePlace(ctx, req.PlaceID)
	if err != nil {
		return nil, err
	}
	return fromPlace(place)
}

func fromPlace(place *maps.Place) (*ResolvedAddress, error) {
	if place == nil {
		return nil, errors.New(errors.CodeDependency, "place details missing")
	}
	if place.Location.Latitude == 0 && place.Location.Longitude == 0 {
		return nil, errors.New(errors.CodeDependency, "place location missing")
	}
	street := strings.TrimSpace(place.FormattedAddress)
	if street == "" {
		return nil, errors.New(errors.CodeDependency, "formatted address missing")
	}
	return &ResolvedAddress{
		Alamat:         street,
		GoogleMapsLink: place.MapsLink(),
		Lat:            place.Location.Latitude,
		Lng:            place.Location.Longitude,
	}, nil
}

type SuggestRequest struct {
	Query    string
	Country  string
	Language string
}

type ResolveRequest struct {
	PlaceID string
}

type Suggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// ResolvedAddress uses the intake form's field names.
type ResolvedAddress struct {
	Alamat         string  `json:"alamat"`
	GoogleMapsLink string  `json:"google_maps_link"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
}
