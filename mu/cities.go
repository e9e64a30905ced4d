package mu

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// List retrieves cities. When agencyID is set only the cities of that realty
// agency are returned.
func (s CitiesService) List(ctx context.Context, agencyID string) (*Response, error) {
	return listCities(ctx, s, agencyID)
}

func listCities(ctx context.Context, r Requester, agencyID string) (*Response, error) {
	if strings.TrimSpace(agencyID) != "" {
		return r.Execute(ctx, http.MethodGet, "/inmobiliarias/"+url.PathEscape(agencyID)+"/ciudades", nil)
	}
	return r.Execute(ctx, http.MethodGet, "/ciudades", nil)
}

// Find retrieves a city by id.
func (s CitiesService) Find(ctx context.Context, id string) (*Response, error) {
	return findCity(ctx, s, id)
}

func findCity(ctx context.Context, r Requester, id string) (*Response, error) {
	if strings.TrimSpace(id) == "" {
		return nil, missingID("la ciudad")
	}
	return r.Execute(ctx, http.MethodGet, "/ciudades/"+url.PathEscape(id), nil)
}

// Create registers a new city.
func (s CitiesService) Create(ctx context.Context, data Params) (*Response, error) {
	return createCity(ctx, s, data)
}

func createCity(ctx context.Context, r Requester, data Params) (*Response, error) {
	return r.Execute(ctx, http.MethodPost, "/ciudades", data)
}
