package mu

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// List retrieves every property type.
func (s PropertyTypesService) List(ctx context.Context) (*Response, error) {
	return s.Execute(ctx, http.MethodGet, "/tipos-propiedad", nil)
}

// Find retrieves a property type by id.
func (s PropertyTypesService) Find(ctx context.Context, id string) (*Response, error) {
	return findPropertyType(ctx, s, id)
}

func findPropertyType(ctx context.Context, r Requester, id string) (*Response, error) {
	if strings.TrimSpace(id) == "" {
		return nil, missingID("el tipo de propiedad")
	}
	return r.Execute(ctx, http.MethodGet, "/tipos-propiedad/"+url.PathEscape(id), nil)
}

// List retrieves the operation kinds (sale, rent, ...).
func (s OperationsService) List(ctx context.Context) (*Response, error) {
	return s.Execute(ctx, http.MethodGet, "/operaciones", nil)
}

// Create registers a search alert.
func (s AlertsService) Create(ctx context.Context, data Params) (*Response, error) {
	return s.Execute(ctx, http.MethodPost, "/alertas", data)
}
