package mu

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

func propertyPath(id string) string {
	return "/propiedades/" + url.PathEscape(id)
}

// Find retrieves a property by id.
func (s PropertiesService) Find(ctx context.Context, id string) (*Response, error) {
	return findProperty(ctx, s, id)
}

func findProperty(ctx context.Context, r Requester, id string) (*Response, error) {
	if strings.TrimSpace(id) == "" {
		return nil, missingPropertyID()
	}
	return r.Execute(ctx, http.MethodGet, propertyPath(id), nil)
}

// List retrieves properties filtered by query. An empty "scopes" entry is
// sent as scopes[]= so the API sees an explicit empty filter.
func (s PropertiesService) List(ctx context.Context, query Params) (*Response, error) {
	return listProperties(ctx, s, query)
}

func listProperties(ctx context.Context, r Requester, query Params) (*Response, error) {
	return r.Execute(ctx, http.MethodGet, "/propiedades", query)
}

// Create publishes a new property.
func (s PropertiesService) Create(ctx context.Context, data Params) (*Response, error) {
	return createProperty(ctx, s, data)
}

func createProperty(ctx context.Context, r Requester, data Params) (*Response, error) {
	return r.Execute(ctx, http.MethodPost, "/propiedades", data)
}

// Update patches an existing property.
func (s PropertiesService) Update(ctx context.Context, id string, data Params) (*Response, error) {
	return updateProperty(ctx, s, id, data)
}

func updateProperty(ctx context.Context, r Requester, id string, data Params) (*Response, error) {
	if strings.TrimSpace(id) == "" {
		return nil, missingPropertyID()
	}
	return r.Execute(ctx, http.MethodPatch, propertyPath(id), data)
}

// UpdateScopes replaces the publication scopes of a property.
func (s PropertiesService) UpdateScopes(ctx context.Context, id string, scopes Params) (*Response, error) {
	return updatePropertyScopes(ctx, s, id, scopes)
}

func updatePropertyScopes(ctx context.Context, r Requester, id string, scopes Params) (*Response, error) {
	if strings.TrimSpace(id) == "" {
		return nil, missingPropertyID()
	}
	return r.Execute(ctx, http.MethodPatch, propertyPath(id)+"/scopes", scopes)
}

// Delete removes a property.
func (s PropertiesService) Delete(ctx context.Context, id string) (*Response, error) {
	return deleteProperty(ctx, s, id)
}

func deleteProperty(ctx context.Context, r Requester, id string) (*Response, error) {
	if strings.TrimSpace(id) == "" {
		return nil, missingPropertyID()
	}
	return r.Execute(ctx, http.MethodDelete, propertyPath(id), nil)
}
