package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Endpoint is one entry in the registry: an HTTP method plus a path
// template with {param} placeholders.
type Endpoint struct {
	Method string
	Path   string
}

// Expand substitutes path parameters into the template. Every placeholder
// must be supplied; extra parameters are an error too, so a renamed
// placeholder can't silently produce a broken URL.
func (e Endpoint) Expand(params map[string]string) (string, error) {
	path := e.Path
	for key, val := range params {
		placeholder := "{" + key + "}"
		if !strings.Contains(path, placeholder) {
			return "", fmt.Errorf("endpoint %s %s: unknown path parameter %q", e.Method, e.Path, key)
		}
		path = strings.ReplaceAll(path, placeholder, val)
	}
	if i := strings.IndexByte(path, '{'); i >= 0 {
		return "", fmt.Errorf("endpoint %s %s: missing path parameter %s", e.Method, e.Path, path[i:])
	}
	return path, nil
}

// Endpoints maps logical operation names to their route. Handlers never
// build URLs by hand; they look the route up here.
var Endpoints = map[string]Endpoint{
	"auth.register":        {http.MethodPost, "/api/v1/auth/register"},
	"auth.login":           {http.MethodPost, "/api/v1/auth/login"},
	"auth.logout":          {http.MethodPost, "/api/v1/auth/logout"},
	"auth.me":              {http.MethodGet, "/api/v1/auth/me"},
	"auth.forgot_password": {http.MethodPost, "/api/v1/auth/forgot-password"},
	"auth.reset_password":  {http.MethodPost, "/api/v1/auth/reset-password"},

	"users.get":              {http.MethodGet, "/api/v1/users/{uuid}"},
	"users.update":           {http.MethodPut, "/api/v1/users/{uuid}"},
	"users.delete":           {http.MethodDelete, "/api/v1/users/{uuid}"},
	"users.register_device":  {http.MethodPost, "/api/v1/users/{uuid}/devices"},
	"users.stats":            {http.MethodGet, "/api/v1/users/{uuid}/stats"},
	"users.books":            {http.MethodGet, "/api/v1/users/{uuid}/books"},
	"users.presigned_upload": {http.MethodPost, "/api/v1/users/{uuid}/books/presigned-upload"},

	"books.get":              {http.MethodGet, "/api/v1/books/{uuid}"},
	"books.update":           {http.MethodPut, "/api/v1/books/{uuid}"},
	"books.delete":           {http.MethodDelete, "/api/v1/books/{uuid}"},
	"books.content":          {http.MethodGet, "/api/v1/books/{uuid}/content"},
	"books.process":          {http.MethodPost, "/api/v1/books/{uuid}/process"},
	"books.highlights":       {http.MethodGet, "/api/v1/books/{uuid}/highlights"},
	"books.reading_progress": {http.MethodGet, "/api/v1/books/{uuid}/reading-progress"},

	"highlights.create":          {http.MethodPost, "/api/v1/highlights"},
	"highlights.get":             {http.MethodGet, "/api/v1/highlights/{uuid}"},
	"highlights.update":          {http.MethodPut, "/api/v1/highlights/{uuid}"},
	"highlights.delete":          {http.MethodDelete, "/api/v1/highlights/{uuid}"},
	"highlights.toggle_favorite": {http.MethodPost, "/api/v1/highlights/{uuid}/favorite"},
	"highlights.share":           {http.MethodPost, "/api/v1/highlights/{uuid}/share"},

	"reading_progress.list":   {http.MethodGet, "/api/v1/reading-progress"},
	"reading_progress.get":    {http.MethodGet, "/api/v1/reading-progress/{id}"},
	"reading_progress.update": {http.MethodPut, "/api/v1/reading-progress/{id}"},
	"reading_progress.delete": {http.MethodDelete, "/api/v1/reading-progress/{id}"},
}

// Route looks up a logical endpoint name and expands its parameters.
// Unknown names are a programming error, surfaced as such.
func Route(name string, params map[string]string) (Endpoint, string, error) {
	ep, exists := Endpoints[name]
	if !exists {
		return Endpoint{}, "", fmt.Errorf("unknown endpoint %q", name)
	}
	path, err := ep.Expand(params)
	if err != nil {
		return Endpoint{}, "", err
	}
	return ep, path, nil
}
