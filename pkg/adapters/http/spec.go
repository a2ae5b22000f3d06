package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi.yaml
var rawSpec []byte

var (
	swaggerOnce sync.Once
	swagger     *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed and validated OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			swaggerErr = fmt.Errorf("failed to load openapi document: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			swaggerErr = fmt.Errorf("invalid openapi document: %w", err)
			return
		}
		swagger = doc
	})
	return swagger, swaggerErr
}

// requestValidator rejects requests that do not match openapi.yaml. Routes the
// document does not describe (metrics, swagger UI) pass through untouched.
func requestValidator(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	// Skip server name matching; the API may be mounted on any host.
	clone := *doc
	clone.Servers = nil
	router, err := legacy.NewRouter(&clone)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if err := validate(r, route, pathParams); err != nil {
				writeJSON(w, http.StatusBadRequest, Error{Message: err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func validate(r *http.Request, route *routers.Route, pathParams map[string]string) error {
	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	return openapi3filter.ValidateRequest(r.Context(), input)
}
