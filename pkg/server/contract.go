package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi.yaml
var contractYAML []byte

// ContractYAML returns the embedded OpenAPI document.
func ContractYAML() []byte {
	out := make([]byte, len(contractYAML))
	copy(out, contractYAML)
	return out
}

// Contract validates requests against the embedded OpenAPI document.
type Contract struct {
	doc    *openapi3.T
	router routers.Router
}

// LoadContract parses and validates the embedded document.
func LoadContract(ctx context.Context) (*Contract, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(contractYAML)
	if err != nil {
		return nil, fmt.Errorf("server: load contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("server: validate contract: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("server: build router: %w", err)
	}
	return &Contract{doc: doc, router: router}, nil
}

// Operations lists "METHOD path" for every operation in the contract.
func (c *Contract) Operations() []string {
	var out []string
	for path, item := range c.doc.Paths.Map() {
		for method := range item.Operations() {
			out = append(out, method+" "+path)
		}
	}
	return out
}

// ValidateRequest checks r against the matching operation. Requests no
// operation describes pass unchanged.
func (c *Contract) ValidateRequest(r *http.Request) error {
	route, params, err := c.router.FindRoute(r)
	if err != nil {
		var routeErr *routers.RouteError
		if errors.As(err, &routeErr) {
			return nil
		}
		return err
	}
	return openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: params,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	})
}

// Middleware rejects requests that break the contract with 400 and a JSON
// error body.
func (c *Contract) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := c.ValidateRequest(r); err != nil {
			writeError(w, http.StatusBadRequest, contractMessage(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func contractMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		var schemaErr *openapi3.SchemaError
		if errors.As(reqErr.Err, &schemaErr) {
			field := strings.Join(schemaErr.JSONPointer(), ".")
			if field != "" {
				return fmt.Sprintf("invalid request: %s: %s", field, schemaErr.Reason)
			}
			return "invalid request: " + schemaErr.Reason
		}
		return "invalid request: " + reqErr.Error()
	}
	return "invalid request: " + err.Error()
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
