// Package quercle maps node parameters onto Quercle API requests and sends them.
package quercle

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultBaseURL = "https://api.quercle.dev"
	SearchPath     = "/v1/search"
	FetchPath      = "/v1/fetch"

	// EnvAPIKey holds the fallback API key when no credential is stored.
	EnvAPIKey = "QUERCLE_API_KEY"

	// APIKeyPrefix is the conventional prefix of Quercle API keys.
	APIKeyPrefix = "qk_"
)

// Operation selects which parameters are read and which endpoint is called.
type Operation string

const (
	OperationSearch Operation = "search"
	OperationFetch  Operation = "fetch"
)

// DomainFilter restricts search results by domain.
type DomainFilter string

const (
	DomainFilterNone    DomainFilter = "none"
	DomainFilterAllowed DomainFilter = "allowed"
	DomainFilterBlocked DomainFilter = "blocked"
)

// Params are the resolved parameter values of a single item.
type Params struct {
	Query        string
	DomainFilter DomainFilter
	Domains      string
	URL          string
	Prompt       string
}

// SearchRequest is the body of POST /v1/search.
// An empty but non-nil domain list is still sent.
type SearchRequest struct {
	Query          string   `json:"query"                     validate:"required"`
	AllowedDomains []string `json:"allowed_domains,omitzero"`
	BlockedDomains []string `json:"blocked_domains,omitzero"`
}

// FetchRequest is the body of POST /v1/fetch.
type FetchRequest struct {
	URL    string `json:"url"    validate:"required"`
	Prompt string `json:"prompt" validate:"required"`
}

// Request is a ready-to-send API call.
type Request struct {
	Operation Operation
	Endpoint  string
	Body      any
}

// Response is the body returned by both endpoints.
type Response struct {
	Result *string `json:"result"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// ParseDomains splits a comma separated list, trimming tokens and dropping
// empty ones. Order is kept and duplicates are not removed.
func ParseDomains(raw string) []string {
	domains := []string{}

	for _, token := range strings.Split(raw, ",") {
		if d := strings.TrimSpace(token); d != "" {
			domains = append(domains, d)
		}
	}

	return domains
}

// BuildRequest maps an operation and its parameters onto an endpoint and body.
func BuildRequest(operation string, params Params) (Request, error) {
	switch Operation(operation) {
	case OperationSearch:
		body, err := buildSearch(params)
		if err != nil {
			return Request{}, err
		}

		return Request{Operation: OperationSearch, Endpoint: SearchPath, Body: body}, nil
	case OperationFetch:
		body := FetchRequest{URL: params.URL, Prompt: params.Prompt}
		if err := validateStruct(body); err != nil {
			return Request{}, err
		}

		return Request{Operation: OperationFetch, Endpoint: FetchPath, Body: body}, nil
	default:
		return Request{}, &OperationError{Operation: operation}
	}
}

func buildSearch(params Params) (SearchRequest, error) {
	body := SearchRequest{Query: params.Query}
	if err := validateStruct(body); err != nil {
		return SearchRequest{}, err
	}

	switch params.DomainFilter {
	case DomainFilterNone, "":
	case DomainFilterAllowed:
		body.AllowedDomains = ParseDomains(params.Domains)
	case DomainFilterBlocked:
		body.BlockedDomains = ParseDomains(params.Domains)
	default:
		return SearchRequest{}, &ValidationError{
			Field:   "domainFilter",
			Message: "must be one of none, allowed, blocked, got '" + string(params.DomainFilter) + "'",
		}
	}

	return body, nil
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]

		return &ValidationError{
			Field:   fieldErr.Field(),
			Message: "failed on the '" + fieldErr.Tag() + "' rule",
		}
	}

	return &ValidationError{Message: err.Error()}
}
