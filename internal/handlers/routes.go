package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// APIConfig returns the huma configuration for the service. Schema links are
// disabled so response bodies carry only their declared fields.
func APIConfig() huma.Config {
	cfg := huma.DefaultConfig("URL Shortener", "1.0.0")
	cfg.CreateHooks = nil

	return cfg
}

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/",
		Summary:       "Shorten URL",
		Description:   "Returns the short URL for the given URL, creating or re-enabling it when needed.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusOK,
	}, urlHandler.Create)

	huma.Register(api, huma.Operation{
		OperationID:   "resolve-short-url",
		Method:        http.MethodGet,
		Path:          "/{hash}",
		Summary:       "Resolve short URL",
		Description:   "Redirects to the original URL, or returns it as text or JSON according to the Accept header.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
	}, urlHandler.Resolve)

	huma.Register(api, huma.Operation{
		OperationID:   "remove-short-url",
		Method:        http.MethodDelete,
		Path:          "/{hash}/remove/{removeToken}",
		Summary:       "Disable short URL",
		Description:   "Disables the short URL when the remove token matches.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusOK,
	}, urlHandler.Remove)
}
