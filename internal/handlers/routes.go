package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the short reference routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "shorten",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Shorten URL",
		Description:   "Binds the URL to a short code, reusing the existing code when the URL is already known.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, urlHandler.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the URL behind the short code and records the access.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "list-accesses",
		Method:      http.MethodGet,
		Path:        "/{code}/accesses",
		Summary:     "List accesses",
		Description: "Lists the recorded accesses of a short code, oldest first.",
		Tags:        []string{"URLs"},
	}, urlHandler.Accesses)
}
