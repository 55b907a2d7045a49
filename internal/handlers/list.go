package handlers

import (
	"log/slog"
	"net/http"

	"github.com/wexford-labs/widgetry/internal/query"
	pkghttp "github.com/wexford-labs/widgetry/pkg/http"
)

// listEndpoint builds a GET handler that parses the request's filter,
// sort, select, and pagination parameters against the descriptor and
// runs the resulting query.
func listEndpoint(runner *query.Runner, d query.Descriptor, limits query.Limits, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := query.Parse(r.URL.Query(), &d, limits)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		result, err := runner.Run(r.Context(), &d, spec)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		pkghttp.WriteRaw(w, http.StatusOK, result)
	}
}
