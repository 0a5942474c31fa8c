package apiserver

import (
	"log"
	"net/http"

	"github.com/dekarrin/llcore/config"
	"github.com/dekarrin/llcore/internal/version"
	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the full HTTP surface of the normalization/parse
// service (§6 "External interfaces" exposed over HTTP, the "DOMAIN STACK"
// API server component of SPEC_FULL.md): chi for routing, the same way
// server/api's handlers are grounded on chi.URLParam, with one additional
// concern the retrieved teacher package never assembled anywhere in the
// pack (no chi.NewRouter call survives in server/ at all) -- this function
// is therefore authored directly against the chi middleware/routing
// conventions server/api.go's handler shapes already assume, rather than
// ported from a specific file.
//
//   - POST   /v1/grammars             create a run: normalize + build table
//   - GET    /v1/grammars/{runID}     fetch a persisted run
//   - POST   /v1/grammars/{runID}/parse   drive the predictive parser
//
// Write endpoints (POST) require a bearer token signed with cfg's secret;
// GET does not, matching the teacher's read-open/write-authenticated split
// (server/token.go's RequireAuth guarding only mutating routes).
func NewRouter(a API, logger *log.Logger, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Get("/v1/info", httpEndpoint(logger, infoEndpoint))

	secret := []byte(cfg.Server.TokenSecret)
	auth := requireAuth(secret, logger)

	r.Route("/v1/grammars", func(r chi.Router) {
		r.With(auth).Post("/", httpEndpoint(logger, a.CreateGrammar))
		r.Get("/{runID}", httpEndpoint(logger, a.GetRun))
		r.With(auth).Post("/{runID}/parse", httpEndpoint(logger, a.ParseTokens))
	})

	return r
}

// infoEndpoint reports the running toolkit's version, unauthenticated,
// mirroring server/api's GET /info.
func infoEndpoint(req *http.Request) Result {
	return OK(struct {
		Version string `json:"version"`
	}{Version: version.Current})
}
