package apiserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dekarrin/llcore/config"
	"github.com/dekarrin/llcore/diagnostics"
	"github.com/dekarrin/llcore/grammar"
	"github.com/dekarrin/llcore/icterrors"
	"github.com/dekarrin/llcore/parse"
	"github.com/dekarrin/llcore/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// API bundles the dependencies every endpoint needs: the run store, the
// normalization/table config, and a logger, mirroring server/api.API's
// shape (Backend/UnauthDelay/Secret bundled on one receiver).
type API struct {
	Store  store.Repository
	Config config.Config
}

// createGrammarRequest is the POST /v1/grammars request body: a §6 JSON
// grammar descriptor.
type createGrammarRequest struct {
	grammar.Descriptor
}

// createGrammarResponse is the POST /v1/grammars response body.
type createGrammarResponse struct {
	RunID       string             `json:"run_id"`
	Grammar     grammar.Descriptor `json:"grammar"`
	Table       string             `json:"table"`
	Diagnostics []diagnosticEntry  `json:"diagnostics"`
}

type diagnosticEntry struct {
	Stage   string `json:"stage"`
	Summary string `json:"summary"`
	Detail  string `json:"detail,omitempty"`
}

// pipelineErrorResponse is the §7 structured error body returned when the
// normalization pipeline, table builder, or parser reports a pipelineError.
type pipelineErrorResponse struct {
	Status  int            `json:"status"`
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// pipelineErr builds an UnprocessableEntity Result from a pipeline error,
// carrying its Kind and structured Fields (§7) to the client instead of
// collapsing it to a plain string.
func pipelineErr(err error) Result {
	kind, ok := icterrors.KindOf(err)
	if !ok {
		return UnprocessableEntity(err.Error(), err.Error())
	}
	resp := pipelineErrorResponse{
		Status:  http.StatusUnprocessableEntity,
		Kind:    string(kind),
		Message: err.Error(),
		Fields:  icterrors.Fields(err),
	}
	r := Result{Status: http.StatusUnprocessableEntity, IsErr: true, InternalMsg: err.Error()}
	return r.withJSONBody(resp)
}

// withJSONBody is an unexported constructor helper for building a Result
// whose body is already known, used by pipelineErr where the ErrorResponse
// shape doesn't fit.
func (r Result) withJSONBody(v interface{}) Result {
	r.resp = v
	return r
}

// CreateGrammar handles POST /v1/grammars: parses a grammar descriptor,
// normalizes it, builds its LL(1) table, and persists the run.
func (a API) CreateGrammar(req *http.Request) Result {
	var body createGrammarRequest
	if err := parseJSON(req, &body); err != nil {
		return BadRequest("invalid request body", err.Error())
	}

	g := body.Descriptor.ToGrammar()

	log := diagnostics.NewLog(a.Config.Diagnostics.Verbosity)
	normalized, err := diagnostics.RunNormalize(g, log, a.Config.Normalize.NullableWhitelist...)
	if err != nil {
		return pipelineErr(err)
	}

	table, conflicts := diagnostics.RunTable(normalized, log)
	if len(conflicts) > 0 && a.Config.Normalize.ConflictMode == config.ConflictAbort {
		return pipelineErr(conflicts[0])
	}

	diagBytes, err := json.Marshal(toDiagnosticEntries(log))
	if err != nil {
		return InternalServerError(fmt.Sprintf("marshal diagnostics: %v", err))
	}

	run := store.Run{
		GrammarSource:      mustMarshal(body.Descriptor),
		NormalizedGrammar:  store.EncodeGrammar(normalized),
		Table:              store.EncodeTable(table),
		Diagnostics:        diagBytes,
	}
	run, err = a.Store.Create(req.Context(), run)
	if err != nil {
		return InternalServerError(fmt.Sprintf("persist run: %v", err))
	}

	return Created(createGrammarResponse{
		RunID:       run.ID.String(),
		Grammar:     grammar.FromGrammar(normalized),
		Table:       table.String(),
		Diagnostics: toDiagnosticEntries(log),
	})
}

// parseRequest is the POST /v1/grammars/{runID}/parse request body: a §6
// token stream as a flat list of terminal symbol names.
type parseRequest struct {
	Tokens []string `json:"tokens"`
}

// parseResponse is the POST /v1/grammars/{runID}/parse response body.
type parseResponse struct {
	Derivation []derivationStepJSON `json:"derivation"`
}

type derivationStepJSON struct {
	NonTerminal string   `json:"nonterminal"`
	Production  []string `json:"production"`
}

// ParseTokens handles POST /v1/grammars/{runID}/parse: loads the run's
// normalized grammar, drives the predictive parser against the supplied
// token stream, and returns the leftmost derivation or a §7 structured
// error.
func (a API) ParseTokens(req *http.Request) Result {
	run, errResult := a.loadRun(req)
	if errResult != nil {
		return *errResult
	}

	var body parseRequest
	if err := parseJSON(req, &body); err != nil {
		return BadRequest("invalid request body", err.Error())
	}

	g, err := store.DecodeGrammar(run.NormalizedGrammar)
	if err != nil {
		return InternalServerError(fmt.Sprintf("decode stored grammar: %v", err))
	}

	parser, err := parse.New(g)
	if err != nil {
		return pipelineErr(err)
	}

	result, err := parser.Parse(newRawTokenStream(body.Tokens))
	if err != nil {
		return pipelineErr(err)
	}

	steps := make([]derivationStepJSON, len(result.Derivation))
	for i, step := range result.Derivation {
		steps[i] = derivationStepJSON{NonTerminal: step.NonTerminal, Production: []string(step.Production)}
	}

	derivBytes, err := json.Marshal(steps)
	if err == nil {
		run.Derivation = derivBytes
		a.Store.Update(req.Context(), run.ID, run)
	}

	return OK(parseResponse{Derivation: steps})
}

// getRunResponse is the GET /v1/grammars/{runID} response body.
type getRunResponse struct {
	RunID       string          `json:"run_id"`
	Grammar     json.RawMessage `json:"grammar_source"`
	Diagnostics json.RawMessage `json:"diagnostics"`
	Derivation  json.RawMessage `json:"derivation,omitempty"`
}

// GetRun handles GET /v1/grammars/{runID}: fetches a persisted run.
func (a API) GetRun(req *http.Request) Result {
	run, errResult := a.loadRun(req)
	if errResult != nil {
		return *errResult
	}

	return OK(getRunResponse{
		RunID:       run.ID.String(),
		Grammar:     json.RawMessage(run.GrammarSource),
		Diagnostics: json.RawMessage(run.Diagnostics),
		Derivation:  json.RawMessage(run.Derivation),
	})
}

// loadRun resolves the {runID} URL parameter and fetches the corresponding
// run, returning a ready-to-send error Result if anything about that fails.
func (a API) loadRun(req *http.Request) (store.Run, *Result) {
	idStr := chi.URLParam(req, "runID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		r := BadRequest("invalid run ID", err.Error())
		return store.Run{}, &r
	}

	run, err := a.Store.GetByID(req.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			r := NotFound("run not found", err.Error())
			return store.Run{}, &r
		}
		r := InternalServerError(fmt.Sprintf("fetch run: %v", err))
		return store.Run{}, &r
	}
	return run, nil
}

func toDiagnosticEntries(log *diagnostics.Log) []diagnosticEntry {
	entries := log.Entries()
	out := make([]diagnosticEntry, len(entries))
	for i, e := range entries {
		out[i] = diagnosticEntry{Stage: string(e.Stage), Summary: e.Summary, Detail: e.Detail}
	}
	return out
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}
