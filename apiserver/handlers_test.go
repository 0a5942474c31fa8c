package apiserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/llcore/config"
	"github.com/dekarrin/llcore/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func testAPI() API {
	cfg := config.Config{}.FillDefaults()
	return API{Store: store.NewInMemory(), Config: cfg}
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

const sampleDescriptorJSON = `{
	"nonterminals": ["S"],
	"terminals": ["a", "b"],
	"start_symbol": "S",
	"productions": {"S": [["a", "S", "b"], []]}
}`

func doJSON(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func Test_CreateGrammar_normalizesAndPersists(t *testing.T) {
	assert := assert.New(t)

	a := testAPI()
	logger := testLogger()
	w := doJSON(httpEndpoint(logger, a.CreateGrammar), http.MethodPost, "/v1/grammars", sampleDescriptorJSON)

	if !assert.Equal(http.StatusCreated, w.Code) {
		return
	}

	var resp createGrammarResponse
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp)) {
		return
	}
	assert.NotEmpty(resp.RunID)
	assert.NotEmpty(resp.Table)
}

func Test_CreateGrammar_rejectsMalformedBody(t *testing.T) {
	assert := assert.New(t)

	a := testAPI()
	w := doJSON(httpEndpoint(testLogger(), a.CreateGrammar), http.MethodPost, "/v1/grammars", "{not json")
	assert.Equal(http.StatusBadRequest, w.Code)
}

func Test_GetRun_andParseTokens_roundTrip(t *testing.T) {
	assert := assert.New(t)

	a := testAPI()
	logger := testLogger()

	createW := doJSON(httpEndpoint(logger, a.CreateGrammar), http.MethodPost, "/v1/grammars", sampleDescriptorJSON)
	if !assert.Equal(http.StatusCreated, createW.Code) {
		return
	}
	var created createGrammarResponse
	if !assert.NoError(json.Unmarshal(createW.Body.Bytes(), &created)) {
		return
	}

	router := chi.NewRouter()
	router.Get("/v1/grammars/{runID}", httpEndpoint(logger, a.GetRun))
	router.Post("/v1/grammars/{runID}/parse", httpEndpoint(logger, a.ParseTokens))

	getReq := httptest.NewRequest(http.MethodGet, "/v1/grammars/"+created.RunID, nil)
	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, getReq)
	assert.Equal(http.StatusOK, getW.Code)

	parseReq := httptest.NewRequest(http.MethodPost, "/v1/grammars/"+created.RunID+"/parse",
		bytes.NewBufferString(`{"tokens": ["a", "a", "b", "b"]}`))
	parseReq.Header.Set("Content-Type", "application/json")
	parseW := httptest.NewRecorder()
	router.ServeHTTP(parseW, parseReq)
	if !assert.Equal(http.StatusOK, parseW.Code) {
		return
	}

	var parsed parseResponse
	if !assert.NoError(json.Unmarshal(parseW.Body.Bytes(), &parsed)) {
		return
	}
	assert.NotEmpty(parsed.Derivation)
}

func Test_GetRun_notFound(t *testing.T) {
	assert := assert.New(t)

	a := testAPI()
	router := chi.NewRouter()
	router.Get("/v1/grammars/{runID}", httpEndpoint(testLogger(), a.GetRun))

	req := httptest.NewRequest(http.MethodGet, "/v1/grammars/00000000-0000-0000-0000-000000000000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(http.StatusNotFound, w.Code)
}
