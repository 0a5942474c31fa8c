package apiserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuer is the fixed JWT issuer claim this service signs and checks,
// mirroring server/token.go's "tqs" issuer for its own service.
const issuer = "llcore"

// tokenTTL is how long a generated service token remains valid.
const tokenTTL = 24 * time.Hour

type ctxKey int

const ctxKeyAuthorized ctxKey = iota

// GenerateServiceToken signs a bearer token authorizing write access,
// grounded on server/token.go's generateJWT: an HS512 JWT carrying iss/exp
// and an "authorized" claim, signed with the service's shared secret. There
// is no per-user subject because the user/session store did not survive
// the trim (see DESIGN.md) -- this is a single service-level credential.
func GenerateServiceToken(secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"iss":          issuer,
		"exp":          time.Now().Add(tokenTTL).Unix(),
		"authorized":   true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// requireAuth returns middleware that rejects any request lacking a valid
// Authorization: Bearer <token> header signed with secret, grounded on
// server/token.go's validateAndLookupJWTUser/RequireAuth pair.
func requireAuth(secret []byte, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tok, err := bearerToken(req)
			if err != nil {
				r := Unauthorized("authorization required", err.Error())
				r.PrepareMarshaledResponse()
				logHttpResponse(logger, req, r.Status, r.InternalMsg)
				time.Sleep(50 * time.Millisecond)
				r.WriteResponse(w)
				return
			}

			_, err = jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
				jwt.WithIssuer(issuer),
				jwt.WithLeeway(time.Minute),
			)
			if err != nil {
				r := Unauthorized("invalid or expired token", err.Error())
				r.PrepareMarshaledResponse()
				logHttpResponse(logger, req, r.Status, r.InternalMsg)
				time.Sleep(50 * time.Millisecond)
				r.WriteResponse(w)
				return
			}

			ctx := context.WithValue(req.Context(), ctxKeyAuthorized, true)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(req *http.Request) (string, error) {
	hdr := req.Header.Get("Authorization")
	if hdr == "" {
		return "", fmt.Errorf("no Authorization header present")
	}
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("Authorization header is not a bearer token")
	}
	return parts[1], nil
}
