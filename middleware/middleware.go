package middleware

import (
	"context"
	"net/http"

	"roamio/apperr"
	"roamio/globals"
	"roamio/models"
	"roamio/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate requires a valid Bearer token and stores the derived
// Principal in the request context. A missing credential and an invalid
// one are distinct 401 codes.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			utils.RespondWithError(w, apperr.New(apperr.CodeMissingCredential, "missing token"))
			return
		}

		if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
			utils.RespondWithError(w, apperr.New(apperr.CodeUnauthorized, "invalid token format"))
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
			return globals.JwtSecret, nil
		})
		if err != nil || !token.Valid {
			utils.RespondWithError(w, apperr.New(apperr.CodeUnauthorized, "invalid token"))
			return
		}

		principal := &models.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}
		ctx := context.WithValue(r.Context(), globals.PrincipalKey, principal)
		next(w, r.WithContext(ctx), ps)
	}
}

// OptionalAuth attaches a Principal when a valid token is present and
// proceeds anonymously otherwise.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if len(tokenString) >= 8 && tokenString[:7] == "Bearer " {
			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
				return globals.JwtSecret, nil
			})
			if err == nil && token.Valid {
				principal := &models.Principal{
					UserID: claims.UserID,
					Email:  claims.Email,
					Role:   claims.Role,
				}
				r = r.WithContext(context.WithValue(r.Context(), globals.PrincipalKey, principal))
			}
		}
		next(w, r, ps)
	}
}

// PrincipalFrom pulls the authenticated principal out of the context.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(globals.PrincipalKey).(*models.Principal)
	return p, ok && p != nil
}

// RequirePrincipal is the handler-side companion to Authenticate.
func RequirePrincipal(w http.ResponseWriter, r *http.Request) (*models.Principal, bool) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, apperr.New(apperr.CodeUnauthorized, "authentication required"))
		return nil, false
	}
	return p, true
}
