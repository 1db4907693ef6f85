package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"roamio/apperr"
	"roamio/db"
	"roamio/globals"
	"roamio/middleware"
	"roamio/models"
	"roamio/policy"
	"roamio/rdx"
	"roamio/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour // 7 days

func Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeValidation, "invalid input"))
		return
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" {
		utils.RespondWithError(w, apperr.Validation("email", "email is required"))
		return
	}
	if input.Password == "" {
		utils.RespondWithError(w, apperr.Validation("password", "password is required"))
		return
	}

	// Role defaults to user; admin cannot self-register.
	if input.Role == "" {
		input.Role = string(models.RoleUser)
	}
	role := models.Role(input.Role)
	if err := policy.Decide(nil, policy.ActionSignup, role); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", input.Email, err)
		utils.RespondWithError(w, err)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		UserID:       "u" + utils.GenerateID(10),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique email index is the authoritative duplicate check.
	if _, err := db.UserCollection.InsertOne(context.TODO(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, apperr.New(apperr.CodeConflict, "email already registered"))
			return
		}
		utils.RespondWithError(w, err)
		return
	}

	tokenString, err := issueToken(user)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	cacheToken(user.UserID, tokenString)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"token": tokenString,
		"user":  utils.M{"id": user.UserID, "role": user.Role},
	})
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeValidation, "invalid input"))
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, apperr.New(apperr.CodeValidation, "email and password are required"))
		return
	}

	// Unknown email and wrong password are indistinguishable on the wire.
	var storedUser models.User
	err := db.UserCollection.FindOne(context.TODO(),
		bson.M{"email": strings.ToLower(input.Email)}).Decode(&storedUser)
	if err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeAuthInvalid, "invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeAuthInvalid, "invalid email or password"))
		return
	}

	tokenString, err := issueToken(storedUser)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	cacheToken(storedUser.UserID, tokenString)

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now().UTC()}},
	)
	if err != nil {
		log.Printf("Failed to record last login for %s: %v", storedUser.UserID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token": tokenString,
		"user":  utils.M{"id": storedUser.UserID, "role": storedUser.Role},
	})
}

func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}

	if _, err := rdx.RdxHdel("tokki", principal.UserID); err != nil {
		log.Printf("Error removing token from Redis: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "logged out"})
}

func issueToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// cacheToken mirrors issued tokens into Redis. Best-effort: the JWT is
// self-validating, so a cache failure never fails the request.
func cacheToken(userID, token string) {
	if err := rdx.RdxHset("tokki", userID, token); err != nil {
		log.Printf("Redis token cache failed for %s: %v", userID, err)
	}
}
