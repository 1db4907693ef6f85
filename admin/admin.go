package admin

import (
	"net/http"
	"strconv"

	"roamio/db"
	"roamio/middleware"
	"roamio/models"
	"roamio/policy"
	"roamio/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListUsers returns the paginated user roster. Admin only; password
// hashes never serialize (json:"-").
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}
	if err := policy.Decide(principal, policy.ActionListAllUsers, nil); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	page := int64(1)
	limit := int64(20)
	if s := r.URL.Query().Get("page"); s != "" {
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil && parsed >= 1 {
			page = parsed
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil && parsed >= 1 {
			limit = parsed
		}
	}

	total, err := db.UserCollection.CountDocuments(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	skip := (page - 1) * limit
	cursor, err := db.UserCollection.Find(r.Context(), bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	defer cursor.Close(r.Context())

	users := []models.User{}
	if err := cursor.All(r.Context(), &users); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
