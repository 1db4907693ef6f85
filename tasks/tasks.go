package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"roamio/apperr"
	"roamio/db"
	"roamio/middleware"
	"roamio/models"
	"roamio/policy"
	"roamio/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Plain CRUD. The only access rule is owner-or-admin, consulted through
// the central policy like everything else.

func CreateTask(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeValidation, "invalid input"))
		return
	}
	if input.Title == "" {
		utils.RespondWithError(w, apperr.Validation("title", "title is required"))
		return
	}

	now := time.Now().UTC()
	task := models.Task{
		TaskID:      "t" + utils.GenerateID(13),
		Title:       input.Title,
		Description: input.Description,
		Owner:       principal.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := db.TasksCollection.InsertOne(r.Context(), task); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, task)
}

func GetTasks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}

	// Admins see everything, everyone else their own.
	filter := bson.M{"owner": principal.UserID}
	if principal.Role == models.RoleAdmin {
		filter = bson.M{}
	}

	cursor, err := db.TasksCollection.Find(r.Context(), filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	defer cursor.Close(r.Context())

	tasks := []models.Task{}
	if err := cursor.All(r.Context(), &tasks); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"tasks": tasks})
}

func UpdateTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}

	task, err := findTask(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := policy.Decide(principal, policy.ActionMutateTask, task); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Done        *bool   `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeValidation, "invalid input"))
		return
	}

	patch := bson.M{"updated_at": time.Now().UTC()}
	if input.Title != nil {
		if *input.Title == "" {
			utils.RespondWithError(w, apperr.Validation("title", "title cannot be empty"))
			return
		}
		patch["title"] = *input.Title
	}
	if input.Description != nil {
		patch["description"] = *input.Description
	}
	if input.Done != nil {
		patch["done"] = *input.Done
	}

	if _, err := db.TasksCollection.UpdateOne(r.Context(),
		bson.M{"taskid": task.TaskID}, bson.M{"$set": patch}); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	updated, err := findTask(r.Context(), task.TaskID)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func DeleteTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}

	task, err := findTask(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := policy.Decide(principal, policy.ActionMutateTask, task); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	if _, err := db.TasksCollection.DeleteOne(r.Context(), bson.M{"taskid": task.TaskID}); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "task deleted"})
}

func findTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := db.TasksCollection.FindOne(ctx, bson.M{"taskid": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.CodeNotFound, "task not found")
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}
