package experiences

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roamio/apperr"
	"roamio/middleware"
	"roamio/policy"
	"roamio/utils"

	"github.com/julienschmidt/httprouter"
)

var bannerUploadPath = "./static/experiencepic"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}

	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeValidation, "invalid input"))
		return
	}

	exp, err := h.svc.Create(r.Context(), principal, input)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, exp)
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}
	exp, err := h.svc.Publish(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, exp)
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}
	exp, err := h.svc.Block(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, exp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := middleware.PrincipalFrom(r.Context())
	exp, err := h.svc.Get(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, exp)
}

func (h *Handler) Browse(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q, err := parseBrowseQuery(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	result, err := h.svc.Browse(r.Context(), q)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// parseBrowseQuery validates browse parameters. Defaults: page 1,
// limit 10, ascending by start time.
func parseBrowseQuery(r *http.Request) (BrowseQuery, error) {
	q := BrowseQuery{Page: 1, Limit: 10}
	values := r.URL.Query()

	q.Location = strings.TrimSpace(values.Get("location"))

	if s := values.Get("page"); s != "" {
		page, err := strconv.ParseInt(s, 10, 64)
		if err != nil || page < 1 {
			return q, apperr.Validation("page", "page must be an integer >= 1")
		}
		q.Page = page
	}
	if s := values.Get("limit"); s != "" {
		limit, err := strconv.ParseInt(s, 10, 64)
		if err != nil || limit < 1 {
			return q, apperr.Validation("limit", "limit must be an integer >= 1")
		}
		q.Limit = limit
	}
	if s := values.Get("from"); s != "" {
		from, err := parseDate(s)
		if err != nil {
			return q, apperr.Validation("from", "from must be an RFC3339 timestamp or YYYY-MM-DD date")
		}
		q.From = &from
	}
	if s := values.Get("to"); s != "" {
		to, err := parseDate(s)
		if err != nil {
			return q, apperr.Validation("to", "to must be an RFC3339 timestamp or YYYY-MM-DD date")
		}
		q.To = &to
	}
	switch values.Get("sort") {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return q, apperr.Validation("sort", "sort must be asc or desc")
	}
	return q, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	return t.UTC(), err
}

// UploadBanner attaches a banner image to an owned experience and renders
// its thumbnail. Adapted media path; the core lifecycle does not depend
// on it.
func (h *Handler) UploadBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}

	exp, err := h.svc.Get(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := policy.Decide(principal, policy.ActionEditExperience, exp); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeValidation, "unable to parse form"))
		return
	}
	file, header, err := r.FormFile("banner")
	if err != nil {
		utils.RespondWithError(w, apperr.Validation("banner", "banner file missing"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		utils.RespondWithError(w, apperr.Validation("banner", "banner must be an image"))
		return
	}

	filename, err := utils.SaveFile(file, header, bannerUploadPath)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := utils.CreateThumb(filename, bannerUploadPath, 300, 200); err != nil {
		log.Printf("Thumbnail generation failed for %s: %v", filename, err)
	}

	if err := h.svc.store.SetBanner(r.Context(), exp.ExperienceID, filename); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"banner": filename})
}
