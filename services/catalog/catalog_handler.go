package catalogservice

import (
	"activos/providers"
	"activos/utils"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	Repo           CatalogRepository
	Audit          providers.AuditProvider
	AuthMiddleware providers.AuthMiddlewareService
}

func NewCatalogHandler(repo CatalogRepository, audit providers.AuditProvider, middleware providers.AuthMiddlewareService) *CatalogHandler {
	return &CatalogHandler{
		Repo:           repo,
		Audit:          audit,
		AuthMiddleware: middleware,
	}
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(h.AuthMiddleware, r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req CategoryReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	id, err := h.Repo.CreateCategory(r.Context(), req.Name)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to create category")
		return
	}

	h.Audit.Record(r.Context(), actorID, "created category", "category", id.String())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"id": id, "name": req.Name})
}

func (h *CatalogHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(h.AuthMiddleware, r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req RenameReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	if err := h.Repo.RenameCategory(r.Context(), req.ID, req.Name); err != nil {
		utils.RespondDomainError(w, err, "failed to rename category")
		return
	}

	h.Audit.Record(r.Context(), actorID, "renamed category", "category", req.ID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "category renamed"})
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(h.AuthMiddleware, r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid category id")
		return
	}

	if err := h.Repo.DeleteCategory(r.Context(), id); err != nil {
		utils.RespondDomainError(w, err, "failed to delete category")
		return
	}

	h.Audit.Record(r.Context(), actorID, "deleted category", "category", id.String())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.ListCategories(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch categories")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *CatalogHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(h.AuthMiddleware, r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req LocationReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	id, err := h.Repo.CreateLocation(r.Context(), req.Name)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to create location")
		return
	}

	h.Audit.Record(r.Context(), actorID, "created location", "location", id.String())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"id": id, "name": req.Name})
}

func (h *CatalogHandler) RenameLocation(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(h.AuthMiddleware, r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req RenameReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	if err := h.Repo.RenameLocation(r.Context(), req.ID, req.Name); err != nil {
		utils.RespondDomainError(w, err, "failed to rename location")
		return
	}

	h.Audit.Record(r.Context(), actorID, "renamed location", "location", req.ID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "location renamed"})
}

func (h *CatalogHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(h.AuthMiddleware, r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid location id")
		return
	}

	if err := h.Repo.DeleteLocation(r.Context(), id); err != nil {
		utils.RespondDomainError(w, err, "failed to delete location")
		return
	}

	h.Audit.Record(r.Context(), actorID, "deleted location", "location", id.String())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "location deleted"})
}

func (h *CatalogHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Repo.ListLocations(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch locations")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"locations": locations})
}

func actorFromRequest(auth providers.AuthMiddlewareService, r *http.Request) (uuid.UUID, error) {
	actorStr, _, err := auth.GetUserAndRolesFromContext(r)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(actorStr)
}
