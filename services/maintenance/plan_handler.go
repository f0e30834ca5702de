package maintenanceservice

import (
	"activos/providers"
	"activos/utils"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type PlanHandler struct {
	Repo           PlanRepository
	Audit          providers.AuditProvider
	AuthMiddleware providers.AuthMiddlewareService
}

func NewPlanHandler(repo PlanRepository, audit providers.AuditProvider, middleware providers.AuthMiddlewareService) *PlanHandler {
	return &PlanHandler{
		Repo:           repo,
		Audit:          audit,
		AuthMiddleware: middleware,
	}
}

func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req PlanReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	planID, err := h.Repo.CreatePlan(r.Context(), req)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to create maintenance plan")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "created maintenance plan", "maintenance_plan", planID.String())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    planID,
		"title": req.Title,
	})
}

func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req UpdatePlanReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	if err := h.Repo.UpdatePlan(r.Context(), req); err != nil {
		utils.RespondDomainError(w, err, "failed to update maintenance plan")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "updated maintenance plan", "maintenance_plan", req.ID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "maintenance plan updated"})
}

func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	planID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid plan id")
		return
	}

	if err := h.Repo.DeletePlan(r.Context(), planID); err != nil {
		utils.RespondDomainError(w, err, "failed to delete maintenance plan")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "deleted maintenance plan", "maintenance_plan", planID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "maintenance plan deleted"})
}

func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Repo.ListPlans(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch maintenance plans")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}
