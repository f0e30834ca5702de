package assignmentservice

import (
	"activos/models"
	"activos/providers"
	"activos/utils"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AssignmentHandler struct {
	Service        AssignmentService
	Audit          providers.AuditProvider
	AuthMiddleware providers.AuthMiddlewareService
}

func NewAssignmentHandler(service AssignmentService, audit providers.AuditProvider, middleware providers.AuthMiddlewareService) *AssignmentHandler {
	return &AssignmentHandler{
		Service:        service,
		Audit:          audit,
		AuthMiddleware: middleware,
	}
}

func (h *AssignmentHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req CheckOutReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)

	assignmentID, err := h.Service.CheckOut(r.Context(), req.AssetID, req.UserID, actorID)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to check out asset")
		return
	}

	h.Audit.Record(r.Context(), actorID, "checked out asset", "assignment", assignmentID.String())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"assignment_id": assignmentID,
		"asset_id":      req.AssetID,
		"user_id":       req.UserID,
	})
}

func (h *AssignmentHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req CheckInReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	assetID, err := h.Service.CheckIn(r.Context(), req.AssignmentID, models.ReturnOutcome(req.Outcome))
	if err != nil {
		utils.RespondDomainError(w, err, "failed to check in asset")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "checked in asset", "assignment", req.AssignmentID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"assignment_id": req.AssignmentID,
		"asset_id":      assetID,
		"outcome":       req.Outcome,
	})
}

func (h *AssignmentHandler) ListByAsset(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(r.URL.Query().Get("asset_id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid asset id")
		return
	}

	assignments, err := h.Service.ListByAsset(r.Context(), assetID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch assignments")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}
