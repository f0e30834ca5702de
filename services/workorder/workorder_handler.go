package workorderservice

import (
	"activos/providers"
	"activos/utils"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type WorkOrderHandler struct {
	Service        WorkOrderService
	Audit          providers.AuditProvider
	AuthMiddleware providers.AuthMiddlewareService
}

func NewWorkOrderHandler(service WorkOrderService, audit providers.AuditProvider, middleware providers.AuthMiddlewareService) *WorkOrderHandler {
	return &WorkOrderHandler{
		Service:        service,
		Audit:          audit,
		AuthMiddleware: middleware,
	}
}

func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	reporterIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req CreateWorkOrderReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	reporterID, _ := uuid.Parse(reporterIDStr)

	workOrderID, err := h.Service.Create(r.Context(), req, reporterID)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to create work order")
		return
	}

	h.Audit.Record(r.Context(), reporterID, "reported problem", "work_order", workOrderID.String())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"work_order_id": workOrderID,
		"asset_id":      req.AssetID,
	})
}

func (h *WorkOrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req AssignWorkOrderReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	if err := h.Service.Assign(r.Context(), req.WorkOrderID, req.TechnicianID); err != nil {
		utils.RespondDomainError(w, err, "failed to assign work order")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "assigned work order", "work_order", req.WorkOrderID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"work_order_id": req.WorkOrderID,
		"technician_id": req.TechnicianID,
	})
}

func (h *WorkOrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	actorIDStr, roles, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req AdvanceWorkOrderReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)

	if err := h.Service.Advance(r.Context(), req, actorID, roles); err != nil {
		utils.RespondDomainError(w, err, "failed to advance work order")
		return
	}

	h.Audit.Record(r.Context(), actorID, "advanced work order to "+req.Status, "work_order", req.WorkOrderID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"work_order_id": req.WorkOrderID,
		"status":        req.Status,
	})
}

func (h *WorkOrderHandler) AddCost(w http.ResponseWriter, r *http.Request) {
	actorIDStr, roles, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req AddCostReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)

	costID, err := h.Service.AddCost(r.Context(), req, actorID, roles)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to add maintenance cost")
		return
	}

	h.Audit.Record(r.Context(), actorID, "added maintenance cost", "work_order", req.WorkOrderID.String())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"cost_id":       costID,
		"work_order_id": req.WorkOrderID,
	})
}

func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter WorkOrderFilter
	if val := r.URL.Query().Get("asset_id"); val != "" {
		id, err := uuid.Parse(val)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err, "invalid asset id")
			return
		}
		filter.AssetID = &id
	}
	if val := r.URL.Query().Get("status"); val != "" {
		filter.Status = strings.Split(val, ",")
	}
	filter.Limit, filter.Offset = utils.GetPageLimitAndOffset(r)

	orders, err := h.Service.List(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch work orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"work_orders": orders})
}

// ListMine returns the orders bound to the calling technician.
func (h *WorkOrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}
	actorID, _ := uuid.Parse(actorIDStr)

	filter := WorkOrderFilter{Technician: &actorID}
	filter.Limit, filter.Offset = utils.GetPageLimitAndOffset(r)

	orders, err := h.Service.List(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch work orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"work_orders": orders})
}

// ListReported returns the orders the calling user reported.
func (h *WorkOrderHandler) ListReported(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}
	actorID, _ := uuid.Parse(actorIDStr)

	filter := WorkOrderFilter{Reporter: &actorID}
	filter.Limit, filter.Offset = utils.GetPageLimitAndOffset(r)

	orders, err := h.Service.List(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch work orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"work_orders": orders})
}

func (h *WorkOrderHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid work order id")
		return
	}

	detail, err := h.Service.GetDetail(r.Context(), workOrderID)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to fetch work order")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"work_order": detail})
}
