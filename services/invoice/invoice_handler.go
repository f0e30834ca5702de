package invoiceservice

import (
	"activos/providers"
	"activos/utils"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type InvoiceHandler struct {
	Service        InvoiceService
	Audit          providers.AuditProvider
	AuthMiddleware providers.AuthMiddlewareService
}

func NewInvoiceHandler(service InvoiceService, audit providers.AuditProvider, middleware providers.AuthMiddlewareService) *InvoiceHandler {
	return &InvoiceHandler{
		Service:        service,
		Audit:          audit,
		AuthMiddleware: middleware,
	}
}

func (h *InvoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req GenerateInvoiceReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	invoiceID, err := h.Service.GenerateInvoice(r.Context(), req.WorkOrderID)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to generate invoice")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "generated invoice", "invoice", invoiceID.String())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"invoice_id":    invoiceID,
		"work_order_id": req.WorkOrderID,
	})
}

func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req MarkPaidReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	if err := h.Service.MarkPaid(r.Context(), req.InvoiceID, req.Method, req.ExternalTransactionID); err != nil {
		utils.RespondDomainError(w, err, "failed to mark invoice paid")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "marked invoice paid", "invoice", req.InvoiceID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"invoice_id": req.InvoiceID,
		"status":     "paid",
	})
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid invoice id")
		return
	}

	inv, err := h.Service.GetInvoice(r.Context(), invoiceID)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to fetch invoice")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"invoice": inv})
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := utils.GetPageLimitAndOffset(r)

	invoices, err := h.Service.ListInvoices(r.Context(), limit, offset)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch invoices")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
}
