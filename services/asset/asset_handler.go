package assetservice

import (
	"activos/providers"
	"activos/utils"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AssetHandler struct {
	Service        AssetService
	Audit          providers.AuditProvider
	AuthMiddleware providers.AuthMiddlewareService
}

func NewAssetHandler(service AssetService, audit providers.AuditProvider, middleware providers.AuthMiddlewareService) *AssetHandler {
	return &AssetHandler{
		Service:        service,
		Audit:          audit,
		AuthMiddleware: middleware,
	}
}

func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req AssetReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid asset input")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)

	assetID, err := h.Service.CreateAsset(r.Context(), req, actorID)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to create asset")
		return
	}

	h.Audit.Record(r.Context(), actorID, "registered asset", "asset", assetID.String())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":   assetID,
		"code": req.Code,
		"name": req.Name,
	})
}

func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	var req UpdateAssetReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "validation error")
		return
	}

	if err := h.Service.UpdateAsset(r.Context(), req); err != nil {
		utils.RespondDomainError(w, err, "failed to update asset")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "updated asset", "asset", req.ID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "asset updated successfully"})
}

func (h *AssetHandler) RetireAsset(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _, err := h.AuthMiddleware.GetUserAndRolesFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized user")
		return
	}

	assetID, err := uuid.Parse(r.URL.Query().Get("asset_id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid asset id")
		return
	}

	if err := h.Service.RetireAsset(r.Context(), assetID); err != nil {
		utils.RespondDomainError(w, err, "failed to retire asset")
		return
	}

	actorID, _ := uuid.Parse(actorIDStr)
	h.Audit.Record(r.Context(), actorID, "retired asset", "asset", assetID.String())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "asset retired"})
}

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(r.URL.Query().Get("asset_id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid asset id")
		return
	}

	asset, err := h.Service.GetAsset(r.Context(), assetID)
	if err != nil {
		utils.RespondDomainError(w, err, "failed to fetch asset")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"asset": asset})
}

func (h *AssetHandler) GetAllAssetsWithFilters(w http.ResponseWriter, r *http.Request) {
	var filter AssetFilter
	filter.SearchText = r.URL.Query().Get("search")
	if filter.SearchText != "" {
		filter.IsSearchText = true
		filter.SearchText = "%" + filter.SearchText + "%"
	}
	if val := r.URL.Query().Get("status"); val != "" {
		filter.Status = strings.Split(val, ",")
	}
	if val := r.URL.Query().Get("category_id"); val != "" {
		filter.CategoryID = strings.Split(val, ",")
	}
	if val := r.URL.Query().Get("location_id"); val != "" {
		filter.LocationID = strings.Split(val, ",")
	}
	filter.Limit, filter.Offset = utils.GetPageLimitAndOffset(r)

	assets, err := h.Service.GetAllAssetsWithFilters(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch records")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"assets": assets})
}

func (h *AssetHandler) GetAssetTimeline(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(r.URL.Query().Get("asset_id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid asset id")
		return
	}

	timeline, err := h.Service.GetAssetTimeline(r.Context(), assetID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch asset timeline")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"asset_id": assetID,
		"timeline": timeline,
	})
}
