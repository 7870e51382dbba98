// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/middleware/logger"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/services"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// TargetFilterController defines the interface for target filter HTTP handlers
type TargetFilterController interface {
	CreateFilter(w http.ResponseWriter, r *http.Request)
	GetFilter(w http.ResponseWriter, r *http.Request)
	ListFilters(w http.ResponseWriter, r *http.Request)
	UpdateFilter(w http.ResponseWriter, r *http.Request)
	DeleteFilter(w http.ResponseWriter, r *http.Request)
	AttachAutoAssign(w http.ResponseWriter, r *http.Request)
	RemoveAutoAssign(w http.ResponseWriter, r *http.Request)
	TriggerAutoAssign(w http.ResponseWriter, r *http.Request)
}

type targetFilterController struct {
	filterService services.TargetFilterService
	autoAssign    services.AutoAssignService
}

// NewTargetFilterController creates a new target filter controller instance
func NewTargetFilterController(filterService services.TargetFilterService,
	autoAssign services.AutoAssignService) TargetFilterController {
	return &targetFilterController{
		filterService: filterService,
		autoAssign:    autoAssign,
	}
}

// CreateFilter handles POST /targetfilters
func (c *targetFilterController) CreateFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	var req models.CreateTargetFilterQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to parse request body", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Filter name is required")
		return
	}
	if req.Query == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Filter query is required")
		return
	}

	filter, err := c.filterService.CreateFilter(ctx, req.Name, req.Query)
	if err != nil {
		if errors.Is(err, utils.ErrTargetFilterAlreadyExists) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Target filter already exists")
			return
		}
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid filter query")
			return
		}
		log.Error("Failed to create target filter", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create target filter")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusCreated, filter.ToResponse())
}

// GetFilter handles GET /targetfilters/{filterId}
func (c *targetFilterController) GetFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	filterID, ok := parseFilterID(w, r)
	if !ok {
		return
	}

	filter, err := c.filterService.GetFilter(ctx, filterID)
	if err != nil {
		if errors.Is(err, utils.ErrTargetFilterNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target filter not found")
			return
		}
		log.Error("Failed to get target filter", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get target filter")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, filter.ToResponse())
}

// ListFilters handles GET /targetfilters
func (c *targetFilterController) ListFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	limit, offset := parsePagination(r)

	filters, total, err := c.filterService.ListFilters(ctx, limit, offset)
	if err != nil {
		log.Error("Failed to list target filters", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to list target filters")
		return
	}

	response := models.TargetFilterQueryListResponse{
		Filters: make([]models.TargetFilterQueryResponse, len(filters)),
		Total:   total,
	}
	for i, filter := range filters {
		response.Filters[i] = *filter.ToResponse()
	}
	utils.WriteSuccessResponse(w, http.StatusOK, response)
}

// UpdateFilter handles PUT /targetfilters/{filterId}
func (c *targetFilterController) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	filterID, ok := parseFilterID(w, r)
	if !ok {
		return
	}

	var req models.UpdateTargetFilterQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to parse request body", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	query := ""
	if req.Query != nil {
		query = *req.Query
	}

	filter, err := c.filterService.UpdateFilter(ctx, filterID, name, query)
	if err != nil {
		if errors.Is(err, utils.ErrTargetFilterNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target filter not found")
			return
		}
		if errors.Is(err, utils.ErrTargetFilterAlreadyExists) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Target filter name already in use")
			return
		}
		if errors.Is(err, utils.ErrQuotaExceeded) {
			utils.WriteErrorResponse(w, http.StatusForbidden, "Auto-assignment target quota exceeded")
			return
		}
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid filter query")
			return
		}
		log.Error("Failed to update target filter", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update target filter")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, filter.ToResponse())
}

// DeleteFilter handles DELETE /targetfilters/{filterId}
func (c *targetFilterController) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	filterID, ok := parseFilterID(w, r)
	if !ok {
		return
	}

	if err := c.filterService.DeleteFilter(ctx, filterID); err != nil {
		if errors.Is(err, utils.ErrTargetFilterNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target filter not found")
			return
		}
		log.Error("Failed to delete target filter", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete target filter")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachAutoAssign handles POST /targetfilters/{filterId}/autoAssignDS
func (c *targetFilterController) AttachAutoAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	filterID, ok := parseFilterID(w, r)
	if !ok {
		return
	}

	var req models.AutoAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to parse request body", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DistributionSetID == 0 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Distribution set id is required")
		return
	}

	actionType := models.ActionTypeForced
	if req.ActionType != "" {
		parsed, err := models.ParseActionType(req.ActionType)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		actionType = parsed
	}

	filter, err := c.filterService.AttachAutoAssign(ctx, filterID, req.DistributionSetID, actionType)
	if err != nil {
		if errors.Is(err, utils.ErrTargetFilterNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target filter not found")
			return
		}
		if errors.Is(err, utils.ErrDistributionSetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Distribution set not found")
			return
		}
		if errors.Is(err, utils.ErrInvalidAutoAssignActionType) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Action type not allowed for auto-assignment")
			return
		}
		if errors.Is(err, utils.ErrDistributionSetDeleted) || errors.Is(err, utils.ErrIncompleteDistributionSet) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Distribution set is not assignable")
			return
		}
		if errors.Is(err, utils.ErrQuotaExceeded) {
			utils.WriteErrorResponse(w, http.StatusForbidden, "Auto-assignment target quota exceeded")
			return
		}
		log.Error("Failed to attach auto-assignment", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to attach auto-assignment")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, filter.ToResponse())
}

// RemoveAutoAssign handles DELETE /targetfilters/{filterId}/autoAssignDS
func (c *targetFilterController) RemoveAutoAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	filterID, ok := parseFilterID(w, r)
	if !ok {
		return
	}

	if err := c.filterService.RemoveAutoAssign(ctx, filterID); err != nil {
		if errors.Is(err, utils.ErrTargetFilterNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target filter not found")
			return
		}
		log.Error("Failed to remove auto-assignment", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to remove auto-assignment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TriggerAutoAssign handles POST /targetfilters/{filterId}/trigger
func (c *targetFilterController) TriggerAutoAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	filterID, ok := parseFilterID(w, r)
	if !ok {
		return
	}

	assigned, err := c.autoAssign.RunForFilter(ctx, filterID)
	if err != nil {
		if errors.Is(err, utils.ErrTargetFilterNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target filter not found")
			return
		}
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Filter has no auto-assignment link")
			return
		}
		if errors.Is(err, utils.ErrQuotaExceeded) {
			utils.WriteErrorResponse(w, http.StatusForbidden, "Auto-assignment target quota exceeded")
			return
		}
		log.Error("Failed to trigger auto-assignment", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to trigger auto-assignment")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, map[string]int{"assigned": assigned})
}

// parseFilterID reads the filterId path value, writing a 400 on failure
func parseFilterID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	filterID, err := strconv.ParseInt(r.PathValue("filterId"), 10, 64)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid filter id")
		return 0, false
	}
	return filterID, true
}
