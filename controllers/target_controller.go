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

// TargetController defines the interface for target HTTP handlers
type TargetController interface {
	CreateTarget(w http.ResponseWriter, r *http.Request)
	GetTarget(w http.ResponseWriter, r *http.Request)
	ListTargets(w http.ResponseWriter, r *http.Request)
	DeleteTarget(w http.ResponseWriter, r *http.Request)
	GetTargetAttributes(w http.ResponseWriter, r *http.Request)
	ListTargetActions(w http.ResponseWriter, r *http.Request)
}

type targetController struct {
	targetService services.TargetService
	deploymentMgr services.DeploymentManagerService
}

// NewTargetController creates a new target controller instance
func NewTargetController(targetService services.TargetService, deploymentMgr services.DeploymentManagerService) TargetController {
	return &targetController{
		targetService: targetService,
		deploymentMgr: deploymentMgr,
	}
}

// CreateTarget handles POST /targets
func (c *targetController) CreateTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	var req models.CreateTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to parse request body", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ControllerID == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Controller ID is required")
		return
	}

	target, err := c.targetService.CreateTarget(ctx, &req)
	if err != nil {
		if errors.Is(err, utils.ErrTargetAlreadyExists) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Target already exists")
			return
		}
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid controller ID")
			return
		}
		log.Error("Failed to create target", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create target")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusCreated, target.ToResponse())
}

// GetTarget handles GET /targets/{controllerId}
func (c *targetController) GetTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")

	target, err := c.targetService.GetTarget(ctx, controllerID)
	if err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target not found")
			return
		}
		log.Error("Failed to get target", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get target")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, target.ToResponse())
}

// ListTargets handles GET /targets
func (c *targetController) ListTargets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	limit, offset := parsePagination(r)

	targets, total, err := c.targetService.ListTargets(ctx, limit, offset)
	if err != nil {
		log.Error("Failed to list targets", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to list targets")
		return
	}

	response := models.TargetListResponse{
		Targets: make([]models.TargetResponse, len(targets)),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for i, target := range targets {
		response.Targets[i] = *target.ToResponse()
	}
	utils.WriteSuccessResponse(w, http.StatusOK, response)
}

// DeleteTarget handles DELETE /targets/{controllerId}
func (c *targetController) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")

	if err := c.targetService.DeleteTarget(ctx, controllerID); err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target not found")
			return
		}
		log.Error("Failed to delete target", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete target")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTargetAttributes handles GET /targets/{controllerId}/attributes
func (c *targetController) GetTargetAttributes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")

	attributes, err := c.targetService.GetTargetAttributes(ctx, controllerID)
	if err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target not found")
			return
		}
		log.Error("Failed to get target attributes", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get target attributes")
		return
	}

	data := make(map[string]string, len(attributes))
	for _, attribute := range attributes {
		data[attribute.Key] = attribute.Value
	}
	utils.WriteSuccessResponse(w, http.StatusOK, data)
}

// ListTargetActions handles GET /targets/{controllerId}/actions
func (c *targetController) ListTargetActions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")
	limit, offset := parsePagination(r)

	actions, total, err := c.deploymentMgr.ListTargetActions(ctx, controllerID, limit, offset)
	if err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target not found")
			return
		}
		log.Error("Failed to list target actions", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to list target actions")
		return
	}

	response := models.ActionListResponse{
		Actions: make([]models.ActionResponse, len(actions)),
		Total:   total,
	}
	for i, action := range actions {
		response.Actions[i] = *action.ToResponse()
	}
	utils.WriteSuccessResponse(w, http.StatusOK, response)
}

// parsePagination reads limit/offset query parameters with defaults
func parsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
