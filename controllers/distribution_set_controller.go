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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/middleware/logger"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/services"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// initiator recorded on actions created through the management API
const managementInitiator = "management"

// DistributionSetController defines the interface for distribution set HTTP handlers
type DistributionSetController interface {
	CreateDistributionSet(w http.ResponseWriter, r *http.Request)
	GetDistributionSet(w http.ResponseWriter, r *http.Request)
	ListDistributionSets(w http.ResponseWriter, r *http.Request)
	DeleteDistributionSet(w http.ResponseWriter, r *http.Request)
	AssignTargets(w http.ResponseWriter, r *http.Request)
}

type distributionSetController struct {
	dsService     services.DistributionSetService
	deploymentMgr services.DeploymentManagerService
}

// NewDistributionSetController creates a new distribution set controller instance
func NewDistributionSetController(dsService services.DistributionSetService,
	deploymentMgr services.DeploymentManagerService) DistributionSetController {
	return &distributionSetController{
		dsService:     dsService,
		deploymentMgr: deploymentMgr,
	}
}

// CreateDistributionSet handles POST /distributionsets
func (c *distributionSetController) CreateDistributionSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	var req models.CreateDistributionSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to parse request body", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Version == "" || req.TypeKey == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Name, version and typeKey are required")
		return
	}

	ds, err := c.dsService.CreateDistributionSet(ctx, &req)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid distribution set definition")
			return
		}
		if errors.Is(err, utils.ErrArtifactNotFound) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Referenced artifact not found in artifact store")
			return
		}
		log.Error("Failed to create distribution set", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create distribution set")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusCreated, ds.ToResponse())
}

// GetDistributionSet handles GET /distributionsets/{dsId}
func (c *distributionSetController) GetDistributionSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	dsID, ok := parseDistributionSetID(w, r)
	if !ok {
		return
	}

	ds, err := c.dsService.GetDistributionSet(ctx, dsID)
	if err != nil {
		if errors.Is(err, utils.ErrDistributionSetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Distribution set not found")
			return
		}
		log.Error("Failed to get distribution set", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get distribution set")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, ds.ToResponse())
}

// ListDistributionSets handles GET /distributionsets
func (c *distributionSetController) ListDistributionSets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	limit, offset := parsePagination(r)

	sets, total, err := c.dsService.ListDistributionSets(ctx, limit, offset)
	if err != nil {
		log.Error("Failed to list distribution sets", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to list distribution sets")
		return
	}

	response := models.DistributionSetListResponse{
		DistributionSets: make([]models.DistributionSetResponse, len(sets)),
		Total:            total,
		Limit:            limit,
		Offset:           offset,
	}
	for i, ds := range sets {
		response.DistributionSets[i] = *ds.ToResponse()
	}
	utils.WriteSuccessResponse(w, http.StatusOK, response)
}

// DeleteDistributionSet handles DELETE /distributionsets/{dsId}
func (c *distributionSetController) DeleteDistributionSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	dsID, ok := parseDistributionSetID(w, r)
	if !ok {
		return
	}

	if err := c.dsService.DeleteDistributionSet(ctx, dsID); err != nil {
		if errors.Is(err, utils.ErrDistributionSetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Distribution set not found")
			return
		}
		log.Error("Failed to delete distribution set", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete distribution set")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignTargets handles POST /distributionsets/{dsId}/assignedTargets
func (c *distributionSetController) AssignTargets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	dsID, ok := parseDistributionSetID(w, r)
	if !ok {
		return
	}

	var req models.AssignDistributionSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to parse request body", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.ControllerIDs) == 0 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "At least one controller ID is required")
		return
	}

	actionType := models.ActionTypeForced
	if req.Type != "" {
		parsed, err := models.ParseActionType(req.Type)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		actionType = parsed
	}
	var forcedTime *time.Time
	if req.ForcedTime != nil {
		ft := time.Unix(*req.ForcedTime, 0).UTC()
		forcedTime = &ft
	}

	resp, err := c.deploymentMgr.AssignDistributionSet(ctx, dsID, req.ControllerIDs, actionType, forcedTime, nil, managementInitiator)
	if err != nil {
		c.writeAssignmentError(ctx, w, err)
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, resp)
}

func (c *distributionSetController) writeAssignmentError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.GetLogger(ctx)

	if errors.Is(err, utils.ErrDistributionSetNotFound) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Distribution set not found")
		return
	}
	if errors.Is(err, utils.ErrDistributionSetDeleted) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Distribution set is deleted")
		return
	}
	if errors.Is(err, utils.ErrIncompleteDistributionSet) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Distribution set is incomplete")
		return
	}
	if errors.Is(err, utils.ErrInvalidActionType) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid action type for assignment")
		return
	}
	log.Error("Failed to assign distribution set", "error", err)
	utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to assign distribution set")
}

// parseDistributionSetID reads the dsId path value, writing a 400 on failure
func parseDistributionSetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	dsID, err := strconv.ParseInt(r.PathValue("dsId"), 10, 64)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid distribution set id")
		return 0, false
	}
	return dsID, true
}
