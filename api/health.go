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

package api

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/config"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/middleware/logger"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

type healthStatus struct {
	Status string `json:"status"`
}

// registerHealthCheck registers the health endpoint, which verifies database
// connectivity within the configured timeout
func registerHealthCheck(mux *http.ServeMux, database *gorm.DB) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		log := logger.GetLogger(r.Context())

		timeout := time.Duration(config.GetConfig().HealthCheckTimeoutSeconds) * time.Second
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		sqlDB, err := database.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.Error("Health check failed", "error", err)
			utils.WriteErrorResponse(w, http.StatusServiceUnavailable, utils.ErrServiceUnavailable.Error())
			return
		}

		utils.WriteSuccessResponse(w, http.StatusOK, healthStatus{Status: "UP"})
	})
}
