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
	"net/http"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/controllers"
)

func registerTargetRoutes(mux *http.ServeMux, controller controllers.TargetController) {
	// POST /targets - Register a new target
	mux.HandleFunc("POST /targets", controller.CreateTarget)

	// GET /targets - List all targets
	mux.HandleFunc("GET /targets", controller.ListTargets)

	// GET /targets/{controllerId} - Get a specific target
	mux.HandleFunc("GET /targets/{controllerId}", controller.GetTarget)

	// DELETE /targets/{controllerId} - Delete a target
	mux.HandleFunc("DELETE /targets/{controllerId}", controller.DeleteTarget)

	// GET /targets/{controllerId}/attributes - Get reported controller attributes
	mux.HandleFunc("GET /targets/{controllerId}/attributes", controller.GetTargetAttributes)

	// GET /targets/{controllerId}/actions - List update actions of a target
	mux.HandleFunc("GET /targets/{controllerId}/actions", controller.ListTargetActions)
}
