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

func registerActionRoutes(mux *http.ServeMux, controller controllers.ActionController) {
	// GET /actions/{actionId} - Get a specific update action
	mux.HandleFunc("GET /actions/{actionId}", controller.GetAction)

	// GET /actions/{actionId}/status - List the status history of an action
	mux.HandleFunc("GET /actions/{actionId}/status", controller.GetActionStatuses)

	// POST /actions/{actionId}/cancel - Request cancellation of an active action
	mux.HandleFunc("POST /actions/{actionId}/cancel", controller.CancelAction)

	// POST /actions/{actionId}/forcequit - Close an action without controller acknowledgment
	mux.HandleFunc("POST /actions/{actionId}/forcequit", controller.ForceQuitAction)

	// POST /actions/{actionId}/force - Switch an active action to the forced type
	mux.HandleFunc("POST /actions/{actionId}/force", controller.ForceAction)
}
