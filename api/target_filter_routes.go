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

func registerTargetFilterRoutes(mux *http.ServeMux, controller controllers.TargetFilterController) {
	// POST /targetfilters - Create a new target filter query
	mux.HandleFunc("POST /targetfilters", controller.CreateFilter)

	// GET /targetfilters - List all target filter queries
	mux.HandleFunc("GET /targetfilters", controller.ListFilters)

	// GET /targetfilters/{filterId} - Get a specific target filter query
	mux.HandleFunc("GET /targetfilters/{filterId}", controller.GetFilter)

	// PUT /targetfilters/{filterId} - Update the name or query of a filter
	mux.HandleFunc("PUT /targetfilters/{filterId}", controller.UpdateFilter)

	// DELETE /targetfilters/{filterId} - Delete a target filter query
	mux.HandleFunc("DELETE /targetfilters/{filterId}", controller.DeleteFilter)

	// POST /targetfilters/{filterId}/autoAssignDS - Link a distribution set for auto-assignment
	mux.HandleFunc("POST /targetfilters/{filterId}/autoAssignDS", controller.AttachAutoAssign)

	// DELETE /targetfilters/{filterId}/autoAssignDS - Remove the auto-assignment link
	mux.HandleFunc("DELETE /targetfilters/{filterId}/autoAssignDS", controller.RemoveAutoAssign)

	// POST /targetfilters/{filterId}/trigger - Run the auto-assignment cycle for this filter
	mux.HandleFunc("POST /targetfilters/{filterId}/trigger", controller.TriggerAutoAssign)
}
