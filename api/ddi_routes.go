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

func registerDDIRoutes(mux *http.ServeMux, controller controllers.DDIController) {
	// GET /{controllerId}/poll - Root poll resource with pending action links
	mux.HandleFunc("GET /{controllerId}/poll", controller.Poll)

	// PUT /{controllerId}/configData - Report controller attributes
	mux.HandleFunc("PUT /{controllerId}/configData", controller.PutConfigData)

	// GET /{controllerId}/deploymentBase/{actionId} - Get deployment details for an action
	mux.HandleFunc("GET /{controllerId}/deploymentBase/{actionId}", controller.GetDeploymentBase)

	// POST /{controllerId}/deploymentBase/{actionId}/feedback - Report update channel feedback
	mux.HandleFunc("POST /{controllerId}/deploymentBase/{actionId}/feedback", controller.PostDeploymentFeedback)

	// POST /{controllerId}/actions/{actionId}/informational - Record a message without progress semantics
	mux.HandleFunc("POST /{controllerId}/actions/{actionId}/informational", controller.PostInformationalFeedback)

	// GET /{controllerId}/cancelAction/{actionId} - Get the cancellation resource for an action
	mux.HandleFunc("GET /{controllerId}/cancelAction/{actionId}", controller.GetCancelAction)

	// POST /{controllerId}/cancelAction/{actionId}/feedback - Report cancel channel feedback
	mux.HandleFunc("POST /{controllerId}/cancelAction/{actionId}/feedback", controller.PostCancelFeedback)

	// GET /{controllerId}/artifactAssigned/{sha256} - Check artifact download authorization
	mux.HandleFunc("GET /{controllerId}/artifactAssigned/{sha256}", controller.GetArtifactAssigned)
}
