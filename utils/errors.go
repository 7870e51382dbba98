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

package utils

import "errors"

var (
	// Resource not found errors
	ErrTargetNotFound            = errors.New("target not found")
	ErrTargetAlreadyExists       = errors.New("target already exists")
	ErrActionNotFound            = errors.New("action not found")
	ErrDistributionSetNotFound   = errors.New("distribution set not found")
	ErrSoftwareModuleNotFound    = errors.New("software module not found")
	ErrTargetFilterNotFound      = errors.New("target filter query not found")
	ErrTargetFilterAlreadyExists = errors.New("target filter query already exists")
	ErrArtifactNotFound          = errors.New("artifact not found")

	// Invalid transition errors
	ErrCancelNotAllowed       = errors.New("action is not in canceling state")
	ErrActionNotActive        = errors.New("action is not active")
	ErrActionAlreadyCanceling = errors.New("action cancellation already requested")

	// Quota errors
	ErrQuotaExceeded           = errors.New("quota exceeded")
	ErrTooManyStatusEntries    = errors.New("too many status entries for action")
	ErrTooManyStatusMessages   = errors.New("too many messages for status entry")
	ErrTooManyAttributeEntries = errors.New("too many attribute entries for target")

	// Invalid configuration errors
	ErrIncompleteDistributionSet   = errors.New("distribution set is incomplete")
	ErrDistributionSetDeleted      = errors.New("distribution set is deleted")
	ErrInvalidActionType           = errors.New("invalid action type")
	ErrInvalidAutoAssignActionType = errors.New("invalid auto-assign action type")
	ErrInvalidInput                = errors.New("invalid input")

	// Request errors
	ErrBadRequest = errors.New("bad request")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Server errors
	ErrServiceUnavailable = errors.New("service unavailable")
)
