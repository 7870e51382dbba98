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

package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
)

// FilterEvaluator evaluates an opaque target filter predicate. The full query
// grammar lives outside the core; this interface is the seam a complete
// evaluator plugs into.
type FilterEvaluator interface {
	MatchingTargets(ctx context.Context, query string) ([]*models.Target, error)
	CountMatchingTargets(ctx context.Context, query string) (int64, error)
}

// filterTerm is one equality term of a parsed predicate
type filterTerm struct {
	field        string
	attributeKey string
	value        string
	wildcard     bool
}

// SQLFilterEvaluator translates the supported predicate subset
// (field == value terms joined with "and", "*" wildcards, attribute.<key>
// lookups) into SQL over the targets table.
type SQLFilterEvaluator struct {
	db *gorm.DB
}

// NewSQLFilterEvaluator creates the default filter evaluator
func NewSQLFilterEvaluator(db *gorm.DB) FilterEvaluator {
	return &SQLFilterEvaluator{db: db}
}

// MatchingTargets returns every target matching the predicate
func (e *SQLFilterEvaluator) MatchingTargets(ctx context.Context, query string) ([]*models.Target, error) {
	scope, err := e.scopeFor(ctx, query)
	if err != nil {
		return nil, err
	}
	var targets []*models.Target
	if err := scope.Order("targets.id ASC").Find(&targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

// CountMatchingTargets counts the targets matching the predicate
func (e *SQLFilterEvaluator) CountMatchingTargets(ctx context.Context, query string) (int64, error) {
	scope, err := e.scopeFor(ctx, query)
	if err != nil {
		return 0, err
	}
	var count int64
	err = scope.Count(&count).Error
	return count, err
}

func (e *SQLFilterEvaluator) scopeFor(ctx context.Context, query string) (*gorm.DB, error) {
	terms, err := parseFilterQuery(query)
	if err != nil {
		return nil, err
	}
	scope := e.db.WithContext(ctx).Model(&models.Target{})
	for _, term := range terms {
		switch term.field {
		case "name", "controllerid", "updatestatus":
			column := map[string]string{
				"name":         "targets.name",
				"controllerid": "targets.controller_id",
				"updatestatus": "targets.update_status",
			}[term.field]
			if term.wildcard {
				scope = scope.Where(column+" LIKE ?", likePattern(term.value))
			} else {
				scope = scope.Where(column+" = ?", term.value)
			}
		case "attribute":
			sub := e.db.Model(&models.TargetAttribute{}).
				Select("target_id").
				Where("key = ?", term.attributeKey)
			if term.wildcard {
				sub = sub.Where("value LIKE ?", likePattern(term.value))
			} else {
				sub = sub.Where("value = ?", term.value)
			}
			scope = scope.Where("targets.id IN (?)", sub)
		default:
			return nil, fmt.Errorf("unsupported filter field %q", term.field)
		}
	}
	return scope, nil
}

// parseFilterQuery splits a predicate into equality terms. Only the conjunctive
// equality subset is handled here; anything else is rejected so a broken
// predicate never silently matches everything.
func parseFilterQuery(query string) ([]filterTerm, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty filter query")
	}
	parts := strings.Split(query, " and ")
	terms := make([]filterTerm, 0, len(parts))
	for _, part := range parts {
		fieldAndValue := strings.SplitN(part, "==", 2)
		if len(fieldAndValue) != 2 {
			return nil, fmt.Errorf("unsupported filter term %q", strings.TrimSpace(part))
		}
		field := strings.ToLower(strings.TrimSpace(fieldAndValue[0]))
		value := strings.TrimSpace(fieldAndValue[1])
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}
		if value == "" {
			return nil, fmt.Errorf("empty value in filter term %q", strings.TrimSpace(part))
		}
		term := filterTerm{
			field:    field,
			value:    value,
			wildcard: strings.Contains(value, "*"),
		}
		if strings.HasPrefix(field, "attribute.") {
			term.field = "attribute"
			term.attributeKey = strings.TrimPrefix(field, "attribute.")
			if term.attributeKey == "" {
				return nil, fmt.Errorf("missing attribute key in filter term %q", strings.TrimSpace(part))
			}
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// ValidateFilterQuery checks predicate syntax without touching the database
func ValidateFilterQuery(query string) error {
	_, err := parseFilterQuery(query)
	return err
}

func likePattern(value string) string {
	escaped := strings.NewReplacer("%", `\%`, "_", `\_`).Replace(value)
	return strings.ReplaceAll(escaped, "*", "%")
}
