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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterQuery_SingleTerm(t *testing.T) {
	terms, err := parseFilterQuery(`name == lab-01`)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "name", terms[0].field)
	assert.Equal(t, "lab-01", terms[0].value)
	assert.False(t, terms[0].wildcard)
}

func TestParseFilterQuery_QuotedValue(t *testing.T) {
	terms, err := parseFilterQuery(`name == "lab 01"`)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "lab 01", terms[0].value)
}

func TestParseFilterQuery_Wildcard(t *testing.T) {
	terms, err := parseFilterQuery(`controllerid == lab-*`)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.True(t, terms[0].wildcard)
}

func TestParseFilterQuery_Conjunction(t *testing.T) {
	terms, err := parseFilterQuery(`name == lab-* and updatestatus == error`)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "name", terms[0].field)
	assert.Equal(t, "updatestatus", terms[1].field)
	assert.Equal(t, "error", terms[1].value)
}

func TestParseFilterQuery_AttributeTerm(t *testing.T) {
	terms, err := parseFilterQuery(`attribute.hw.revision == 2`)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "attribute", terms[0].field)
	assert.Equal(t, "hw.revision", terms[0].attributeKey)
	assert.Equal(t, "2", terms[0].value)
}

func TestParseFilterQuery_Rejections(t *testing.T) {
	for _, query := range []string{
		"",
		"   ",
		"name",
		"name != lab",
		"name == ",
		"attribute. == 2",
	} {
		err := ValidateFilterQuery(query)
		assert.Error(t, err, "query %q", query)
	}
}

func TestLikePattern_EscapesSQLWildcards(t *testing.T) {
	assert.Equal(t, "lab-%", likePattern("lab-*"))
	assert.Equal(t, `50\%-done-%`, likePattern("50%-done-*"))
	assert.Equal(t, `a\_b`, likePattern("a_b"))
}
