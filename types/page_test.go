/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest(t *testing.T) {
	p := NewPageRequest(3, 20, "weight > 10", "name ASC", "id DESC")
	assert.Equal(t, 3, p.GetPage())
	assert.Equal(t, 20, p.GetPageSize())
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, "weight > 10", p.GetWhere())
	assert.Equal(t, []string{"name ASC", "id DESC"}, p.GetOrders())

	p = NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, 10, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())
	assert.Empty(t, p.GetWhere())
	assert.Empty(t, p.GetOrders())
}

func TestPaginationPages(t *testing.T) {
	p := NewDefaultPagination[struct{}](1, 10)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.Pages())

	p.Total = 21
	assert.Equal(t, 3, p.Pages())

	p.PageSize = 0
	assert.Equal(t, 0, p.Pages())
}
