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
	"sort"
	"strings"

	"github.com/uptrace/bun/schema"
)

// Params is a named parameter set bound into a filter fragment, a raw query
// or a stored procedure call. Placeholders are written as ?Name (bun style)
// or @Name.
type Params map[string]interface{}

var _ schema.NamedArgAppender = Params(nil)

// AppendNamedArg implements schema.NamedArgAppender so that a Params value
// passed as the only query argument resolves ?Name placeholders.
func (p Params) AppendNamedArg(fmter schema.Formatter, b []byte, name string) ([]byte, bool) {
	v, ok := p[name]
	if !ok {
		return b, false
	}
	return schema.Append(fmter, b, v), true
}

// Names returns the parameter names in ascending order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind rewrites @Name placeholders into ?Name for every Name present in the
// set. Text inside quotes and @ tokens that are not parameters are kept.
func (p Params) Bind(query string) string {
	if len(p) == 0 || !strings.Contains(query, "@") {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query))

	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			sb.WriteByte(c)
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			sb.WriteByte(c)
			continue
		case '@':
		default:
			sb.WriteByte(c)
			continue
		}

		// @@session variables belong to the server.
		if i+1 < len(query) && query[i+1] == '@' {
			sb.WriteString("@@")
			i++
			continue
		}
		j := i + 1
		for j < len(query) && isIdentByte(query[j]) {
			j++
		}
		name := query[i+1 : j]
		if _, ok := p[name]; ok && name != "" {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('@')
		}
		sb.WriteString(name)
		i = j - 1
	}
	return sb.String()
}

// Args returns the set as a bun argument list, or nil when empty.
func (p Params) Args() []interface{} {
	if len(p) == 0 {
		return nil
	}
	return []interface{}{p}
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
