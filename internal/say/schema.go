/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package say

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed options.schema.json
var optionsSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(optionsSchema)

// ParseOptionsJSON decodes say options written as a JSON object. Only the
// options that have a JSON form are accepted: numbers and font family names.
func ParseOptionsJSON(data []byte) (map[string]any, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}
	if !result.Valid() {
		kind := ErrInvalidValue
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			if e.Type() == "additional_property_not_allowed" {
				kind = ErrUnknownOption
			}
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", kind, strings.Join(msgs, "; "))
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return out, nil
}
