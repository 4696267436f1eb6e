// Copyright 2026 The Steensgaard Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package constraint

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeJSON reads a constraint list from r, encoded as a JSON array of
// tagged-union objects matching Constraint's json tags.
func DecodeJSON(r io.Reader) ([]Constraint, error) {
	var cs []Constraint
	if err := json.NewDecoder(r).Decode(&cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// EncodeJSON writes cs to w as a JSON array, indented for readability.
func EncodeJSON(w io.Writer, cs []Constraint) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cs)
}

// DecodeYAML reads a constraint list from r, encoded as a YAML sequence
// of tagged-union mappings matching Constraint's yaml tags.
func DecodeYAML(r io.Reader) ([]Constraint, error) {
	var cs []Constraint
	if err := yaml.NewDecoder(r).Decode(&cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// EncodeYAML writes cs to w as a YAML sequence.
func EncodeYAML(w io.Writer, cs []Constraint) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cs)
}
