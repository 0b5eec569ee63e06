// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package yahoo

import (
	"time"

	"github.com/goccy/go-json"
)

// Number models the {"raw": 1.23, "fmt": "1.23"} objects Yahoo uses for
// numeric fields. Fields the source omits decode to an empty Number;
// Float and Int64 return nil for those so they are stored as NULL.
type Number struct {
	Raw   *float64 `json:"raw"`
	Fmt   string   `json:"fmt"`
	valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	// some endpoints emit the bare number instead of the raw/fmt object
	var bare float64
	if err := json.Unmarshal(b, &bare); err == nil {
		n.Raw = &bare
		n.valid = true
		return nil
	}

	type alias Number
	var obj alias
	if err := json.Unmarshal(b, &obj); err != nil {
		// "{}" and "null" are valid placeholders for a missing value;
		// anything else is not a number
		return nil
	}

	n.Raw = obj.Raw
	n.Fmt = obj.Fmt
	n.valid = obj.Raw != nil

	return nil
}

// Float returns the value or nil when the source omitted it
func (n Number) Float() *float64 {
	if !n.valid {
		return nil
	}
	return n.Raw
}

// Int64 returns the value truncated to an integer or nil when the
// source omitted it
func (n Number) Int64() *int64 {
	if !n.valid || n.Raw == nil {
		return nil
	}
	v := int64(*n.Raw)
	return &v
}

// Time interprets the raw value as a unix timestamp; the zero time is
// returned when the source omitted it
func (n Number) Time() time.Time {
	if !n.valid || n.Raw == nil {
		return time.Time{}
	}
	return time.Unix(int64(*n.Raw), 0).UTC()
}
