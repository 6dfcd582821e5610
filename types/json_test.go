/*
 * Copyright 2025 marlowe-io.
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

import "testing"

func TestJSONObjectScan(t *testing.T) {
	// sqlite returns strings, other drivers []byte.
	for _, raw := range []interface{}{`{"team":"core"}`, []byte(`{"team":"core"}`)} {
		var obj JSONObject
		if err := obj.Scan(raw); err != nil {
			t.Fatalf("scan %T: %v", raw, err)
		}
		if obj["team"] != "core" {
			t.Fatalf("scan %T: got %+v", raw, obj)
		}
	}

	var obj JSONObject
	if err := obj.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if obj == nil || len(obj) != 0 {
		t.Fatalf("expected empty object, got %+v", obj)
	}

	if err := obj.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestJSONObjectValue(t *testing.T) {
	v, err := JSONObject{"a": "b"}.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if string(v.([]byte)) != `{"a":"b"}` {
		t.Fatalf("unexpected encoding: %s", v)
	}

	var nilObj JSONObject
	if v, err := nilObj.Value(); err != nil || v != nil {
		t.Fatalf("nil object should encode as NULL, got %v, %v", v, err)
	}
}
