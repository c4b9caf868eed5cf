// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package memory

import (
	"errors"
	"math"
	"testing"
)

func Test_Memory_01(t *testing.T) {
	var mem = NewMemory()
	// Untouched cells are typed zeros
	if v := mem.Get(1234); v != NewU8(0) {
		t.Errorf("expected U8(0), found %s", v)
	}
}

func Test_Memory_02(t *testing.T) {
	var mem = NewMemory()
	//
	mem.Set(7, NewU64(99))
	mem.Set(7, NewU32(3))
	//
	if v := mem.Get(7); v != NewU32(3) {
		t.Errorf("expected U32(3), found %s", v)
	}
}

func Test_Memory_03(t *testing.T) {
	var (
		mem    = NewMemory()
		values = []Value{NewFieldUint64(1), NewU8(2), NewU1(true)}
	)
	//
	if err := mem.SetSlice(10, values); err != nil {
		t.Fatal(err)
	}
	//
	actual, err := mem.GetSlice(9, 5)
	if err != nil {
		t.Fatal(err)
	}
	//
	expected := []Value{NewU8(0), NewFieldUint64(1), NewU8(2), NewU1(true), NewU8(0)}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("cell %d: expected %s, found %s", i, expected[i], actual[i])
		}
	}
}

func Test_Memory_04(t *testing.T) {
	var mem = NewMemory()
	//
	if _, err := mem.GetSlice(math.MaxUint32, 2); err == nil {
		t.Errorf("expected out-of-bounds error")
	}
	// Reading the very last cell is fine
	if _, err := mem.GetSlice(math.MaxUint32, 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	// Zero length slices are always fine
	if err := mem.SetSlice(math.MaxUint32, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func Test_CheckTag_01(t *testing.T) {
	var mem = NewMemory()
	//
	mem.Set(0, NewU32(1))
	//
	if err := mem.CheckTag(U32, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	//
	checkTagMismatch(t, mem.CheckTag(FIELD, 0))
	// Default cells are U8
	checkTagMismatch(t, mem.CheckTag(U32, 1))
}

func Test_CheckTag_02(t *testing.T) {
	var mem = NewMemory()
	//
	mem.Set(0, NewU16(1))
	mem.Set(1, NewU16(2))
	mem.Set(2, NewU8(2))
	//
	if err := mem.CheckTagsAreSame(0, 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	//
	checkTagMismatch(t, mem.CheckTagsAreSame(1, 2))
}

func Test_Settle_01(t *testing.T) {
	var mem = NewMemory()
	//
	mem.Begin(2, 1)
	mem.Get(0)
	mem.Get(1)
	mem.Set(2, NewU8(1))
	//
	if err := mem.Settle(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func Test_Settle_02(t *testing.T) {
	var mem = NewMemory()
	//
	mem.Begin(1, 1)
	mem.Get(0)
	mem.Get(1)
	mem.Set(2, NewU8(1))
	//
	var access *AccessCountError
	if err := mem.Settle(); !errors.As(err, &access) {
		t.Errorf("expected access count error, found %v", err)
	}
}

func Test_Settle_03(t *testing.T) {
	var mem = NewMemory()
	//
	mem.Begin(1, 0)
	mem.Get(0)
	mem.Declare(0, 3)
	// Tag checks are not reads
	_ = mem.CheckTag(U8, 4)
	_ = mem.SetSlice(1, []Value{NewU8(1), NewU8(2), NewU8(3)})
	//
	if err := mem.Settle(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func checkTagMismatch(t *testing.T, err error) {
	t.Helper()
	//
	var mismatch *TagMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected tag mismatch, found %v", err)
	}
}
