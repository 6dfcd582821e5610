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

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsSqlErrorMySQLNumbers(t *testing.T) {
	cases := []struct {
		number uint16
		want   SQLError
	}{
		{1062, DuplicateKeyErr},
		{1054, NoColumnErr},
		{1050, ExistTableErr},
		{1048, NotNullViolationErr},
		{1451, ForeignKeyViolationErr},
		{3819, CheckConstraintViolationErr},
		{1265, DataTruncatedErr},
		{9999, UnknownErr},
	}
	for _, tc := range cases {
		err := &mysql.MySQLError{Number: tc.number, Message: "test"}
		is, kind := IsSqlError(fmt.Errorf("exec: %w", err))
		if !is {
			t.Errorf("number %d: not recognized as sql error", tc.number)
		}
		if kind != tc.want {
			t.Errorf("number %d: expected %v, got %v", tc.number, tc.want, kind)
		}
	}
}

func TestIsSqlErrorMessages(t *testing.T) {
	cases := []struct {
		err    error
		wantIs bool
		want   SQLError
	}{
		{errors.New("SQLSTATE 23505: duplicate key value violates unique constraint"), true, DuplicateKeyErr},
		{errors.New("UNIQUE constraint failed: users.email"), true, DuplicateKeyErr},
		{errors.New("no such table: users"), true, NoTableErr},
		{errors.New("SQLSTATE 42P01: undefined table"), true, NoTableErr},
		{errors.New("no such column: nickname"), true, NoColumnErr},
		{errors.New("NOT NULL constraint failed: users.name"), true, NotNullViolationErr},
		{errors.New("FOREIGN KEY constraint failed"), true, ForeignKeyViolationErr},
		{errors.New("relation \"users\" already exists"), true, ExistTableErr},
		{errors.New("datatype mismatch"), true, InvalidTypeCastErr},
		{errors.New("connection refused"), false, UnknownErr},
	}
	for _, tc := range cases {
		is, kind := IsSqlError(tc.err)
		if is != tc.wantIs || kind != tc.want {
			t.Errorf("%q: expected (%v, %v), got (%v, %v)", tc.err, tc.wantIs, tc.want, is, kind)
		}
	}
}

func TestIsSqlErrorNoRows(t *testing.T) {
	is, kind := IsSqlError(fmt.Errorf("scan: %w", sql.ErrNoRows))
	if !is || kind != NoRowsErr {
		t.Fatalf("expected NoRowsErr, got (%v, %v)", is, kind)
	}
	if !IsNoRows(fmt.Errorf("scan: %w", sql.ErrNoRows)) {
		t.Fatal("IsNoRows should unwrap")
	}
	if IsNoRows(errors.New("other")) {
		t.Fatal("IsNoRows false positive")
	}
}
