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

package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/sqlrepo/database"
	"github.com/tomoncle/sqlrepo/types"
)

var (
	// ErrNoPrimaryKey is returned by key based operations on an entity
	// that does not declare exactly one primary key.
	ErrNoPrimaryKey = errors.New("entity must have exactly one primary key")

	// ErrProceduresUnsupported is returned for stored procedure calls on a
	// dialect without stored procedures.
	ErrProceduresUnsupported = errors.New("stored procedures are not supported by this database")

	// ErrKeyType is returned when a generated key cannot be represented by
	// the requested key type.
	ErrKeyType = errors.New("primary key is not convertible to the requested type")
)

// Executor carries the connection source shared by the generic functions.
// It holds no other state and is safe for concurrent use.
type Executor struct {
	connector database.Connector
}

// NewExecutor returns an Executor opening connections from
// connectionString.
func NewExecutor(connectionString string, opts ...database.Option) (*Executor, error) {
	connector, err := database.NewConnector(connectionString, opts...)
	if err != nil {
		return nil, err
	}
	return &Executor{connector: connector}, nil
}

// NewExecutorFromConfig returns an Executor for a loaded database config.
func NewExecutorFromConfig(cfg *database.Config, opts ...database.Option) (*Executor, error) {
	connector, err := database.NewConnectorFromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Executor{connector: connector}, nil
}

// NewExecutorWithConnector returns an Executor using c for every call.
func NewExecutorWithConnector(c database.Connector) *Executor {
	return &Executor{connector: c}
}

// Connector returns the connection source of the executor.
func (e *Executor) Connector() database.Connector { return e.connector }

// run opens a connection for exactly one call and closes it on every path.
// A close error is reported only when fn succeeded.
func run[R any](ctx context.Context, e *Executor, opts types.Options, fn func(ctx context.Context, db *bun.DB) (R, error)) (result R, err error) {
	ctx, cancel := opts.Context(ctx)
	defer cancel()

	db, err := e.connector.Connect(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(ctx, db)
}

func primaryKey[T any](db *bun.DB) (*schema.Field, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	table := db.Table(typ)
	if len(table.PKs) != 1 {
		return nil, fmt.Errorf("%w: %s has %d", ErrNoPrimaryKey, typ.Name(), len(table.PKs))
	}
	return table.PKs[0], nil
}

// checkKeyType reports ErrKeyType unless a primary key of type from can be
// returned as to. Integers convert to other integer types and to strings.
func checkKeyType(from, to reflect.Type) error {
	switch {
	case from.AssignableTo(to):
	case to.Kind() == reflect.String && (isInteger(from.Kind()) || from.Kind() == reflect.String):
	case isInteger(from.Kind()) && isInteger(to.Kind()):
	default:
		return fmt.Errorf("%w: %s to %s", ErrKeyType, from, to)
	}
	return nil
}

// keyValue reads the primary key of strct as K. A nil pointer or zero key
// yields nil.
func keyValue[K any](pk *schema.Field, strct reflect.Value) (*K, error) {
	v := pk.Value(strct)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if v.IsZero() {
		return nil, nil
	}
	return convertKey[K](v)
}

// convertKey converts a primary key value to K. Integer keys that do not
// fit K yield ErrKeyType.
func convertKey[K any](v reflect.Value) (*K, error) {
	kt := reflect.TypeOf((*K)(nil)).Elem()
	if err := checkKeyType(v.Type(), kt); err != nil {
		return nil, err
	}

	k := reflect.New(kt).Elem()
	switch {
	case v.Type().AssignableTo(kt):
		k.Set(v)
	case kt.Kind() == reflect.String:
		k.SetString(fmt.Sprint(v.Interface()))
	case isSigned(kt.Kind()):
		n, ok := signedValue(v)
		if !ok || k.OverflowInt(n) {
			return nil, fmt.Errorf("%w: %v overflows %s", ErrKeyType, v.Interface(), kt)
		}
		k.SetInt(n)
	default:
		n, ok := unsignedValue(v)
		if !ok || k.OverflowUint(n) {
			return nil, fmt.Errorf("%w: %v overflows %s", ErrKeyType, v.Interface(), kt)
		}
		k.SetUint(n)
	}
	key := k.Interface().(K)
	return &key, nil
}

func signedValue(v reflect.Value) (int64, bool) {
	if isSigned(v.Kind()) {
		return v.Int(), true
	}
	u := v.Uint()
	return int64(u), u <= math.MaxInt64
}

func unsignedValue(v reflect.Value) (uint64, bool) {
	if isSigned(v.Kind()) {
		n := v.Int()
		return uint64(n), n >= 0
	}
	return v.Uint(), true
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || (k >= reflect.Uint && k <= reflect.Uintptr)
}
