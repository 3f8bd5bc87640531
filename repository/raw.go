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
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/tomoncle/sqlrepo/types"
)

// QueryFirst runs a raw query and maps the first row to R, or returns nil
// when there are no rows. R may be a bun model or a scalar type.
func QueryFirst[R any](ctx context.Context, e *Executor, query string, opt ...types.Option) (*R, error) {
	opts := types.GetOpts(opt...)
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) (*R, error) {
		return first(scanRaw[R](ctx, db, opts.Params.Bind(query), opts.Params.Args()))
	})
}

// Query runs a raw query and maps every row to R.
func Query[R any](ctx context.Context, e *Executor, query string, opt ...types.Option) ([]R, error) {
	opts := types.GetOpts(opt...)
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) ([]R, error) {
		return scanRaw[R](ctx, db, opts.Params.Bind(query), opts.Params.Args())
	})
}

// Exec runs a raw statement and discards its result.
func Exec(ctx context.Context, e *Executor, query string, opt ...types.Option) error {
	opts := types.GetOpts(opt...)
	_, err := run(ctx, e, opts, func(ctx context.Context, db *bun.DB) (sql.Result, error) {
		return db.ExecContext(ctx, opts.Params.Bind(query), opts.Params.Args()...)
	})
	return err
}

// Scalar runs a raw query and returns the first column of the first row.
// No rows or a NULL value yields the zero value of R.
func Scalar[R any](ctx context.Context, e *Executor, query string, opt ...types.Option) (R, error) {
	opts := types.GetOpts(opt...)
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) (R, error) {
		var v sql.Null[R]
		err := db.QueryRowContext(ctx, opts.Params.Bind(query), opts.Params.Args()...).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			return v.V, nil
		}
		if err != nil || !v.Valid {
			var zero R
			return zero, err
		}
		return v.V, nil
	})
}

func scanRaw[R any](ctx context.Context, db *bun.DB, query string, args []interface{}) ([]R, error) {
	rows := make([]R, 0)
	if err := db.NewRaw(query, args...).Scan(ctx, &rows); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return rows, nil
}

func first[R any](rows []R, err error) (*R, error) {
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}
