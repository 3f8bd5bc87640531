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
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/tomoncle/sqlrepo/types"
)

// DefaultProcedureListTimeout bounds ProcedureList calls made without an
// explicit timeout.
const DefaultProcedureListTimeout = 60 * time.Second

// Procedure calls the stored procedure name with the call parameters as
// arguments and discards any result.
func Procedure(ctx context.Context, e *Executor, name string, opt ...types.Option) error {
	opts := types.GetOpts(opt...)
	_, err := run(ctx, e, opts, func(ctx context.Context, db *bun.DB) (sql.Result, error) {
		query, err := procedureQuery(db, name, opts, false)
		if err != nil {
			return nil, err
		}
		return db.ExecContext(ctx, query, opts.Params.Args()...)
	})
	return err
}

// ProcedureFirst calls the stored procedure name and maps its first result
// row to R, or returns nil when it produced none.
func ProcedureFirst[R any](ctx context.Context, e *Executor, name string, opt ...types.Option) (*R, error) {
	opts := types.GetOpts(opt...)
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) (*R, error) {
		query, err := procedureQuery(db, name, opts, true)
		if err != nil {
			return nil, err
		}
		return first(scanRaw[R](ctx, db, query, opts.Params.Args()))
	})
}

// ProcedureList calls the stored procedure name and maps every result row
// to R. Without WithTimeout the call is bounded by
// DefaultProcedureListTimeout.
func ProcedureList[R any](ctx context.Context, e *Executor, name string, opt ...types.Option) ([]R, error) {
	opts := types.GetOpts(opt...)
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultProcedureListTimeout
	}
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) ([]R, error) {
		query, err := procedureQuery(db, name, opts, true)
		if err != nil {
			return nil, err
		}
		return scanRaw[R](ctx, db, query, opts.Params.Args())
	})
}

// procedureQuery renders the call statement for the connection's dialect.
// Postgres binds arguments by name; MySQL binds them by position in
// opts.OrderedNames order. Postgres functions returning rows are selected
// from rather than called.
func procedureQuery(db *bun.DB, name string, opts types.Options, rows bool) (string, error) {
	fmter := db.Formatter()
	names := opts.OrderedNames()
	args := make([]string, len(names))

	switch db.Dialect().Name() {
	case dialect.PG:
		for i, n := range names {
			args[i] = fmter.FormatQuery("?", bun.Ident(n)) + " => ?" + n
		}
		call := fmter.FormatQuery("?", bun.Ident(name)) + "(" + strings.Join(args, ", ") + ")"
		if rows {
			return "SELECT * FROM " + call, nil
		}
		return "CALL " + call, nil
	case dialect.MySQL:
		for i, n := range names {
			args[i] = "?" + n
		}
		return "CALL " + fmter.FormatQuery("?", bun.Ident(name)) + "(" + strings.Join(args, ", ") + ")", nil
	default:
		return "", ErrProceduresUnsupported
	}
}
