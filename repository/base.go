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
	"reflect"

	"github.com/uptrace/bun"

	"github.com/tomoncle/sqlrepo/types"
)

// Get returns the entity whose primary key equals key, or nil.
func Get[T any, K comparable](ctx context.Context, e *Executor, key K, opt ...types.Option) (*T, error) {
	return run(ctx, e, types.GetOpts(opt...), func(ctx context.Context, db *bun.DB) (*T, error) {
		if _, err := primaryKey[T](db); err != nil {
			return nil, err
		}
		entity := new(T)
		err := db.NewSelect().Model(entity).Where("?PKs = ?", key).Limit(1).Scan(ctx)
		return single(entity, err)
	})
}

// GetWhere returns the first entity matching where, or nil.
func GetWhere[T any](ctx context.Context, e *Executor, where string, opt ...types.Option) (*T, error) {
	opts := types.GetOpts(opt...)
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) (*T, error) {
		entities := make([]*T, 0, 1)
		q := db.NewSelect().Model(&entities)
		if where != "" {
			q = q.Where(opts.Params.Bind(where), opts.Params.Args()...)
		}
		if err := q.Limit(1).Scan(ctx); err != nil {
			return single[T](nil, err)
		}
		if len(entities) == 0 {
			return nil, nil
		}
		return entities[0], nil
	})
}

// GetAll returns every row of T's table.
func GetAll[T any](ctx context.Context, e *Executor, opt ...types.Option) ([]*T, error) {
	return List[T](ctx, e, "", opt...)
}

// List returns every entity matching where. No match yields an empty slice.
func List[T any](ctx context.Context, e *Executor, where string, opt ...types.Option) ([]*T, error) {
	opts := types.GetOpts(opt...)
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) ([]*T, error) {
		entities := make([]*T, 0)
		q := db.NewSelect().Model(&entities)
		if where != "" {
			q = q.Where(opts.Params.Bind(where), opts.Params.Args()...)
		}
		if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return entities, nil
	})
}

// Page returns one page of the entities matching the request filter along
// with the total number of matches. A nil request means the first page.
func Page[T any](ctx context.Context, e *Executor, pageRequest *types.PageRequest, opt ...types.Option) (*types.Pagination[T], error) {
	if pageRequest == nil {
		pageRequest = types.NewDefaultPageRequest(1, 0)
	}
	opts := types.GetOpts(opt...)
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) (*types.Pagination[T], error) {
		entities := make([]*T, 0, pageRequest.GetPageSize())
		query := db.NewSelect().Model(&entities)
		if where := pageRequest.GetWhere(); where != "" {
			query = query.Where(opts.Params.Bind(where), opts.Params.Args()...)
		}
		pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
		total, err := query.Count(ctx)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return pagination, nil
		}
		for _, order := range pageRequest.GetOrders() {
			query = query.OrderExpr(order)
		}
		err = query.
			Offset(pageRequest.GetOffset()).
			Limit(pageRequest.GetPageSize()).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		pagination.Total = total
		pagination.Items = entities
		return pagination, nil
	})
}

// Update writes every column of entity to the row with the same primary
// key and returns the number of rows affected.
func Update[T any](ctx context.Context, e *Executor, entity *T, opt ...types.Option) (int64, error) {
	return run(ctx, e, types.GetOpts(opt...), func(ctx context.Context, db *bun.DB) (int64, error) {
		if _, err := primaryKey[T](db); err != nil {
			return 0, err
		}
		c := *entity
		res, err := db.NewUpdate().Model(&c).WherePK().Exec(ctx)
		return rowsAffected(res, err)
	})
}

// Insert inserts entity and returns its generated integer key. Entities
// whose key is not integral yield ErrKeyType before any statement is sent;
// use InsertAs for those.
func Insert[T any](ctx context.Context, e *Executor, entity *T, opt ...types.Option) (*int64, error) {
	return InsertAs[T, int64](ctx, e, entity, opt...)
}

// InsertAs inserts entity and returns its primary key as K. The key is nil
// when the database produced none. A key type that cannot hold the entity's
// primary key yields ErrKeyType and nothing is inserted. entity itself is
// left unchanged.
func InsertAs[T any, K comparable](ctx context.Context, e *Executor, entity *T, opt ...types.Option) (*K, error) {
	return run(ctx, e, types.GetOpts(opt...), func(ctx context.Context, db *bun.DB) (*K, error) {
		pk, err := primaryKey[T](db)
		if err != nil {
			return nil, err
		}
		if err := checkKeyType(pk.IndirectType, reflect.TypeOf((*K)(nil)).Elem()); err != nil {
			return nil, err
		}
		c := *entity
		if _, err := db.NewInsert().Model(&c).Exec(ctx); err != nil {
			return nil, err
		}
		return keyValue[K](pk, reflect.ValueOf(&c).Elem())
	})
}

// Delete removes the row whose primary key equals key and returns the
// number of rows affected. A missing row is 0, not an error.
func Delete[T any, K comparable](ctx context.Context, e *Executor, key K, opt ...types.Option) (int64, error) {
	return run(ctx, e, types.GetOpts(opt...), func(ctx context.Context, db *bun.DB) (int64, error) {
		if _, err := primaryKey[T](db); err != nil {
			return 0, err
		}
		res, err := db.NewDelete().Model((*T)(nil)).Where("?PKs = ?", key).Exec(ctx)
		return rowsAffected(res, err)
	})
}

// DeleteWhere removes every row matching where. An empty filter removes
// all rows of the table.
func DeleteWhere[T any](ctx context.Context, e *Executor, where string, opt ...types.Option) (int64, error) {
	opts := types.GetOpts(opt...)
	return run(ctx, e, opts, func(ctx context.Context, db *bun.DB) (int64, error) {
		q := db.NewDelete().Model((*T)(nil))
		if where == "" {
			q = q.Where("1 = 1")
		} else {
			q = q.Where(opts.Params.Bind(where), opts.Params.Args()...)
		}
		res, err := q.Exec(ctx)
		return rowsAffected(res, err)
	})
}

func single[T any](entity *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
