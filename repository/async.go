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
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomoncle/sqlrepo/types"
)

// Future is the pending result of an ...Async call.
type Future[R any] struct {
	done  chan struct{}
	value R
	err   error
}

// Awaitable is implemented by every Future regardless of its result type.
type Awaitable interface {
	Wait(ctx context.Context) error
}

// Go runs fn on its own goroutine and returns its Future. A panic in fn is
// reported as the Future's error.
func Go[R any](ctx context.Context, fn func(ctx context.Context) (R, error)) *Future[R] {
	f := &Future[R]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("async call panicked: %v", r)
			}
		}()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Await blocks until the call completes or ctx is done. Abandoning a
// Future does not cancel the call; cancel the context given to the
// ...Async function for that.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Wait is Await without the value.
func (f *Future[R]) Wait(ctx context.Context) error {
	_, err := f.Await(ctx)
	return err
}

// WaitAll waits for every future and returns the first error.
func WaitAll(ctx context.Context, futures ...Awaitable) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range futures {
		g.Go(func() error { return f.Wait(ctx) })
	}
	return g.Wait()
}

// GetAsync runs Get on its own goroutine.
func GetAsync[T any, K comparable](ctx context.Context, e *Executor, key K, opt ...types.Option) *Future[*T] {
	return Go(ctx, func(ctx context.Context) (*T, error) { return Get[T](ctx, e, key, opt...) })
}

// GetWhereAsync runs GetWhere on its own goroutine.
func GetWhereAsync[T any](ctx context.Context, e *Executor, where string, opt ...types.Option) *Future[*T] {
	return Go(ctx, func(ctx context.Context) (*T, error) { return GetWhere[T](ctx, e, where, opt...) })
}

// QueryFirstAsync runs QueryFirst on its own goroutine.
func QueryFirstAsync[R any](ctx context.Context, e *Executor, query string, opt ...types.Option) *Future[*R] {
	return Go(ctx, func(ctx context.Context) (*R, error) { return QueryFirst[R](ctx, e, query, opt...) })
}

// GetAllAsync runs GetAll on its own goroutine.
func GetAllAsync[T any](ctx context.Context, e *Executor, opt ...types.Option) *Future[[]*T] {
	return Go(ctx, func(ctx context.Context) ([]*T, error) { return GetAll[T](ctx, e, opt...) })
}

// ListAsync runs List on its own goroutine.
func ListAsync[T any](ctx context.Context, e *Executor, where string, opt ...types.Option) *Future[[]*T] {
	return Go(ctx, func(ctx context.Context) ([]*T, error) { return List[T](ctx, e, where, opt...) })
}

// QueryAsync runs Query on its own goroutine.
func QueryAsync[R any](ctx context.Context, e *Executor, query string, opt ...types.Option) *Future[[]R] {
	return Go(ctx, func(ctx context.Context) ([]R, error) { return Query[R](ctx, e, query, opt...) })
}

// PageAsync runs Page on its own goroutine.
func PageAsync[T any](ctx context.Context, e *Executor, pageRequest *types.PageRequest, opt ...types.Option) *Future[*types.Pagination[T]] {
	return Go(ctx, func(ctx context.Context) (*types.Pagination[T], error) {
		return Page[T](ctx, e, pageRequest, opt...)
	})
}

// UpdateAsync runs Update on its own goroutine.
func UpdateAsync[T any](ctx context.Context, e *Executor, entity *T, opt ...types.Option) *Future[int64] {
	return Go(ctx, func(ctx context.Context) (int64, error) { return Update(ctx, e, entity, opt...) })
}

// InsertAsync runs Insert on its own goroutine.
func InsertAsync[T any](ctx context.Context, e *Executor, entity *T, opt ...types.Option) *Future[*int64] {
	return Go(ctx, func(ctx context.Context) (*int64, error) { return Insert(ctx, e, entity, opt...) })
}

// InsertAsAsync runs InsertAs on its own goroutine.
func InsertAsAsync[T any, K comparable](ctx context.Context, e *Executor, entity *T, opt ...types.Option) *Future[*K] {
	return Go(ctx, func(ctx context.Context) (*K, error) { return InsertAs[T, K](ctx, e, entity, opt...) })
}

// DeleteAsync runs Delete on its own goroutine.
func DeleteAsync[T any, K comparable](ctx context.Context, e *Executor, key K, opt ...types.Option) *Future[int64] {
	return Go(ctx, func(ctx context.Context) (int64, error) { return Delete[T](ctx, e, key, opt...) })
}

// DeleteWhereAsync runs DeleteWhere on its own goroutine.
func DeleteWhereAsync[T any](ctx context.Context, e *Executor, where string, opt ...types.Option) *Future[int64] {
	return Go(ctx, func(ctx context.Context) (int64, error) { return DeleteWhere[T](ctx, e, where, opt...) })
}

// ExecAsync runs Exec on its own goroutine. Its Future resolves to
// struct{}.
func ExecAsync(ctx context.Context, e *Executor, query string, opt ...types.Option) *Future[struct{}] {
	return Go(ctx, func(ctx context.Context) (struct{}, error) { return struct{}{}, Exec(ctx, e, query, opt...) })
}

// ScalarAsync runs Scalar on its own goroutine.
func ScalarAsync[R any](ctx context.Context, e *Executor, query string, opt ...types.Option) *Future[R] {
	return Go(ctx, func(ctx context.Context) (R, error) { return Scalar[R](ctx, e, query, opt...) })
}

// ProcedureAsync runs Procedure on its own goroutine. Its Future
// resolves to struct{}.
func ProcedureAsync(ctx context.Context, e *Executor, name string, opt ...types.Option) *Future[struct{}] {
	return Go(ctx, func(ctx context.Context) (struct{}, error) { return struct{}{}, Procedure(ctx, e, name, opt...) })
}

// ProcedureFirstAsync runs ProcedureFirst on its own goroutine.
func ProcedureFirstAsync[R any](ctx context.Context, e *Executor, name string, opt ...types.Option) *Future[*R] {
	return Go(ctx, func(ctx context.Context) (*R, error) { return ProcedureFirst[R](ctx, e, name, opt...) })
}

// ProcedureListAsync runs ProcedureList on its own goroutine.
func ProcedureListAsync[R any](ctx context.Context, e *Executor, name string, opt ...types.Option) *Future[[]R] {
	return Go(ctx, func(ctx context.Context) ([]R, error) { return ProcedureList[R](ctx, e, name, opt...) })
}
