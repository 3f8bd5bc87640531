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

package sqlrepo

import (
	"context"

	"github.com/tomoncle/sqlrepo/database"
	"github.com/tomoncle/sqlrepo/repository"
	"github.com/tomoncle/sqlrepo/types"
)

// Service is the strongly-typed facade for entity T with primary key K.
// Every method forwards to the function of the same name in package
// repository.
type Service[T any, K comparable] interface {
	// Get returns the entity with the given key, or nil.
	Get(ctx context.Context, key K, opt ...types.Option) (*T, error)

	// GetWhere returns the first entity matching where, or nil.
	GetWhere(ctx context.Context, where string, opt ...types.Option) (*T, error)

	// QueryFirst maps the first row of a raw query to T, or returns nil.
	QueryFirst(ctx context.Context, query string, opt ...types.Option) (*T, error)

	// GetAll returns all entities.
	GetAll(ctx context.Context, opt ...types.Option) ([]*T, error)

	// List returns entities that match the provided filter.
	List(ctx context.Context, where string, opt ...types.Option) ([]*T, error)

	// Query executes a raw query and maps the results to entities.
	Query(ctx context.Context, query string, opt ...types.Option) ([]T, error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest, opt ...types.Option) (*types.Pagination[T], error)

	// Update modifies an existing entity and reports the rows affected.
	Update(ctx context.Context, model *T, opt ...types.Option) (int64, error)

	// Insert adds a new entity and returns its generated key.
	Insert(ctx context.Context, model *T, opt ...types.Option) (*K, error)

	// Delete removes an entity by its key.
	Delete(ctx context.Context, key K, opt ...types.Option) (int64, error)

	// DeleteWhere removes every entity matching where.
	DeleteWhere(ctx context.Context, where string, opt ...types.Option) (int64, error)

	// Exec runs a raw statement.
	Exec(ctx context.Context, query string, opt ...types.Option) error

	// Scalar returns the first column of the first row as the driver
	// value. Use repository.Scalar with Executor for a typed result.
	Scalar(ctx context.Context, query string, opt ...types.Option) (any, error)

	// Procedure calls a stored procedure.
	Procedure(ctx context.Context, name string, opt ...types.Option) error

	// ProcedureFirst calls a stored procedure and maps its first row.
	ProcedureFirst(ctx context.Context, name string, opt ...types.Option) (*T, error)

	// ProcedureList calls a stored procedure and maps every row.
	ProcedureList(ctx context.Context, name string, opt ...types.Option) ([]T, error)

	GetAsync(ctx context.Context, key K, opt ...types.Option) *repository.Future[*T]
	GetWhereAsync(ctx context.Context, where string, opt ...types.Option) *repository.Future[*T]
	QueryFirstAsync(ctx context.Context, query string, opt ...types.Option) *repository.Future[*T]
	GetAllAsync(ctx context.Context, opt ...types.Option) *repository.Future[[]*T]
	ListAsync(ctx context.Context, where string, opt ...types.Option) *repository.Future[[]*T]
	QueryAsync(ctx context.Context, query string, opt ...types.Option) *repository.Future[[]T]
	PageAsync(ctx context.Context, page *types.PageRequest, opt ...types.Option) *repository.Future[*types.Pagination[T]]
	UpdateAsync(ctx context.Context, model *T, opt ...types.Option) *repository.Future[int64]
	InsertAsync(ctx context.Context, model *T, opt ...types.Option) *repository.Future[*K]
	DeleteAsync(ctx context.Context, key K, opt ...types.Option) *repository.Future[int64]
	DeleteWhereAsync(ctx context.Context, where string, opt ...types.Option) *repository.Future[int64]
	ExecAsync(ctx context.Context, query string, opt ...types.Option) *repository.Future[struct{}]
	ScalarAsync(ctx context.Context, query string, opt ...types.Option) *repository.Future[any]
	ProcedureAsync(ctx context.Context, name string, opt ...types.Option) *repository.Future[struct{}]
	ProcedureFirstAsync(ctx context.Context, name string, opt ...types.Option) *repository.Future[*T]
	ProcedureListAsync(ctx context.Context, name string, opt ...types.Option) *repository.Future[[]T]

	// Executor returns the executor shared with the generic facade.
	Executor() *repository.Executor
}

type baseServiceImpl[T any, K comparable] struct {
	executor *repository.Executor
}

// NewService returns a Service opening connections from connectionString.
func NewService[T any, K comparable](connectionString string, opts ...database.Option) (Service[T, K], error) {
	executor, err := repository.NewExecutor(connectionString, opts...)
	if err != nil {
		return nil, err
	}
	return NewServiceWithExecutor[T, K](executor), nil
}

// NewServiceFromConfig returns a Service for a loaded database config.
func NewServiceFromConfig[T any, K comparable](cfg *database.Config, opts ...database.Option) (Service[T, K], error) {
	executor, err := repository.NewExecutorFromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return NewServiceWithExecutor[T, K](executor), nil
}

// NewServiceWithExecutor returns a Service sharing executor.
func NewServiceWithExecutor[T any, K comparable](executor *repository.Executor) Service[T, K] {
	return &baseServiceImpl[T, K]{executor: executor}
}

func (s *baseServiceImpl[T, K]) Executor() *repository.Executor { return s.executor }

func (s *baseServiceImpl[T, K]) Get(ctx context.Context, key K, opt ...types.Option) (*T, error) {
	return repository.Get[T](ctx, s.executor, key, opt...)
}

func (s *baseServiceImpl[T, K]) GetWhere(ctx context.Context, where string, opt ...types.Option) (*T, error) {
	return repository.GetWhere[T](ctx, s.executor, where, opt...)
}

func (s *baseServiceImpl[T, K]) QueryFirst(ctx context.Context, query string, opt ...types.Option) (*T, error) {
	return repository.QueryFirst[T](ctx, s.executor, query, opt...)
}

func (s *baseServiceImpl[T, K]) GetAll(ctx context.Context, opt ...types.Option) ([]*T, error) {
	return repository.GetAll[T](ctx, s.executor, opt...)
}

func (s *baseServiceImpl[T, K]) List(ctx context.Context, where string, opt ...types.Option) ([]*T, error) {
	return repository.List[T](ctx, s.executor, where, opt...)
}

func (s *baseServiceImpl[T, K]) Query(ctx context.Context, query string, opt ...types.Option) ([]T, error) {
	return repository.Query[T](ctx, s.executor, query, opt...)
}

func (s *baseServiceImpl[T, K]) Page(ctx context.Context, page *types.PageRequest, opt ...types.Option) (*types.Pagination[T], error) {
	return repository.Page[T](ctx, s.executor, page, opt...)
}

func (s *baseServiceImpl[T, K]) Update(ctx context.Context, model *T, opt ...types.Option) (int64, error) {
	return repository.Update(ctx, s.executor, model, opt...)
}

func (s *baseServiceImpl[T, K]) Insert(ctx context.Context, model *T, opt ...types.Option) (*K, error) {
	return repository.InsertAs[T, K](ctx, s.executor, model, opt...)
}

func (s *baseServiceImpl[T, K]) Delete(ctx context.Context, key K, opt ...types.Option) (int64, error) {
	return repository.Delete[T](ctx, s.executor, key, opt...)
}

func (s *baseServiceImpl[T, K]) DeleteWhere(ctx context.Context, where string, opt ...types.Option) (int64, error) {
	return repository.DeleteWhere[T](ctx, s.executor, where, opt...)
}

func (s *baseServiceImpl[T, K]) Exec(ctx context.Context, query string, opt ...types.Option) error {
	return repository.Exec(ctx, s.executor, query, opt...)
}

func (s *baseServiceImpl[T, K]) Scalar(ctx context.Context, query string, opt ...types.Option) (any, error) {
	return repository.Scalar[any](ctx, s.executor, query, opt...)
}

func (s *baseServiceImpl[T, K]) Procedure(ctx context.Context, name string, opt ...types.Option) error {
	return repository.Procedure(ctx, s.executor, name, opt...)
}

func (s *baseServiceImpl[T, K]) ProcedureFirst(ctx context.Context, name string, opt ...types.Option) (*T, error) {
	return repository.ProcedureFirst[T](ctx, s.executor, name, opt...)
}

func (s *baseServiceImpl[T, K]) ProcedureList(ctx context.Context, name string, opt ...types.Option) ([]T, error) {
	return repository.ProcedureList[T](ctx, s.executor, name, opt...)
}

func (s *baseServiceImpl[T, K]) GetAsync(ctx context.Context, key K, opt ...types.Option) *repository.Future[*T] {
	return repository.GetAsync[T](ctx, s.executor, key, opt...)
}

func (s *baseServiceImpl[T, K]) GetWhereAsync(ctx context.Context, where string, opt ...types.Option) *repository.Future[*T] {
	return repository.GetWhereAsync[T](ctx, s.executor, where, opt...)
}

func (s *baseServiceImpl[T, K]) QueryFirstAsync(ctx context.Context, query string, opt ...types.Option) *repository.Future[*T] {
	return repository.QueryFirstAsync[T](ctx, s.executor, query, opt...)
}

func (s *baseServiceImpl[T, K]) GetAllAsync(ctx context.Context, opt ...types.Option) *repository.Future[[]*T] {
	return repository.GetAllAsync[T](ctx, s.executor, opt...)
}

func (s *baseServiceImpl[T, K]) ListAsync(ctx context.Context, where string, opt ...types.Option) *repository.Future[[]*T] {
	return repository.ListAsync[T](ctx, s.executor, where, opt...)
}

func (s *baseServiceImpl[T, K]) QueryAsync(ctx context.Context, query string, opt ...types.Option) *repository.Future[[]T] {
	return repository.QueryAsync[T](ctx, s.executor, query, opt...)
}

func (s *baseServiceImpl[T, K]) PageAsync(ctx context.Context, page *types.PageRequest, opt ...types.Option) *repository.Future[*types.Pagination[T]] {
	return repository.PageAsync[T](ctx, s.executor, page, opt...)
}

func (s *baseServiceImpl[T, K]) UpdateAsync(ctx context.Context, model *T, opt ...types.Option) *repository.Future[int64] {
	return repository.UpdateAsync(ctx, s.executor, model, opt...)
}

func (s *baseServiceImpl[T, K]) InsertAsync(ctx context.Context, model *T, opt ...types.Option) *repository.Future[*K] {
	return repository.InsertAsAsync[T, K](ctx, s.executor, model, opt...)
}

func (s *baseServiceImpl[T, K]) DeleteAsync(ctx context.Context, key K, opt ...types.Option) *repository.Future[int64] {
	return repository.DeleteAsync[T](ctx, s.executor, key, opt...)
}

func (s *baseServiceImpl[T, K]) DeleteWhereAsync(ctx context.Context, where string, opt ...types.Option) *repository.Future[int64] {
	return repository.DeleteWhereAsync[T](ctx, s.executor, where, opt...)
}

func (s *baseServiceImpl[T, K]) ExecAsync(ctx context.Context, query string, opt ...types.Option) *repository.Future[struct{}] {
	return repository.ExecAsync(ctx, s.executor, query, opt...)
}

func (s *baseServiceImpl[T, K]) ScalarAsync(ctx context.Context, query string, opt ...types.Option) *repository.Future[any] {
	return repository.ScalarAsync[any](ctx, s.executor, query, opt...)
}

func (s *baseServiceImpl[T, K]) ProcedureAsync(ctx context.Context, name string, opt ...types.Option) *repository.Future[struct{}] {
	return repository.ProcedureAsync(ctx, s.executor, name, opt...)
}

func (s *baseServiceImpl[T, K]) ProcedureFirstAsync(ctx context.Context, name string, opt ...types.Option) *repository.Future[*T] {
	return repository.ProcedureFirstAsync[T](ctx, s.executor, name, opt...)
}

func (s *baseServiceImpl[T, K]) ProcedureListAsync(ctx context.Context, name string, opt ...types.Option) *repository.Future[[]T] {
	return repository.ProcedureListAsync[T](ctx, s.executor, name, opt...)
}
