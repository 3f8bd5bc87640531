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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/tomoncle/sqlrepo/types"
)

func TestFuture(t *testing.T) {
	ctx := context.Background()

	f := Go(ctx, func(context.Context) (int, error) { return 42, nil })
	v, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	<-f.Done()

	boom := errors.New("boom")
	f = Go(ctx, func(context.Context) (int, error) { return 0, boom })
	assert.Same(t, boom, f.Wait(ctx))

	f = Go(ctx, func(context.Context) (int, error) { panic("bad row") })
	_, err = f.Await(ctx)
	assert.ErrorContains(t, err, "bad row")

	release := make(chan struct{})
	defer close(release)
	slow := Go(ctx, func(context.Context) (int, error) { <-release; return 1, nil })
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = slow.Await(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAsyncOperations(t *testing.T) {
	ctx := context.Background()
	e := newTestExecutor(t)

	id, err := InsertAsync(ctx, e, &Dog{Name: "rex", Weight: 30}).Await(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	_, err = InsertAsAsync[Dog, int64](ctx, e, &Dog{Name: "fido", Weight: 10}).Await(ctx)
	require.NoError(t, err)

	get := GetAsync[Dog](ctx, e, *id)
	where := GetWhereAsync[Dog](ctx, e, "name = @name", types.WithParams(types.Params{"name": "fido"}))
	first := QueryFirstAsync[Dog](ctx, e, "SELECT * FROM dogs ORDER BY weight")
	all := GetAllAsync[Dog](ctx, e)
	list := ListAsync[Dog](ctx, e, "weight > 20")
	query := QueryAsync[string](ctx, e, "SELECT name FROM dogs ORDER BY name")
	page := PageAsync[Dog](ctx, e, types.NewDefaultPageRequest(1, 1))
	count := ScalarAsync[int64](ctx, e, "SELECT COUNT(*) FROM dogs")
	require.NoError(t, WaitAll(ctx, get, where, first, all, list, query, page, count))

	dog, _ := get.Await(ctx)
	assert.Equal(t, "rex", dog.Name)
	fido, _ := where.Await(ctx)
	assert.Equal(t, "fido", fido.Name)
	light, _ := first.Await(ctx)
	assert.Equal(t, "fido", light.Name)
	dogs, _ := all.Await(ctx)
	assert.Len(t, dogs, 2)
	heavy, _ := list.Await(ctx)
	assert.Len(t, heavy, 1)
	names, _ := query.Await(ctx)
	assert.Equal(t, []string{"fido", "rex"}, names)
	p, _ := page.Await(ctx)
	assert.Equal(t, 2, p.Total)
	n, _ := count.Await(ctx)
	assert.Equal(t, int64(2), n)

	affected, err := UpdateAsync(ctx, e, &Dog{ID: *id, Name: "rex", Weight: 31}).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = ExecAsync(ctx, e, "UPDATE dogs SET weight = 1 WHERE name = 'fido'").Await(ctx)
	require.NoError(t, err)

	affected, err = DeleteAsync[Dog](ctx, e, *id).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = DeleteWhereAsync[Dog](ctx, e, "").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	err = WaitAll(ctx,
		ProcedureAsync(ctx, e, "p"),
		ProcedureFirstAsync[Dog](ctx, e, "p"),
		ProcedureListAsync[Dog](ctx, e, "p"),
	)
	assert.ErrorIs(t, err, ErrProceduresUnsupported)
}

func TestConcurrentCalls(t *testing.T) {
	ctx := context.Background()
	e := newTestExecutor(t)
	seedDogs(t, e, 10)

	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i <= 10; i++ {
		g.Go(func() error {
			dog, err := Get[Dog](gctx, e, int64(i))
			if err != nil {
				return err
			}
			if dog == nil || dog.ID != int64(i) {
				return errors.New("unexpected dog")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
