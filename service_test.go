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
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/tomoncle/sqlrepo/database"
	"github.com/tomoncle/sqlrepo/repository"
	"github.com/tomoncle/sqlrepo/types"
)

type SystemConfig struct {
	bun.BaseModel `bun:"table:system_config,alias:sc"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	ConfigKey   string `bun:"config_key,notnull,unique" json:"config_key"`
	ConfigValue string `bun:"config_value" json:"config_value"`
}

func newTestService(t *testing.T) Service[SystemConfig, int64] {
	t.Helper()
	svc, err := NewService[SystemConfig, int64]("sqlite://" + filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	require.NoError(t, svc.Exec(context.Background(), `CREATE TABLE system_config (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		config_key TEXT NOT NULL UNIQUE,
		config_value TEXT)`))
	return svc
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	id, err := svc.Insert(ctx, &SystemConfig{ConfigKey: "timeout", ConfigValue: "30s"})
	require.NoError(t, err)
	require.NotNil(t, id)
	_, err = svc.Insert(ctx, &SystemConfig{ConfigKey: "retries", ConfigValue: "3"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, *id)
	require.NoError(t, err)
	want := &SystemConfig{ID: *id, ConfigKey: "timeout", ConfigValue: "30s"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	byKey, err := svc.GetWhere(ctx, "config_key = @key", types.WithParams(types.Params{"key": "retries"}))
	require.NoError(t, err)
	assert.Equal(t, "3", byKey.ConfigValue)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	list, err := svc.List(ctx, "config_value = '3'")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	rows, err := svc.Query(ctx, "SELECT * FROM system_config ORDER BY config_key")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "retries", rows[0].ConfigKey)

	first, err := svc.QueryFirst(ctx, "SELECT * FROM system_config WHERE id = ?id", types.WithParams(types.Params{"id": *id}))
	require.NoError(t, err)
	assert.Equal(t, "timeout", first.ConfigKey)

	page, err := svc.Page(ctx, types.NewPageRequest(1, 1, "", "config_key DESC"))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "timeout", page.Items[0].ConfigKey)

	count, err := svc.Scalar(ctx, "SELECT COUNT(*) FROM system_config")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	n, err := svc.Update(ctx, &SystemConfig{ID: *id, ConfigKey: "timeout", ConfigValue: "60s"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Delete(ctx, *id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	missing, err := svc.Get(ctx, *id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err = svc.DeleteWhere(ctx, "config_key = @key", types.WithParams(types.Params{"key": "retries"}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, svc.Procedure(ctx, "refresh"), repository.ErrProceduresUnsupported)
	_, err = svc.ProcedureFirst(ctx, "refresh")
	assert.ErrorIs(t, err, repository.ErrProceduresUnsupported)
	_, err = svc.ProcedureList(ctx, "refresh")
	assert.ErrorIs(t, err, repository.ErrProceduresUnsupported)
}

func TestServiceAsync(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	id, err := svc.InsertAsync(ctx, &SystemConfig{ConfigKey: "a", ConfigValue: "1"}).Await(ctx)
	require.NoError(t, err)

	get := svc.GetAsync(ctx, *id)
	all := svc.GetAllAsync(ctx)
	count := svc.ScalarAsync(ctx, "SELECT COUNT(*) FROM system_config")
	require.NoError(t, repository.WaitAll(ctx, get, all, count))

	got, _ := get.Await(ctx)
	assert.Equal(t, "a", got.ConfigKey)
	n, _ := count.Await(ctx)
	assert.EqualValues(t, 1, n)

	affected, err := svc.DeleteAsync(ctx, *id).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestServiceShareExecutor(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.Insert(ctx, &SystemConfig{ConfigKey: "k", ConfigValue: "v"})
	require.NoError(t, err)

	other := NewServiceWithExecutor[SystemConfig, int64](svc.Executor())
	n, err := repository.Scalar[int](ctx, other.Executor(), "SELECT COUNT(*) FROM system_config")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewServiceFromConfig(t *testing.T) {
	cfg := database.DefaultConfig()
	cfg.Connection = database.ConnectionConfig{Type: "sqlite", DBName: filepath.Join(t.TempDir(), "cfg")}

	svc, err := NewServiceFromConfig[SystemConfig, int64](cfg)
	require.NoError(t, err)
	require.NoError(t, svc.Exec(context.Background(), "SELECT 1"))

	_, err = NewService[SystemConfig, int64]("oracle://scott@tiger")
	assert.ErrorIs(t, err, database.ErrUnsupportedConnectionString)

	_, err = NewServiceFromConfig[SystemConfig, int64](&database.Config{Connection: database.ConnectionConfig{Type: "db2"}})
	assert.Error(t, err)
}
