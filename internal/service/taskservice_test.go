package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/service"
	"taskflow/internal/store"
	"taskflow/internal/task"
)

var fixedNow = time.Date(2025, 3, 4, 10, 11, 12, 500, time.Local)

func newService(t *testing.T) (*service.TaskService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tarefas.json")
	svc, res, err := service.Open(path, nil, service.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	require.Equal(t, store.LoadedEmpty, res)
	return svc, path
}

func reload(t *testing.T, path string) []task.Task {
	t.Helper()
	st := store.New(path)
	_, err := st.Load()
	require.NoError(t, err)
	return st.Tasks()
}

func TestCreate_ThenFindCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, path := newService(t)

	created, err := svc.Create(ctx, "Buy milk", "desc", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.True(t, created.CreatedAt.Equal(fixedNow.Truncate(time.Second)))

	found, ok := svc.Find(ctx, "buy milk")
	require.True(t, ok)
	assert.True(t, created.Equal(found))

	persisted := reload(t, path)
	require.Len(t, persisted, 1)
	assert.True(t, created.Equal(persisted[0]))
}

func TestCreate_DuplicateTitleAnyCase(t *testing.T) {
	ctx := context.Background()
	svc, path := newService(t)

	original, err := svc.Create(ctx, "Buy milk", "first", "2025-01-01")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "BUY MILK", "second", "2025-02-02")
	require.ErrorIs(t, err, service.ErrDuplicateTitle)
	assert.EqualError(t, err, "task already exists: BUY MILK")

	tasks, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, original.Equal(tasks[0]))
	assert.Len(t, reload(t, path), 1)
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), "   ", "", "")
	assert.ErrorIs(t, err, service.ErrEmptyTitle)
}

func TestCreate_TrimsTitle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	created, err := svc.Create(ctx, "  Buy milk ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, path := newService(t)
	_, err := svc.Create(ctx, "Buy milk", "desc", "2025-01-01")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, "Buy milk", "DONE"))
	got, ok := svc.Find(ctx, "Buy milk")
	require.True(t, ok)
	assert.Equal(t, task.StatusDone, got.Status)
	assert.Equal(t, task.StatusDone, reload(t, path)[0].Status)

	err = svc.UpdateStatus(ctx, "Buy milk", "archived")
	require.ErrorIs(t, err, service.ErrInvalidStatus)
	got, _ = svc.Find(ctx, "Buy milk")
	assert.Equal(t, task.StatusDone, got.Status)
	assert.Equal(t, task.StatusDone, reload(t, path)[0].Status)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _ := newService(t)
	err := svc.UpdateStatus(context.Background(), "nothing", "done")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateStatus_InvalidStatusCheckedFirst(t *testing.T) {
	svc, _ := newService(t)
	err := svc.UpdateStatus(context.Background(), "nothing", "archived")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestUpdateStatus_RejectsLegacyAndPaddedNames(t *testing.T) {
	ctx := context.Background()
	svc, path := newService(t)
	_, err := svc.Create(ctx, "Buy milk", "", "")
	require.NoError(t, err)

	for _, in := range []string{"concluida", "em_andamento", "pendente", " done ", "done\n"} {
		err := svc.UpdateStatus(ctx, "Buy milk", in)
		assert.ErrorIs(t, err, service.ErrInvalidStatus, "%q", in)
	}
	got, _ := svc.Find(ctx, "Buy milk")
	assert.Equal(t, task.StatusPending, got.Status)
	assert.Equal(t, task.StatusPending, reload(t, path)[0].Status)

	_, err = svc.List(ctx, "concluida")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, path := newService(t)
	for _, title := range []string{"a", "Buy milk", "c"} {
		_, err := svc.Create(ctx, title, "", "")
		require.NoError(t, err)
	}

	require.NoError(t, svc.Remove(ctx, "buy MILK"))
	_, ok := svc.Find(ctx, "Buy milk")
	assert.False(t, ok)

	persisted := reload(t, path)
	require.Len(t, persisted, 2)
	assert.Equal(t, "a", persisted[0].Title)
	assert.Equal(t, "c", persisted[1].Title)

	assert.ErrorIs(t, svc.Remove(ctx, "Buy milk"), service.ErrNotFound)
}

func TestList_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for _, title := range []string{"one", "two", "three", "four"} {
		_, err := svc.Create(ctx, title, "", "")
		require.NoError(t, err)
	}
	require.NoError(t, svc.UpdateStatus(ctx, "two", "done"))
	require.NoError(t, svc.UpdateStatus(ctx, "four", "done"))
	require.NoError(t, svc.UpdateStatus(ctx, "three", "in_progress"))

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four"}, titles(all))

	done, err := svc.List(ctx, task.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "four"}, titles(done))

	pending, err := svc.List(ctx, "PENDING")
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, titles(pending))

	_, err = svc.List(ctx, "archived")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	assert.Equal(t, map[task.Status]int{
		task.StatusPending:    1,
		task.StatusInProgress: 1,
		task.StatusDone:       2,
	}, svc.Stats(ctx))
}

func TestList_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.Create(ctx, "a", "", "")
	require.NoError(t, err)

	tasks, err := svc.List(ctx, "")
	require.NoError(t, err)
	tasks[0].Title = "mutated"

	_, ok := svc.Find(ctx, "a")
	assert.True(t, ok)
}

func TestMutations_RollBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	svc, path := newService(t)
	_, err := svc.Create(ctx, "a", "", "")
	require.NoError(t, err)

	// Replace the task file with a non-empty directory so the rename fails.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), nil, 0o644))

	_, err = svc.Create(ctx, "b", "", "")
	require.Error(t, err)
	_, ok := svc.Find(ctx, "b")
	assert.False(t, ok)

	require.Error(t, svc.UpdateStatus(ctx, "a", "done"))
	got, _ := svc.Find(ctx, "a")
	assert.Equal(t, task.StatusPending, got.Status)

	require.Error(t, svc.Remove(ctx, "a"))
	_, ok = svc.Find(ctx, "a")
	assert.True(t, ok)
}

func TestMutations_CancelledContext(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Create(ctx, "a", "", "")
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := svc.Find(context.Background(), "a")
	assert.False(t, ok)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tarefas.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, _, err := service.Open(path, nil)
	assert.ErrorIs(t, err, store.ErrCorrupt)
}

func TestOpen_ReportsDroppedDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tarefas.json")
	content := `[
  {"titulo": "Buy milk", "descricao": "", "data_criacao": "2025-01-01 00:00:00", "data_limite": "", "status": "pending"},
  {"titulo": "buy MILK", "descricao": "", "data_criacao": "2025-01-01 00:00:00", "data_limite": "", "status": "done"}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	svc, _, err := service.Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Dropped())

	tasks, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk"}, titles(tasks))
}

func titles(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}
