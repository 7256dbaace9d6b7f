package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"Backend-Plotter/internal/app/ds"
	"Backend-Plotter/internal/app/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
)

func testSession(id string) *ds.Session {
	table := ds.NewTable([]string{"A", "B"})
	table.Rows = []ds.Row{
		{Time: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Values: []ds.Value{ds.Some(1.5), ds.Missing()}},
		{Time: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), Values: []ds.Value{ds.Some(2.5), ds.Some(-3)}},
	}
	return &ds.Session{
		ID:       id,
		Filename: "data.csv",
		Format:   "csv",
		Table:    table,
		Params:   ds.DefaultParams(table),
		MinDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func assertSessionEqual(t *testing.T, got, want *ds.Session) {
	t.Helper()
	if got.ID != want.ID || got.Filename != want.Filename {
		t.Fatalf("Unexpected session %+v", got)
	}
	if got.Table.Len() != want.Table.Len() {
		t.Fatalf("Expected %d rows, got %d", want.Table.Len(), got.Table.Len())
	}
	for i := range want.Table.Rows {
		if !got.Table.Rows[i].Time.Equal(want.Table.Rows[i].Time) {
			t.Errorf("Row %d: expected time %v, got %v", i, want.Table.Rows[i].Time, got.Table.Rows[i].Time)
		}
		for j, v := range want.Table.Rows[i].Values {
			if got.Table.Rows[i].Values[j] != v {
				t.Errorf("Row %d col %d: expected %v, got %v", i, j, v, got.Table.Rows[i].Values[j])
			}
		}
	}
	if got.Params.WindowSize != want.Params.WindowSize || !got.Params.StartDate.Equal(want.Params.StartDate) {
		t.Errorf("Unexpected params %+v", got.Params)
	}
}

func TestSessionStores(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClientFrom(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { client.Close() })

	stores := map[string]SessionStore{
		"memory": NewMemorySessionStore(time.Hour),
		"redis":  NewRedisSessionStore(client, time.Hour),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("Expected ErrSessionNotFound, got %v", err)
			}

			s := testSession("s1")
			if err := store.Save(ctx, s); err != nil {
				t.Fatalf("Failed to save session: %v", err)
			}

			loaded, err := store.Load(ctx, "s1")
			if err != nil {
				t.Fatalf("Failed to load session: %v", err)
			}
			assertSessionEqual(t, loaded, s)

			// Загруженная копия не связана с сохраненной
			loaded.Table.Rows[0].Values[0] = ds.Some(100)
			again, _ := store.Load(ctx, "s1")
			if again.Table.Rows[0].Values[0].Float != 1.5 {
				t.Error("Stored session was modified through a loaded copy")
			}

			if err := store.Touch(ctx, "s1"); err != nil {
				t.Errorf("Failed to touch session: %v", err)
			}
			if err := store.Touch(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Expected ErrSessionNotFound on touch, got %v", err)
			}

			if err := store.Delete(ctx, "s1"); err != nil {
				t.Fatalf("Failed to delete session: %v", err)
			}
			if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
			}
		})
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	if err := store.Save(ctx, testSession("a")); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("Expected 1 session, got %d", store.Len())
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Load(ctx, "a"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected expired session, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected expired session to be swept, got %d", store.Len())
	}
}

func TestMemorySessionStoreTouchExtendsExpiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	if err := store.Save(ctx, testSession("a")); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	now = now.Add(50 * time.Second)
	if err := store.Touch(ctx, "a"); err != nil {
		t.Fatalf("Failed to touch session: %v", err)
	}

	now = now.Add(50 * time.Second)
	if _, err := store.Load(ctx, "a"); err != nil {
		t.Errorf("Expected touched session to be alive, got %v", err)
	}

	now = now.Add(2 * time.Minute)
	if err := store.Touch(ctx, "a"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected expired session on touch, got %v", err)
	}
}
