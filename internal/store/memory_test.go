package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/game"
)

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := game.FromGrid(board.Grid{{true}})

	if _, err := st.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Save err = %v", err)
	}
	if err := st.Save(ctx, g); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, g.ID)
	if err != nil || got != g {
		t.Fatalf("Get = %p, %v; want %p", got, err, g)
	}
	if err := st.Delete(ctx, g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete err = %v", err)
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	stale := game.FromGrid(board.Grid{{true}})
	stale.LastActive = time.Now().Add(-3 * time.Hour)
	fresh := game.FromGrid(board.Grid{{true}})
	_ = st.Save(ctx, stale)
	_ = st.Save(ctx, fresh)

	n, err := st.Sweep(ctx, 2*time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("Sweep = %d, %v; want 1", n, err)
	}
	if _, err := st.Get(ctx, stale.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("stale session survived")
	}
	if _, err := st.Get(ctx, fresh.ID); err != nil {
		t.Fatal("fresh session was swept")
	}
}

func TestJanitorStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := NewMemoryStore()
	stale := game.FromGrid(board.Grid{{true}})
	stale.LastActive = time.Now().Add(-time.Hour)
	_ = st.Save(ctx, stale)

	done := make(chan struct{})
	go func() {
		Janitor(ctx, st, 5*time.Millisecond, time.Minute)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := st.Get(ctx, stale.ID); errors.Is(err, ErrNotFound) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("janitor never swept")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop on cancel")
	}
}
