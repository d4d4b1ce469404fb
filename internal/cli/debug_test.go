package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ascend-app/ascend/internal/habit"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/storage"
	"github.com/ascend-app/ascend/internal/utils"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "ascend.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &Context{Store: store}
}

func TestDebugStorePathCmd(t *testing.T) {
	ctx := newTestContext(t)

	cmd := &DebugStorePathCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("debug store-path command failed: %v", err)
	}
}

func TestDebugDumpHabitCmd(t *testing.T) {
	ctx := newTestContext(t)

	ledger, _, err := ctx.Open()
	if err != nil {
		t.Fatalf("failed to open context: %v", err)
	}
	h, err := ledger.Add(habit.Spec{
		Name:     "Read",
		Category: models.CategoryStudy,
		Frequency: models.Frequency{
			Type:        models.FrequencyDaily,
			Repetitions: 1,
		},
	}, utils.Today())
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	cmd := &DebugDumpHabitCmd{ID: h.ID}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("debug dump-habit command failed: %v", err)
	}
}

func TestDebugDumpHabitCmdNotFound(t *testing.T) {
	ctx := newTestContext(t)

	cmd := &DebugDumpHabitCmd{ID: "nonexistent-id"}
	err := cmd.Run(ctx)
	if err == nil {
		t.Fatal("debug dump-habit should fail for a non-existent habit")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected 'not found' error, got: %v", err)
	}
}

func TestDebugDumpTimerCmd(t *testing.T) {
	ctx := newTestContext(t)

	cmd := &DebugDumpTimerCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("debug dump-timer command failed: %v", err)
	}
}
