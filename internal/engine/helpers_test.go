package engine_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/mergerun-td/internal/config"
	"github.com/vovakirdan/mergerun-td/internal/engine"
)

// quietTables returns the default tables with every wave emptied.
func quietTables() engine.Tables {
	tables := config.DefaultTables()
	stages := make([]engine.StageDef, len(tables.Stages))
	for i, s := range tables.Stages {
		s.Waves = make([]engine.WaveDef, len(s.Waves))
		stages[i] = s
	}
	tables.Stages = stages
	return tables
}

// singleWave returns tables with one stage holding one wave.
func singleWave(w engine.WaveDef) engine.Tables {
	tables := config.DefaultTables()
	tables.Stages = []engine.StageDef{{Stage: 1, HPMul: 1, SpeedMul: 1, Waves: []engine.WaveDef{w}}}
	return tables
}

func unit(id string, role engine.Role, level int) *engine.UnitInstance {
	return &engine.UnitInstance{ID: id, Role: role, UnitDefID: defFor(role), Level: level}
}

func defFor(role engine.Role) string {
	switch role {
	case engine.RoleShooter:
		return "archer"
	case engine.RoleSplash:
		return "cannon"
	case engine.RoleSlow:
		return "frost"
	case engine.RoleWall:
		return "wall"
	}
	return ""
}

func mustApply(t *testing.T, e *engine.Engine, s engine.RunState, intent engine.Intent) engine.RunState {
	t.Helper()
	next, err := e.Apply(s, intent)
	if err != nil {
		t.Fatalf("Apply(%#v) failed: %v", intent, err)
	}
	return next
}

func expectReason(t *testing.T, err error, reason string) {
	t.Helper()
	var f *engine.Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *engine.Failure, got %v", err)
	}
	if f.Reason != reason {
		t.Errorf("expected reason %q, got %q", reason, f.Reason)
	}
}

func hasEvent(events []engine.Event, kind engine.EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}
