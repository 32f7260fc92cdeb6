package registry

import (
	"testing"

	"github.com/vovakirdan/mergerun-td/internal/engine"
)

type stubPilot struct{ id string }

func (p stubPilot) ID() string    { return p.id }
func (p stubPilot) Title() string { return "Stub " + p.id }
func (p stubPilot) Decide(engine.RunState, *engine.Tables) []engine.Intent {
	return nil
}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub", func() Pilot { return stubPilot{id: "zz-stub"} })

	if !Exists("zz-stub") {
		t.Fatal("registered pilot not found")
	}
	p, err := Create("zz-stub")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if p.ID() != "zz-stub" {
		t.Errorf("expected id zz-stub, got %s", p.ID())
	}

	var found bool
	for _, info := range List() {
		if info.ID == "zz-stub" && info.Title == "Stub zz-stub" {
			found = true
		}
	}
	if !found {
		t.Error("List() missing registered pilot")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-pilot"); err == nil {
		t.Error("expected error for unknown pilot")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-stub", func() Pilot { return stubPilot{id: "dup-stub"} })
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("dup-stub", func() Pilot { return stubPilot{id: "dup-stub"} })
}
