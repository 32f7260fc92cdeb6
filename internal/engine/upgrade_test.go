package engine_test

import (
	"testing"

	"github.com/vovakirdan/mergerun-td/internal/config"
	"github.com/vovakirdan/mergerun-td/internal/engine"
)

func upgradeByID(t *testing.T, tables engine.Tables, id string) engine.UpgradeDef {
	t.Helper()
	u, ok := tables.Upgrade(id)
	if !ok {
		t.Fatalf("upgrade %q missing from tables", id)
	}
	return u
}

func TestStatUpgradeMultiplies(t *testing.T) {
	tables := config.DefaultTables()
	e := engine.New(tables)
	s := e.NewRun(0, 1)

	sharp := upgradeByID(t, tables, "sharp_arrows")
	for i := 0; i < 2; i++ {
		s.Offer = &engine.UpgradeOffer{Options: []engine.UpgradeDef{sharp}}
		s = mustApply(t, e, s, engine.SelectUpgrade{Option: 0})
	}

	if s.AtkMul < 1.439 || s.AtkMul > 1.441 {
		t.Errorf("expected atk multiplier 1.44, got %v", s.AtkMul)
	}
	if s.AspdMul != 1 {
		t.Errorf("absent aspd factor should leave 1.0, got %v", s.AspdMul)
	}
	if s.UpgradeCounts["sharp_arrows"] != 2 {
		t.Errorf("expected 2 applications, got %d", s.UpgradeCounts["sharp_arrows"])
	}
}

func TestEconomyUpgradeAddsDeltas(t *testing.T) {
	tables := config.DefaultTables()
	e := engine.New(tables)
	s := e.NewRun(0, 1)

	for _, id := range []string{"bargain_bin", "fresh_stock"} {
		s.Offer = &engine.UpgradeOffer{Options: []engine.UpgradeDef{upgradeByID(t, tables, id)}}
		s = mustApply(t, e, s, engine.SelectUpgrade{Option: 0})
	}
	if s.RerollCostDelta != -1 {
		t.Errorf("expected reroll delta -1, got %d", s.RerollCostDelta)
	}
	if s.WaveStartFreeRerollBonus != 1 {
		t.Errorf("expected free reroll bonus 1, got %d", s.WaveStartFreeRerollBonus)
	}
}

func TestTransformAppliesOnce(t *testing.T) {
	tables := config.DefaultTables()
	e := engine.New(tables)
	s := e.NewRun(0, 1)
	s.Board.Cells[0] = unit("w", engine.RoleWall, 1)
	s.Board.Cells[1] = unit("f", engine.RoleSlow, 1)

	s.Offer = &engine.UpgradeOffer{Options: []engine.UpgradeDef{upgradeByID(t, tables, "arm_the_walls")}}
	s = mustApply(t, e, s, engine.SelectUpgrade{Option: 0})

	if !s.TransformUsed {
		t.Error("transform should be marked used")
	}
	if got := s.Board.At(0).Role; got != engine.RoleShooter {
		t.Errorf("wall should become shooter, got %s", got)
	}

	s.Offer = &engine.UpgradeOffer{Options: []engine.UpgradeDef{upgradeByID(t, tables, "shatter_frost")}}
	s = mustApply(t, e, s, engine.SelectUpgrade{Option: 0})

	if s.Offer != nil {
		t.Error("rejected transform should still clear the offer")
	}
	if got := s.Board.At(1).Role; got != engine.RoleSlow {
		t.Errorf("second transform must not apply, slow became %s", got)
	}
	if s.UpgradeCounts["shatter_frost"] != 0 {
		t.Errorf("rejected transform should not be counted")
	}
}

func TestTimeoutAutoPicksConfiguredType(t *testing.T) {
	tables := config.DefaultTables()
	e := engine.New(tables)
	s := e.NewRun(0, 1)
	s.Phase = engine.PhasePostWave
	s.WaveIndex = 2
	s.TimeMs = 400
	s.Offer = &engine.UpgradeOffer{
		Wave:       2,
		Options:    []engine.UpgradeDef{upgradeByID(t, tables, "bargain_bin"), upgradeByID(t, tables, "sharp_arrows")},
		DeadlineMs: 500,
	}

	// Reaching the deadline exactly does not resolve the offer.
	res := e.Tick(s, 100)
	if res.State.Offer == nil {
		t.Fatal("offer resolved at the deadline; it should wait until it has passed")
	}
	if res.State.Phase != engine.PhasePostWave {
		t.Errorf("pending offer should hold the wave, phase=%s", res.State.Phase)
	}

	res = e.Tick(res.State, 100)
	if res.State.Offer != nil {
		t.Fatal("offer should be auto-resolved after the deadline")
	}
	if res.State.AtkMul != 1.2 {
		t.Errorf("expected STAT upgrade to be picked, atk=%v", res.State.AtkMul)
	}
	if res.State.UpgradeCounts["bargain_bin"] != 0 {
		t.Error("economy option should not be applied")
	}

	var auto bool
	for _, ev := range res.Events {
		if ev.Kind == engine.EventUpgradeApplied && ev.Auto && ev.UpgradeID == "sharp_arrows" {
			auto = true
		}
	}
	if !auto {
		t.Error("expected auto upgrade-applied event")
	}
	if res.State.Phase != engine.PhaseCombat {
		t.Errorf("next wave should start in the same tick, phase=%s", res.State.Phase)
	}
}

func TestTimeoutFallsBackToFirstOption(t *testing.T) {
	tables := config.DefaultTables()
	e := engine.New(tables)
	s := e.NewRun(0, 1)
	s.Phase = engine.PhasePostWave
	s.Offer = &engine.UpgradeOffer{
		Options:    []engine.UpgradeDef{upgradeByID(t, tables, "fresh_stock"), upgradeByID(t, tables, "bargain_bin")},
		DeadlineMs: 0,
	}

	res := e.Tick(s, 100)
	if res.State.UpgradeCounts["fresh_stock"] != 1 {
		t.Errorf("expected first option to be applied, counts=%v", res.State.UpgradeCounts)
	}
}

func TestOfferAfterConfiguredWave(t *testing.T) {
	e := engine.New(quietTables())
	s := e.NewRun(0, 7)

	// Wave 1 clears without an offer, wave 2 opens one.
	res := e.Tick(s, 100)
	if res.State.WaveIndex != 1 || res.State.Offer != nil {
		t.Fatalf("after wave 1: index=%d offer=%v", res.State.WaveIndex, res.State.Offer)
	}
	res = e.Tick(res.State, 100)
	offer := res.State.Offer
	if res.State.WaveIndex != 2 || offer == nil {
		t.Fatalf("after wave 2: index=%d offer=%v", res.State.WaveIndex, offer)
	}
	if offer.Wave != 2 {
		t.Errorf("offer wave should be 2, got %d", offer.Wave)
	}
	if len(offer.Options) != engine.OfferSize {
		t.Errorf("expected %d options, got %d", engine.OfferSize, len(offer.Options))
	}
	seen := map[string]bool{}
	for _, o := range offer.Options {
		if seen[o.ID] {
			t.Errorf("option %s drawn twice", o.ID)
		}
		seen[o.ID] = true
	}
	if offer.DeadlineMs != res.State.TimeMs+10_000 {
		t.Errorf("deadline %d, want %d", offer.DeadlineMs, res.State.TimeMs+10_000)
	}
	if !hasEvent(res.Events, engine.EventUpgradeOffered) {
		t.Error("expected upgrade-offered event")
	}
}

func TestOfferExcludesCappedAndUsedTransform(t *testing.T) {
	tables := quietTables()
	e := engine.New(tables)
	s := e.NewRun(0, 7)
	s.TransformUsed = true
	s.UpgradeCounts["sharp_arrows"] = 3
	s.UpgradeCounts["quick_hands"] = 3

	res := e.Tick(s, 100)
	res = e.Tick(res.State, 100)
	if res.State.Offer == nil {
		t.Fatal("expected an offer")
	}
	// Only the two economy upgrades remain eligible.
	if len(res.State.Offer.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(res.State.Offer.Options))
	}
	for _, o := range res.State.Offer.Options {
		if o.Type != engine.UpgradeEconomy {
			t.Errorf("ineligible option offered: %s", o.ID)
		}
	}
}

func TestOfferFallsBackToFullTable(t *testing.T) {
	tables := quietTables()
	tables.Upgrades = []engine.UpgradeDef{
		{ID: "only", Type: engine.UpgradeStat, Name: "Only", AtkMul: 1.1, MaxApplications: 1},
	}
	e := engine.New(tables)
	s := e.NewRun(0, 7)
	s.UpgradeCounts["only"] = 1

	res := e.Tick(s, 100)
	res = e.Tick(res.State, 100)
	if res.State.Offer == nil || len(res.State.Offer.Options) != 1 {
		t.Fatalf("expected fallback offer with one option, got %+v", res.State.Offer)
	}
}
