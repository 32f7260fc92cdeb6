package engine

// Board, lane and stage limits.
const (
	BoardRows        = 4
	BoardCols        = 4
	MaxStageIndex    = 19
	MaxWavesPerStage = 5
	DefaultLaneTiles = 12
	DefaultGuardian  = 70
	OfferSize        = 3
	SpawnSpacingMs   = 600
)

// Shop defaults used when a table leaves a value unset.
const (
	DefaultShopSlots = 3
	DefaultRefillMs  = 2_500
)

// GuardianID is the unit definition whose base_hp seeds the base hit points.
const GuardianID = "guardian"

// Role is a unit's combat role tag.
type Role string

const (
	RoleShooter  Role = "SHOOTER"
	RoleSplash   Role = "SPLASH"
	RoleSlow     Role = "SLOW"
	RoleWall     Role = "WALL"
	RoleGuardian Role = "GUARDIAN"
)

// Enemy type ids, in wave expansion order.
const (
	EnemyNormal = "normal"
	EnemyFast   = "fast"
	EnemyTank   = "tank"
	EnemyBoss   = "boss"
)

// UpgradeType categorizes an upgrade definition.
type UpgradeType string

const (
	UpgradeStat      UpgradeType = "STAT"
	UpgradeEconomy   UpgradeType = "ECONOMY"
	UpgradeTransform UpgradeType = "TRANSFORM"
)

// WaveDef holds per-type enemy counts for one wave.
type WaveDef struct {
	Normal int
	Fast   int
	Tank   int
	Boss   int
}

// Total returns the number of enemies the wave spawns.
func (w WaveDef) Total() int {
	return w.Normal + w.Fast + w.Tank + w.Boss
}

// StageDef is an ordered list of waves plus difficulty multipliers.
// The multipliers are carried as data; the simulation does not scale by them.
type StageDef struct {
	Stage    int
	HPMul    float64
	SpeedMul float64
	CountAdd int
	Waves    []WaveDef
}

// UnitDef describes a purchasable unit (or the guardian).
type UnitDef struct {
	ID      string
	Role    Role
	BaseAtk int
	AtkSpd  float64
	Range   float64
	BaseHP  int // 0 when the definition has no hit points
}

// EnemyDef describes an enemy type.
type EnemyDef struct {
	ID         string
	HP         int
	Speed      float64
	BaseDamage int
	Reward     int
}

// UpgradeDef describes a mid-run upgrade. Zero multipliers mean "absent" (1.0).
type UpgradeDef struct {
	ID                       string
	Type                     UpgradeType
	Name                     string
	AtkMul                   float64
	AspdMul                  float64
	RerollCostDelta          int
	WaveStartFreeRerollBonus int
	MaxApplications          int  // 0 = unlimited
	TargetRole               Role // TRANSFORM only
}

// UpgradeRules controls when offers appear and how they time out.
type UpgradeRules struct {
	OfferAfterWaves    []int // 1-based cleared-wave numbers
	TimeoutSec         int
	MaxTransformPerRun int
	AutoPickType       UpgradeType
}

// ShopDef holds the shop economy constants.
type ShopDef struct {
	Slots                int
	BuyCost              int
	RerollCost           int
	SellRefund           int
	RefillMs             int64
	WaveStartFreeRerolls int
	StartingCoins        int
	SpawnWeights         map[string]float64
}

// Tables is the immutable configuration a run is simulated against.
type Tables struct {
	LaneTiles int
	Stages    []StageDef
	Units     []UnitDef
	Enemies   []EnemyDef
	Upgrades  []UpgradeDef
	Rules     UpgradeRules
	Shop      ShopDef
}

// Unit looks up a unit definition by id.
func (t *Tables) Unit(id string) (UnitDef, bool) {
	for _, u := range t.Units {
		if u.ID == id {
			return u, true
		}
	}
	return UnitDef{}, false
}

// Enemy looks up an enemy definition by id.
func (t *Tables) Enemy(id string) (EnemyDef, bool) {
	for _, e := range t.Enemies {
		if e.ID == id {
			return e, true
		}
	}
	return EnemyDef{}, false
}

// Upgrade looks up an upgrade definition by id.
func (t *Tables) Upgrade(id string) (UpgradeDef, bool) {
	for _, u := range t.Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return UpgradeDef{}, false
}

// ShopPool returns the unit definitions the shop can stock, in table order.
// Guardian-role definitions only describe the base and are never sold.
func (t *Tables) ShopPool() []UnitDef {
	pool := make([]UnitDef, 0, len(t.Units))
	for _, u := range t.Units {
		if u.Role == RoleGuardian || u.ID == GuardianID {
			continue
		}
		pool = append(pool, u)
	}
	return pool
}

// GuardianHP returns the starting base hit points.
func (t *Tables) GuardianHP() int {
	if g, ok := t.Unit(GuardianID); ok && g.BaseHP > 0 {
		return g.BaseHP
	}
	return DefaultGuardian
}
