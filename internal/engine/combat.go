package engine

import "math"

type roleStats struct {
	damage     int
	cooldownMs int64
}

// attackStats holds the fixed per-role attack values. Roles not listed
// never fire.
var attackStats = map[Role]roleStats{
	RoleShooter: {damage: 3, cooldownMs: 500},
	RoleSplash:  {damage: 2, cooldownMs: 700},
	RoleSlow:    {damage: 1, cooldownMs: 600},
}

// Milliseconds per tile by enemy type. Movement reads only this table;
// EnemyDef.Speed is informational.
var enemySpeedMs = map[string]int64{
	EnemyNormal: 800,
	EnemyFast:   500,
	EnemyTank:   1200,
	EnemyBoss:   900,
}

const defaultEnemySpeedMs = 800

func speedFor(enemyType string) int64 {
	if ms, ok := enemySpeedMs[enemyType]; ok {
		return ms
	}
	return defaultEnemySpeedMs
}

// combatRole resolves the role a unit attacks with. Tags that are not a
// combat role are looked up in the unit table, first by the unit's
// definition id, then by the tag itself.
func (e *Engine) combatRole(u *UnitInstance) Role {
	if _, ok := attackStats[u.Role]; ok || u.Role == RoleWall {
		return u.Role
	}
	if def, ok := e.tables.Unit(u.UnitDefID); ok {
		return def.Role
	}
	if def, ok := e.tables.Unit(string(u.Role)); ok {
		return def.Role
	}
	return u.Role
}

// resolveCombat runs spawn activation, movement and attacks for one tick.
func (e *Engine) resolveCombat(s *RunState, deltaMs int64, events *[]Event) {
	lane := &s.Lane
	lane.CombatElapsedMs += deltaMs

	due := 0
	for due < len(lane.Pending) && lane.Pending[due].DueMs <= lane.CombatElapsedMs {
		spawn := lane.Pending[due]
		hp := 1
		if def, ok := e.tables.Enemy(spawn.Type); ok && def.HP > 0 {
			hp = def.HP
		}
		lane.Enemies = append(lane.Enemies, EnemyInstance{Type: spawn.Type, HP: hp})
		*events = append(*events, Event{Kind: EventEnemySpawned, EnemyType: spawn.Type})
		due++
	}
	lane.Pending = lane.Pending[due:]

	damage := 0
	kept := lane.Enemies[:0]
	for _, enemy := range lane.Enemies {
		enemy.ProgressMs += deltaMs
		speed := speedFor(enemy.Type)
		advance := int(enemy.ProgressMs / speed)
		enemy.ProgressMs %= speed
		if enemy.Tile+advance >= lane.Length {
			damage += e.baseDamage(enemy.Type)
			continue
		}
		enemy.Tile += advance
		kept = append(kept, enemy)
	}
	lane.Enemies = kept

	for _, unit := range s.Board.Cells {
		if unit == nil {
			continue
		}
		stats, fires := attackStats[e.combatRole(unit)]
		unit.CooldownMs -= deltaMs
		if !fires || unit.CooldownMs > 0 || len(lane.Enemies) == 0 {
			unit.CooldownMs = max(unit.CooldownMs, 0)
			continue
		}

		target := frontmost(lane.Enemies)
		lane.Enemies[target].HP -= max(1, int(math.Floor(float64(stats.damage)*factor(s.AtkMul))))
		if lane.Enemies[target].HP <= 0 {
			killed := lane.Enemies[target]
			lane.Enemies = append(lane.Enemies[:target], lane.Enemies[target+1:]...)
			reward := 0
			if def, ok := e.tables.Enemy(killed.Type); ok {
				reward = def.Reward
			}
			s.Coins += reward
			*events = append(*events, Event{Kind: EventEnemyKilled, EnemyType: killed.Type, Amount: reward})
		}
		unit.CooldownMs = max(1, int64(math.Floor(float64(stats.cooldownMs)/factor(s.AspdMul))))
	}

	if damage > 0 {
		s.BaseHP -= damage
		*events = append(*events, Event{Kind: EventBaseDamaged, Amount: damage})
	}
}

func (e *Engine) baseDamage(enemyType string) int {
	if def, ok := e.tables.Enemy(enemyType); ok {
		return def.BaseDamage
	}
	return 1
}
