package tui

import (
	"fmt"

	"github.com/vovakirdan/mergerun-td/internal/core"
	"github.com/vovakirdan/mergerun-td/internal/engine"
)

// Board cell size on the field canvas.
const (
	cellW = 8
	cellH = 3
)

var enemyGlyphs = map[string]rune{
	engine.EnemyNormal: 'o',
	engine.EnemyFast:   '>',
	engine.EnemyTank:   'T',
	engine.EnemyBoss:   'B',
}

func enemyGlyph(enemyType string) rune {
	if g, ok := enemyGlyphs[enemyType]; ok {
		return g
	}
	return '?'
}

// drawField draws the lane strip and the board grid onto a new screen.
func drawField(st engine.RunState, cursor, selected int) *core.Screen {
	laneW := st.Lane.Length*2 + 5
	grid := core.Grid{
		Origin: core.Point{X: 0, Y: 3},
		Rows:   st.Board.Rows,
		Cols:   st.Board.Cols,
		CellW:  cellW,
		CellH:  cellH,
	}
	bounds := grid.Bounds()
	scr := core.NewScreen(max(laneW, bounds.W), bounds.Bottom())

	drawLane(scr, st.Lane, laneW)
	for idx := range st.Board.Len() {
		drawCell(scr, grid.Cell(idx), st.Board.At(idx), idx == cursor, idx == selected)
	}
	return scr
}

// drawLane draws spawn on the left, the base on the right and the
// strongest enemy on each tile, with a count when several share it.
func drawLane(scr *core.Screen, lane engine.LaneState, width int) {
	scr.DrawBox(core.Rect{X: 0, Y: 0, W: width, H: 3}, core.ColorDim)
	scr.SetColored(1, 1, 'S', core.ColorDim)

	type tileView struct {
		enemy engine.EnemyInstance
		count int
	}
	tiles := make([]tileView, lane.Length)
	for _, e := range lane.Enemies {
		if e.Tile < 0 || e.Tile >= lane.Length {
			continue
		}
		tv := &tiles[e.Tile]
		if tv.count == 0 || e.HP > tv.enemy.HP {
			tv.enemy = e
		}
		tv.count++
	}

	for t, tv := range tiles {
		x := 2 + t*2
		if tv.count == 0 {
			scr.SetColored(x, 1, '·', core.ColorDim)
			continue
		}
		scr.SetColored(x, 1, enemyGlyph(tv.enemy.Type), core.EnemyColor(tv.enemy.Type))
		if tv.count > 1 {
			n := '+'
			if tv.count < 10 {
				n = rune('0' + tv.count)
			}
			scr.SetColored(x+1, 1, n, core.ColorDim)
		}
	}
	scr.SetColored(width-2, 1, 'H', core.ColorBase)
}

func drawCell(scr *core.Screen, r core.Rect, u *engine.UnitInstance, isCursor, isSelected bool) {
	border := core.ColorDim
	switch {
	case isSelected:
		border = core.ColorSelected
	case isCursor:
		border = core.ColorAccent
	}
	scr.DrawBox(r, border)

	inner := r.W - 2
	if u == nil {
		scr.SetColored(r.X+r.W/2, r.Y+1, '·', core.ColorDim)
		return
	}
	name := u.UnitDefID
	if name == "" {
		name = string(u.Role)
	}
	label := fmt.Sprintf("%.*s", inner-1, name)
	scr.DrawTextColored(r.X+1, r.Y+1, label, core.RoleColor(string(u.Role)))
	scr.SetColored(r.Right()-2, r.Y+1, rune('0'+min(u.Level, 9)), core.ColorCoins)
}
