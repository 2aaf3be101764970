package multegula

import (
	"math"

	"github.com/vovakirdan/multegula/internal/config"
	"github.com/vovakirdan/multegula/internal/core"
)

// Block is a breakable rectangle. It is disabled exactly once.
type Block struct {
	Left, Right float64
	Top, Bottom float64
	Enabled     bool
	Points      int
	Color       core.Color
}

// Edges returns (left, right, top, bottom).
func (b Block) Edges() (float64, float64, float64, float64) {
	return b.Left, b.Right, b.Top, b.Bottom
}

// Box returns the block rectangle.
func (b Block) Box() core.Box {
	return core.Box{Left: b.Left, Right: b.Right, Top: b.Top, Bottom: b.Bottom}
}

// Level is an ordered block list. The index of a block is its identity in
// break events, so the order never changes once laid out.
type Level struct {
	ID     string
	Name   string
	Blocks []Block
}

// Remaining returns the number of enabled blocks.
func (l *Level) Remaining() int {
	n := 0
	for _, b := range l.Blocks {
		if b.Enabled {
			n++
		}
	}
	return n
}

// Disable turns off block i. It reports false when i is out of range or the
// block was already disabled.
func (l *Level) Disable(i int) bool {
	if i < 0 || i >= len(l.Blocks) || !l.Blocks[i].Enabled {
		return false
	}
	l.Blocks[i].Enabled = false
	return true
}

// Clone creates a deep copy of the level.
func (l *Level) Clone() *Level {
	clone := &Level{
		ID:     l.ID,
		Name:   l.Name,
		Blocks: make([]Block, len(l.Blocks)),
	}
	copy(clone.Blocks, l.Blocks)
	return clone
}

// Layout describes where a level map is placed in the arena.
type Layout struct {
	ArenaW, ArenaH float64
	BlockWidth     int // cells per map column
	BasePoints     int // points for a '#' block
}

// ParseLevel lays an ASCII map out in the centre of the arena.
// Characters:
//
//	'#' = block worth BasePoints
//	'1'-'9' = block worth 10 * digit
//	anything else = empty
//
// Blocks are one cell tall and ordered row by row, left to right.
func ParseLevel(m config.LevelMap, lay Layout) *Level {
	level := &Level{ID: m.ID, Name: m.Name}
	if len(m.Rows) == 0 {
		return level
	}

	cols := 0
	for _, row := range m.Rows {
		cols = max(cols, len(row))
	}

	bw := float64(max(lay.BlockWidth, 1))
	left := math.Floor((lay.ArenaW - float64(cols)*bw) / 2)
	top := math.Floor((lay.ArenaH - float64(len(m.Rows))) / 2)

	for r, row := range m.Rows {
		color := BallColors[r%len(BallColors)]
		for c := 0; c < len(row); c++ {
			ch := row[c]
			var points int
			switch {
			case ch == '#':
				points = lay.BasePoints
			case ch >= '1' && ch <= '9':
				points = int(ch-'0') * 10
			default:
				continue
			}
			x := left + float64(c)*bw
			y := top + float64(r)
			level.Blocks = append(level.Blocks, Block{
				Left:    x,
				Right:   x + bw,
				Top:     y,
				Bottom:  y + 1,
				Enabled: true,
				Points:  points,
				Color:   color,
			})
		}
	}
	return level
}

// BuiltinMaps returns the level maps shipped with the game.
// Maps are small because the blocks sit between four paddles.
func BuiltinMaps() []config.LevelMap {
	return []config.LevelMap{
		{ID: "core", Name: "Core", Rows: []string{
			"##########",
			"##########",
			"###5555###",
			"##########",
			"##########",
		}},
		{ID: "cross", Name: "Cross", Rows: []string{
			"....##....",
			"....##....",
			"##########",
			"....##....",
			"....##....",
		}},
		{ID: "ring", Name: "Ring", Rows: []string{
			"..######..",
			".#......#.",
			"#...99...#",
			".#......#.",
			"..######..",
		}},
		{ID: "diamond", Name: "Diamond", Rows: []string{
			"....##....",
			"..######..",
			"###3333###",
			"..######..",
			"....##....",
		}},
		{ID: "checker", Name: "Checkerboard", Rows: []string{
			"#.#.#.#.#.#.",
			".#.#.#.#.#.#",
			"#.#.#.#.#.#.",
			".#.#.#.#.#.#",
			"#.#.#.#.#.#.",
			".#.#.#.#.#.#",
		}},
		{ID: "fortress", Name: "Fortress", Rows: []string{
			"2222222222",
			"2........2",
			"2.######.2",
			"2.##88##.2",
			"2.######.2",
			"2........2",
			"2222222222",
		}},
	}
}
