package multegula

import (
	"testing"

	"github.com/vovakirdan/multegula/internal/config"
	"github.com/vovakirdan/multegula/internal/core"
)

func TestParseLevel(t *testing.T) {
	m := config.LevelMap{ID: "t", Name: "Test", Rows: []string{
		"#1",
		".9",
	}}
	level := ParseLevel(m, Layout{ArenaW: 80, ArenaH: 23, BlockWidth: 3, BasePoints: 10})

	expected := []Block{
		{Left: 37, Right: 40, Top: 10, Bottom: 11, Enabled: true, Points: 10, Color: core.ColorRed},
		{Left: 40, Right: 43, Top: 10, Bottom: 11, Enabled: true, Points: 10, Color: core.ColorRed},
		{Left: 40, Right: 43, Top: 11, Bottom: 12, Enabled: true, Points: 90, Color: core.ColorGreen},
	}
	if len(level.Blocks) != len(expected) {
		t.Fatalf("got %d blocks, expected %d", len(level.Blocks), len(expected))
	}
	for i, want := range expected {
		if level.Blocks[i] != want {
			t.Errorf("block %d = %+v, expected %+v", i, level.Blocks[i], want)
		}
	}
	if level.ID != "t" || level.Name != "Test" {
		t.Errorf("level id/name = %q/%q", level.ID, level.Name)
	}
}

func TestParseLevelEmpty(t *testing.T) {
	level := ParseLevel(config.LevelMap{ID: "empty"}, Layout{ArenaW: 80, ArenaH: 23, BlockWidth: 3})
	if len(level.Blocks) != 0 || level.Remaining() != 0 {
		t.Errorf("empty map produced %d blocks", len(level.Blocks))
	}
}

func TestBuiltinMapsFitBetweenPaddles(t *testing.T) {
	lay := Layout{ArenaW: minScreenW, ArenaH: minScreenH - hudRows, BlockWidth: 3, BasePoints: 10}

	for _, m := range BuiltinMaps() {
		t.Run(m.ID, func(t *testing.T) {
			level := ParseLevel(m, lay)
			if level.Remaining() == 0 {
				t.Fatal("map has no blocks")
			}
			for i, b := range level.Blocks {
				if b.Left < 2 || b.Right > lay.ArenaW-2 || b.Top < 2 || b.Bottom > lay.ArenaH-2 {
					t.Errorf("block %d %+v overlaps a paddle band", i, b.Box())
				}
			}
		})
	}
}

func TestLevelCloneIsDeep(t *testing.T) {
	level := ParseLevel(BuiltinMaps()[0], Layout{ArenaW: 80, ArenaH: 23, BlockWidth: 3, BasePoints: 10})
	clone := level.Clone()

	clone.Disable(0)
	if !level.Blocks[0].Enabled {
		t.Error("disabling a block in the clone changed the original")
	}
	if clone.Remaining() != level.Remaining()-1 {
		t.Errorf("clone remaining = %d, original = %d", clone.Remaining(), level.Remaining())
	}
}

func TestLevelDisable(t *testing.T) {
	level := &Level{Blocks: []Block{{Enabled: true}, {Enabled: true}}}

	tests := []struct {
		index int
		want  bool
	}{
		{-1, false},
		{0, true},
		{0, false},
		{2, false},
		{1, true},
	}
	for _, tc := range tests {
		if got := level.Disable(tc.index); got != tc.want {
			t.Errorf("Disable(%d) = %v, expected %v", tc.index, got, tc.want)
		}
	}
	if level.Remaining() != 0 {
		t.Errorf("Remaining() = %d, expected 0", level.Remaining())
	}
}
