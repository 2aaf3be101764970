package multegula

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/multegula/internal/core"
)

// Visual characters for rendering
const (
	BallChar        = '●'
	BlockChar       = '█'
	PaddleCharHoriz = '▀'
	PaddleCharVert  = '█'
	WallCharHoriz   = '─'
	WallCharVert    = '│'
)

// seatColors gives every edge its own paddle color.
var seatColors = [4]core.Color{
	North: core.ColorOrange,
	South: core.ColorCyan,
	East:  core.ColorPurple,
	West:  core.ColorYellow,
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", minScreenW, minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	g.renderHUD(dst)
	g.renderBlocks(dst)
	g.renderPaddles(dst)
	g.renderBall(dst)
	g.renderOverlay(dst)
}

// arenaBox shifts an arena rectangle below the HUD.
func arenaBox(b core.Box) core.Box {
	b.Top += hudRows
	b.Bottom += hudRows
	return b
}

// renderHUD draws name, score, lives and power-up for every non-wall edge.
func (g *Game) renderHUD(dst *core.Screen) {
	parts := make([]string, 0, len(Orientations))
	for _, o := range Orientations {
		p := g.players[o]
		if g.lineup[o].State == Wall {
			continue
		}
		marker := ""
		if g.hasLocal && o == g.local {
			marker = "*"
		}
		status := fmt.Sprintf("%s%c %s %d ♥%d", marker, o.String()[0], p.Name(), p.Score(), p.Lives())
		if p.State() == Wall {
			status = fmt.Sprintf("%s%c %s %d out", marker, o.String()[0], p.Name(), p.Score())
		}
		if p.Power() != PowerNone {
			status += " " + string(p.Power().Glyph())
		}
		parts = append(parts, status)
	}
	dst.DrawText(1, 0, strings.Join(parts, "  "))

	levelText := fmt.Sprintf("L%d", g.levelIndex+1+g.round*len(g.maps))
	dst.DrawText(dst.Width()-len(levelText)-1, 0, levelText)
}

func (g *Game) renderBlocks(dst *core.Screen) {
	for _, b := range g.level.Blocks {
		if !b.Enabled {
			continue
		}
		dst.FillBox(arenaBox(b.Box()), BlockChar, b.Color)
	}
}

func (g *Game) renderPaddles(dst *core.Screen) {
	for _, o := range Orientations {
		p := g.players[o]
		box := arenaBox(p.Paddle().Box())
		if p.State() == Wall {
			glyph := WallCharHoriz
			if !o.Horizontal() {
				glyph = WallCharVert
			}
			dst.FillBox(box, glyph, core.ColorGray)
			continue
		}
		glyph := PaddleCharHoriz
		if !o.Horizontal() {
			glyph = PaddleCharVert
		}
		color := seatColors[o]
		if g.hasLocal && o == g.local {
			color = core.ColorBrightWhite
		}
		dst.FillBox(box, glyph, color)
	}
}

func (g *Game) renderBall(dst *core.Screen) {
	x, y := g.ball.Center()
	cx, cy := int(x), int(y)+hudRows
	if x < 0 || y < 0 {
		return
	}
	dst.SetColored(cx, cy, BallChar, g.ball.Color())
}

// renderOverlay draws level banners and game state messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.state {
	case StatePaused:
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")
		return
	case StateGameOver:
		title := "GAME OVER"
		if g.winner != core.PlayerNone {
			title = fmt.Sprintf("%s WINS", strings.ToUpper(g.SeatName(g.winner)))
		}
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", g.State().Score)
		if g.mode == ModeOnline || g.mode == ModePeer {
			subtitle = fmt.Sprintf("Score: %d", g.State().Score)
		}
		g.drawCenteredBox(dst, title, subtitle)
		return
	}

	if g.tickCount < g.bannerUntil {
		banner := fmt.Sprintf(" Level %d: %s ", g.levelIndex+1, g.level.Name)
		dst.DrawTextCentered(int(g.arenaH)/2-4+hudRows, banner)
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.FillBox(core.Box{
		Left:   float64(boxX),
		Right:  float64(boxX + boxW),
		Top:    float64(boxY),
		Bottom: float64(boxY + boxH),
	}, ' ', core.ColorDefault)
	dst.DrawFrame(boxX, boxY, boxW, boxH, core.ColorWhite)

	titleX := boxX + (boxW-len([]rune(title)))/2
	dst.DrawTextColored(titleX, boxY+1, title, core.ColorBrightWhite)

	subtitleX := boxX + (boxW-len([]rune(subtitle)))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
