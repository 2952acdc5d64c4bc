package brawl

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
)

// Visual characters for rendering
const (
	BodyChar       = '█'
	HurtChar       = '▒'
	HitboxChar     = '░'
	ProjectileChar = '●'
	GroundChar     = '▀'
	DirtChar       = '▓'
	PlatformChar   = '▔'
	StockChar      = '●'
)

var kindColors = [kindCount]core.Color{
	Mage:  core.ColorMagenta,
	Ninja: core.ColorCyan,
	Tank:  core.ColorOrange,
}

var kindGlyphs = [kindCount]rune{
	Mage:  'M',
	Ninja: 'N',
	Tank:  'T',
}

// hudRows is how many rows at the bottom belong to the percent/stock HUD.
const hudRows = 2

// viewport maps world coordinates onto screen cells.
type viewport struct {
	left, top float64
	scaleX    float64 // Cells per world unit
	scaleY    float64
	offsetX   int // Screen shake
	rows      int // Rows available to the arena
}

func (v *View) viewport(dst *core.Screen) viewport {
	f := v.frame
	rows := max(dst.Height()-hudRows-1, 1)
	vp := viewport{
		left:   f.Left,
		top:    f.Top,
		scaleX: float64(dst.Width()) / (f.Right - f.Left),
		scaleY: float64(rows) / (f.Bottom - f.Top),
		rows:   rows,
	}
	if v.flash > 0 {
		vp.offsetX = []int{1, -1}[v.flash%2]
	}
	return vp
}

func (vp viewport) x(wx float64) int {
	return int(math.Floor((wx-vp.left)*vp.scaleX)) + vp.offsetX
}

// y maps into rows 1..rows; row 0 is the title bar.
func (vp viewport) y(wy float64) int {
	return int(math.Floor((wy-vp.top)*vp.scaleY)) + 1
}

// rect maps a world box to the cells it covers, at least one cell.
func (vp viewport) rect(b core.Box) core.Rect {
	x0, y0 := vp.x(b.Min.X), vp.y(b.Min.Y)
	x1 := int(math.Ceil((b.Max.X-vp.left)*vp.scaleX)) + vp.offsetX
	y1 := int(math.Ceil((b.Max.Y-vp.top)*vp.scaleY)) + 1
	return core.NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

// View draws match snapshots into a screen buffer. Besides its labels it
// only remembers the hit flash, so any holder of snapshots can own one.
type View struct {
	Title    string
	Labels   [2]string // Tags over each fighter, e.g. "P1" and "CPU"
	Footer   string    // Hint in the match-over box
	TickRate int

	stage Stage
	frame config.ViewConfig
	flash int
}

// NewView creates a view of stage framed by the configured world window.
func NewView(title string, labels [2]string, stage Stage, frame config.ViewConfig, tickRate int) *View {
	return &View{
		Title:    title,
		Labels:   labels,
		Footer:   "R rematch  |  B characters  |  Q quit",
		TickRate: tickRate,
		stage:    stage,
		frame:    frame,
	}
}

// Observe ages the flash and restarts it when snap carries a hit.
func (v *View) Observe(snap Snapshot) {
	if v.flash > 0 {
		v.flash--
	}
	if snap.HitsOn(0)+snap.HitsOn(1) > 0 {
		v.flash = flashFrames
	}
}

// WinnerName labels the winner of snap, or "Draw".
func (v *View) WinnerName(snap Snapshot) string {
	r := snap.Result
	if !r.Over || r.Winner == NoWinner {
		return "Draw"
	}
	return fmt.Sprintf("%s (%s)", snap.Fighters[r.Winner].Name, v.Labels[r.Winner])
}

// Draw renders the arena, both fighters, live hitboxes and the HUD.
func (v *View) Draw(dst *core.Screen, snap Snapshot, paused bool) {
	dst.Clear()
	vp := v.viewport(dst)

	v.drawStage(dst, vp)

	for _, p := range snap.Projectiles {
		dst.SetWithColor(vp.x(p.Pos.X), vp.y(p.Pos.Y), ProjectileChar, core.ColorBrightCyan)
	}
	for _, f := range snap.Fighters {
		v.drawFighter(dst, vp, f)
	}
	for _, hb := range snap.Hitboxes {
		drawHitbox(dst, vp, hb)
	}

	v.drawTitle(dst, snap.Tick)
	v.drawHUD(dst, snap)

	if paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if snap.Result.Over {
		title := "DRAW!"
		if snap.Result.Winner != NoWinner {
			title = strings.ToUpper(v.WinnerName(snap)) + " WINS!"
		}
		drawCenteredMessage(dst, title, v.Footer)
	}
}

func (v *View) drawStage(dst *core.Screen, vp viewport) {
	st := v.stage

	gy := vp.y(st.GroundY)
	x0, x1 := vp.x(st.FloorLeft), vp.x(st.FloorRight)
	dst.DrawHLine(x0, gy, x1-x0, GroundChar, core.ColorGreen)
	if gy+1 <= vp.rows {
		dst.DrawRect(core.NewRect(x0, gy+1, x1-x0, vp.rows-gy), DirtChar, core.ColorGray)
	}

	for _, p := range st.Platforms {
		px := vp.x(p.X)
		dst.DrawHLine(px, vp.y(p.Y), max(vp.x(p.X+p.W)-px, 1), PlatformChar, core.ColorWhite)
	}
}

func (v *View) drawFighter(dst *core.Screen, vp viewport, f FighterView) {
	if f.Action == Dead {
		return
	}

	r := vp.rect(f.Box)
	color := kindColors[f.Kind]
	fill := BodyChar
	if f.Action == Hitstun {
		fill = HurtChar
		if v.flash > 0 {
			color = core.ColorBrightWhite
		}
	}
	dst.DrawRect(r, fill, color)

	// Face: the glyph on the leading side of the top row
	faceX := r.Right() - 1
	if f.Facing == FacingLeft {
		faceX = r.X
	}
	dst.SetWithColor(faceX, r.Y, kindGlyphs[f.Kind], core.ColorBrightWhite)

	tag := v.Labels[f.Slot]
	dst.DrawTextColor(r.X+(r.W-len(tag))/2, r.Y-1, tag, color)
}

func drawHitbox(dst *core.Screen, vp viewport, hb Hitbox) {
	r := vp.rect(hb.Box)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if dst.Get(x, y) == ' ' {
				dst.SetWithColor(x, y, HitboxChar, core.ColorYellow)
			}
		}
	}
}

func (v *View) drawTitle(dst *core.Screen, tick int) {
	dst.DrawTextColor(1, 0, v.Title, core.ColorBrightYellow)

	secs := tick / max(v.TickRate, 1)
	clock := fmt.Sprintf("%d:%02d", secs/60, secs%60)
	dst.DrawTextColor(dst.Width()-len(clock)-1, 0, clock, core.ColorGray)
}

// drawHUD writes "P1 Mage 34% ●●●" for both fighters on the bottom rows.
func (v *View) drawHUD(dst *core.Screen, snap Snapshot) {
	y := dst.Height() - hudRows
	for i, f := range snap.Fighters {
		label := fmt.Sprintf("%s %s %3.0f%% ", v.Labels[i], f.Name, f.Percent)
		stocks := strings.Repeat(string(StockChar), f.Stocks)
		cd := cooldownBar(f.Cooldowns)

		x := 1
		if i == 1 {
			x = dst.Width() - len([]rune(label+stocks)) - 1
		}
		dst.DrawTextColor(x, y, label, kindColors[f.Kind])
		dst.DrawTextColor(x+len([]rune(label)), y, stocks, core.ColorBrightRed)
		dst.DrawTextColor(x, y+1, cd, core.ColorGray)
	}
}

// cooldownBar shows which moves are ready: "L H S" with cooling moves dimmed to dots.
func cooldownBar(cd [moveCount]int) string {
	marks := []string{"L", "H", "S"}
	for m, left := range cd {
		if left > 0 {
			marks[m] = "·"
		}
	}
	return strings.Join(marks, " ")
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w, h := dst.Width(), dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)
	dst.DrawTextColor(box.X+(boxW-len([]rune(title)))/2, box.Y+1, title, core.ColorBrightYellow)
	dst.DrawText(box.X+(boxW-len([]rune(subtitle)))/2, box.Y+3, subtitle)
}
