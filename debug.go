package largeview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var hudBackground = color.RGBA{0, 0, 0, 160}

// hudText formats the debug overlay.
func (v *Viewer) hudText(fps, tps float64) string {
	rect, ok := v.ctrl.CurrentRect()
	pos := "unplaced"
	if ok {
		pos = rect.String()
	}
	img := v.ctrl.Image()
	st := v.renderer.Stats()
	last := "-"
	if st.LastErr != nil {
		last = st.LastErr.Error()
	}
	return fmt.Sprintf(
		"FPS: %.1f  TPS: %.1f\nimage: %dx%d %s/%s\nview: %s\npan x:%t y:%t\ndecoded:%d superseded:%d failed:%d (%v)\nlast error: %s",
		fps, tps,
		img.Width, img.Height, v.src.Format(), v.src.PixelFormat(),
		pos,
		v.ctrl.CanPanX(), v.ctrl.CanPanY(),
		st.Decoded, st.Superseded, st.Failed, st.LastDecode,
		last,
	)
}

// drawHUD prints the debug overlay in the top-left corner.
func (v *Viewer) drawHUD(screen *ebiten.Image) {
	w := min(screen.Bounds().Dx(), 420)
	if w <= 0 {
		return
	}
	const h = 6*16 + 4
	if v.hudImg == nil || v.hudImg.Bounds().Dx() != w {
		if v.hudImg != nil {
			v.hudImg.Deallocate()
		}
		v.hudImg = ebiten.NewImage(w, h)
		v.hudImg.Fill(hudBackground)
	}
	screen.DrawImage(v.hudImg, nil)
	ebitenutil.DebugPrint(screen, v.hudText(ebiten.ActualFPS(), ebiten.ActualTPS()))
}
