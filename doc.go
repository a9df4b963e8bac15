// Package largeview displays images far larger than the screen by decoding
// only the visible rectangle.
//
// The pieces are independent and can be used on their own:
//
//   - [RegionSource] opens an encoded image, learns its dimensions without
//     decoding pixels and decodes arbitrary rectangles on demand. Uncompressed
//     BMP files are read row by row straight from the file; other formats
//     (PNG, JPEG, GIF, TIFF, WebP) are decoded and cropped.
//   - [ViewportController] owns the visible rectangle. It centers it on the
//     image once the surface size is known and moves it opposite to pointer
//     drags, pinned to the image edges. Axes where the whole image fits are
//     frozen.
//   - [GestureTracker] turns mouse and touch samples into press, pan, fling
//     and long-press gestures and forwards them to listeners.
//   - [Renderer] keeps at most one decode in flight and drops superseded
//     results.
//   - [Viewer] ties everything into an [ebiten.Game].
//
// # Quick start
//
//	src, err := largeview.OpenFile("huge.bmp", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer src.Close()
//
//	cfg := largeview.DefaultConfig()
//	v := largeview.NewViewer(src, cfg, largeview.NewLogger(os.Stderr, slog.LevelInfo))
//	if err := largeview.Run(v, cfg.RunConfig()); err != nil {
//		log.Fatal(err)
//	}
//	_ = v.Close(context.Background())
//
// # Viewport rules
//
// The rectangle is always the surface size. Along an axis where the image is
// larger than the surface, a drag of d pixels moves the rectangle by -d and
// the result is pinned so it stays inside the image. Along an axis where the
// image fits, the rectangle never moves; by default it stays centered and
// extends past the image edges, and [ControllerOptions.ClampInitial] pins it
// to the image instead. A fling is handled as one more drag sample, with no
// inertia.
//
// # Scripts
//
// [LoadScript] parses a JSON list of steps (press, move, release, drag,
// fling, pan, home, recenter, wait, screenshot, expect) that a [Viewer] plays
// one per frame through the same gesture path as real input.
//
// [ebiten.Game]: https://pkg.go.dev/github.com/hajimehoshi/ebiten/v2#Game
package largeview
