package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	keyZoomStep = 1.25
	noPage      = -1
)

// GameOptions carries command-line choices that override the config
type GameOptions struct {
	// StartPage opens the gallery on this page at startup; noPage shows the grid
	StartPage        int
	SingleTapDismiss bool
	// ConfigPath receives the window geometry on exit; empty uses the default path
	ConfigPath string
}

// Game hosts the thumbnail grid and, while one is open, a gallery over it.
// It implements ebiten.Game, GalleryHost, InputActions, InputState and
// RenderState.
type Game struct {
	source GallerySource
	loader *ImageLoader
	config Config
	status ConfigLoadResult
	// configPath is where the window geometry is saved on exit
	configPath string

	thumbs   *ThumbnailStore
	grid     *ThumbnailGrid
	selected int

	gallery *Gallery
	preload *PreloadManager

	input    *InputHandler
	km       *KeybindingManager
	mm       *MousebindingManager
	renderer *Renderer

	singleTapDismiss bool
	pendingOpen      int
	gridDragRows     int

	fullscreen bool
	savedWinW  int
	savedWinH  int
	screenW    int
	screenH    int

	showHelp           bool
	showInfo           bool
	overlayMessage     string
	overlayMessageTime time.Time
	exiting            bool

	log *slog.Logger
}

// NewGame builds the host over a collected source
func NewGame(status ConfigLoadResult, source GallerySource, loader *ImageLoader, opts GameOptions) *Game {
	cfg := status.Config
	g := &Game{
		source:           source,
		loader:           loader,
		config:           cfg,
		status:           status,
		thumbs:           NewThumbnailStore(loader, source, cfg.ThumbnailSize),
		singleTapDismiss: opts.SingleTapDismiss || cfg.SingleTapDismiss,
		pendingOpen:      opts.StartPage,
		configPath:       opts.ConfigPath,
		fullscreen:       cfg.Fullscreen,
		screenW:          cfg.WindowWidth,
		screenH:          cfg.WindowHeight,
		log:              withComponent("host"),
	}
	g.grid = NewThumbnailGrid(g.gridArea(), float64(cfg.ThumbnailSize), defaultGridPadding, source.ItemCount())
	g.km = NewKeybindingManager(cfg.Keybindings)
	g.mm = NewMousebindingManager(cfg.Mousebindings, cfg.MouseSettings)
	g.input = NewInputHandler(g, g, g.km, g.mm, cfg.GestureSettings())
	g.renderer = NewRenderer(g)
	return g
}

func (g *Game) gridArea() Rect {
	return Rect{W: float64(g.screenW), H: math.Max(0, float64(g.screenH)-statusBarHeight)}
}

func (g *Game) screenRect() Rect {
	return Rect{W: float64(g.screenW), H: float64(g.screenH)}
}

func (g *Game) Update() error {
	if g.exiting {
		g.saveCurrentWindowSize()
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())

	g.thumbs.Update()
	g.requestThumbnails()

	if g.pendingOpen != noPage {
		page := g.pendingOpen
		g.pendingOpen = noPage
		g.openGallery(page)
	}

	g.input.HandleInput()
	gestures := g.input.Gestures(dt)

	if g.gallery != nil {
		for _, gs := range gestures {
			// A gesture may close the gallery without animation.
			if g.gallery == nil {
				return nil
			}
			g.gallery.HandleGesture(gs)
		}
		if g.gallery == nil {
			return nil
		}
		g.gallery.Update(dt)
		if g.gallery.PresentedAnimationProvider().Phase() == PhaseDismissed {
			g.closeGallery()
		}
		return nil
	}

	for _, gs := range gestures {
		g.handleGridGesture(gs)
	}
	return nil
}

func (g *Game) requestThumbnails() {
	from, to := g.grid.Visible()
	for i := from; i < to; i++ {
		g.thumbs.Request(i)
	}
	if g.gallery != nil {
		g.thumbs.Request(g.gallery.State().CurrentPage)
	}
}

func (g *Game) handleGridGesture(gs Gesture) {
	switch gs.Kind {
	case GestureTap, GestureDoubleTap:
		if i, ok := g.grid.At(gs.X, gs.Y); ok {
			g.selected = i
			g.openGallery(i)
		}
	case GestureDragStart:
		g.gridDragRows = 0
	case GestureDragMove:
		if gs.Axis != AxisVertical {
			return
		}
		rows := int(-gs.DY / (float64(g.config.ThumbnailSize) + defaultGridPadding))
		g.grid.ScrollBy(rows - g.gridDragRows)
		g.gridDragRows = rows
	}
}

// openGallery presents a gallery on page, growing out of its thumbnail
func (g *Game) openGallery(page int) {
	if g.gallery != nil || page < 0 || page >= g.source.ItemCount() {
		return
	}
	g.grid.Reveal(page)

	sourceView, _ := g.grid.CellRect(page)
	if img, ok := g.thumbs.Thumbnail(page); ok {
		b := img.Bounds()
		sourceView, _ = g.grid.ThumbRect(page, float64(b.Dx()), float64(b.Dy()))
	}

	cfg := g.config
	gallery, err := NewGallery(sourceView, g.source,
		WithStartPage(page),
		WithRadius(cfg.WindowRadius),
		WithSingleTapDismiss(g.singleTapDismiss),
		WithScreenSize(float64(g.screenW), float64(g.screenH)),
		WithSlotFactory(newEbitenSlotFactory(g.loader)),
		WithTransitionOptions(cfg.TransitionOptions()),
		WithSettleDuration(time.Duration(cfg.SettleMs)*time.Millisecond),
		WithButtonFade(time.Duration(cfg.ButtonFadeMs)*time.Millisecond),
	)
	if err != nil {
		g.log.Error("failed to open gallery", "page", page, "err", err)
		g.ShowOverlayMessage("Cannot open gallery")
		return
	}
	if err := gallery.Present(); err != nil {
		g.log.Error("failed to present gallery", "page", page, "err", err)
		gallery.Close()
		return
	}
	gallery.Attach(g)

	if cfg.PreloadEnabled {
		g.preload = NewPreloadManager(g.loader, g.source, cfg.WindowRadius, cfg.PreloadCount)
		gallery.SetPageChangeHandler(g.preload.PageChanged)
		g.preload.StartPreload(page, NavigationJump)
	}
	g.gallery = gallery
	g.input.ResetGestures()
}

// DismissGallery implements GalleryHost
func (g *Game) DismissGallery() {
	if g.gallery == nil {
		return
	}
	if err := g.gallery.BeginDismiss(); err != nil {
		g.log.Warn("dismiss without animation", "err", err)
		g.closeGallery()
	}
}

func (g *Game) closeGallery() {
	if g.gallery == nil {
		return
	}
	g.selected = g.gallery.State().CurrentPage
	g.gallery.Close()
	g.gallery = nil
	if g.preload != nil {
		g.preload.Stop()
		g.preload = nil
	}
	g.grid.Reveal(g.selected)
	g.input.ResetGestures()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.screenW || outsideHeight != g.screenH {
		g.screenW, g.screenH = outsideWidth, outsideHeight
		g.grid.Attach(g.gridArea())
		if g.gallery != nil {
			g.gallery.Resize(float64(outsideWidth), float64(outsideHeight))
		}
	}
	return outsideWidth, outsideHeight
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

// Close releases everything still running after the game loop ends
func (g *Game) Close() {
	g.closeGallery()
	g.thumbs.Close()
}

// saveCurrentWindowSize writes the window geometry back into the config
// file. Everything else is re-read from disk so command-line overrides are
// not persisted.
func (g *Game) saveCurrentWindowSize() {
	path := g.configPath
	if path == "" {
		path = getConfigPath()
	}
	onDisk := loadConfigFromPath(path)
	if onDisk.Status == configStatusError {
		g.log.Warn("config file is broken, not saving window size", "path", path)
		return
	}
	cfg := onDisk.Config
	if g.fullscreen {
		// Keep the size from before fullscreen
		if g.savedWinW > 0 && g.savedWinH > 0 {
			cfg.WindowWidth = g.savedWinW
			cfg.WindowHeight = g.savedWinH
		}
	} else {
		cfg.WindowWidth, cfg.WindowHeight = ebiten.WindowSize()
	}
	cfg.Fullscreen = g.fullscreen
	saveConfigToPath(cfg, path)
}

// InputActions

func (g *Game) Exit() { g.exiting = true }

func (g *Game) ToggleHelp() { g.showHelp = !g.showHelp }

func (g *Game) ToggleInfo() { g.showInfo = !g.showInfo }

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

func (g *Game) OpenSelected() { g.openGallery(g.selected) }

func (g *Game) ScrollUp() {
	if g.gallery != nil {
		g.gallery.PreviousPage()
		return
	}
	g.grid.MoveUpRow()
}

func (g *Game) ScrollDown() {
	if g.gallery != nil {
		g.gallery.NextPage()
		return
	}
	g.grid.MoveDownRow()
}

func (g *Game) NavigateNext() {
	if g.gallery != nil {
		g.gallery.NextPage()
		return
	}
	g.selectIndex(g.selected + 1)
}

func (g *Game) NavigatePrevious() {
	if g.gallery != nil {
		g.gallery.PreviousPage()
		return
	}
	g.selectIndex(g.selected - 1)
}

func (g *Game) JumpFirst() {
	if g.gallery != nil {
		g.gallery.FirstPage()
		return
	}
	g.selectIndex(0)
}

func (g *Game) JumpLast() {
	if g.gallery != nil {
		g.gallery.LastPage()
		return
	}
	g.selectIndex(g.source.ItemCount() - 1)
}

func (g *Game) selectIndex(i int) {
	g.selected = max(0, min(i, g.source.ItemCount()-1))
	g.grid.Reveal(g.selected)
}

func (g *Game) Dismiss() {
	if g.gallery != nil {
		g.gallery.RequestDismiss()
	}
}

func (g *Game) ToggleSingleTapDismiss() {
	g.singleTapDismiss = !g.singleTapDismiss
	if g.gallery != nil {
		g.gallery.SetSingleTapDismissEnabled(g.singleTapDismiss)
	}
	state := "off"
	if g.singleTapDismiss {
		state = "on"
	}
	g.ShowOverlayMessage(fmt.Sprintf("Single-tap dismiss: %s", state))
}

func (g *Game) ZoomIn() { g.zoom(keyZoomStep) }

func (g *Game) ZoomOut() { g.zoom(1 / keyZoomStep) }

func (g *Game) zoom(factor float64) {
	if g.gallery == nil {
		return
	}
	cx, cy := g.screenRect().Center()
	g.gallery.ZoomCurrent(factor, cx, cy)
}

func (g *Game) ZoomReset() {
	if g.gallery != nil {
		g.gallery.ResetZoom()
	}
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

// InputState and RenderState

func (g *Game) IsGalleryOpen() bool { return g.gallery != nil }

func (g *Game) IsFullscreen() bool { return g.fullscreen }

func (g *Game) IsShowingHelp() bool { return g.showHelp }

func (g *Game) IsShowingInfo() bool { return g.showInfo }

func (g *Game) GetGrid() *ThumbnailGrid { return g.grid }

func (g *Game) GetThumbnails() *ThumbnailStore { return g.thumbs }

func (g *Game) GetSelectedIndex() int { return g.selected }

func (g *Game) GetGallery() *Gallery { return g.gallery }

func (g *Game) GetTransitionImage() *ebiten.Image {
	if g.gallery == nil {
		return nil
	}
	if slot, ok := g.gallery.Window().CurrentSlot(); ok {
		if p, ok := slot.(slotImageProvider); ok && p.Image() != nil {
			return p.Image()
		}
	}
	img, _ := g.thumbs.Thumbnail(g.gallery.State().CurrentPage)
	return img
}

func (g *Game) GetTotalPagesCount() int { return g.source.ItemCount() }

func (g *Game) GetOverlayMessage() string { return g.overlayMessage }

func (g *Game) GetOverlayMessageTime() time.Time { return g.overlayMessageTime }

func (g *Game) GetFontSize() float64 { return g.config.HelpFontSize }

func (g *Game) GetConfigStatus() ConfigLoadResult { return g.status }

func (g *Game) GetKeybindings() map[string][]string { return g.km.GetKeybindings() }

func (g *Game) GetMousebindings() map[string][]string { return g.mm.GetMousebindings() }

// RunGame opens the window and runs the host until the user quits
func RunGame(status ConfigLoadResult, source GallerySource, loader *ImageLoader, opts GameOptions) error {
	cfg := status.Config
	g := NewGame(status, source, loader, opts)
	defer g.Close()

	ebiten.SetWindowTitle(fmt.Sprintf("nvgallery (%d images)", source.ItemCount()))
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowSizeLimits(minWidth, minHeight, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.Fullscreen {
		g.savedWinW, g.savedWinH = cfg.WindowWidth, cfg.WindowHeight
		ebiten.SetFullscreen(true)
	}

	return ebiten.RunGame(g)
}
