package main

import (
	"log/slog"
	"net/url"
	"time"
)

const (
	dismissButtonSize   = 44.0
	dismissButtonOffset = 5.0
	dismissButtonInset  = 12.0
	dismissButtonFade   = 300 * time.Millisecond
)

// GalleryHost is the container presenting a gallery. DismissGallery asks it
// to tear the gallery down; the host runs the close animation through
// Gallery.BeginDismiss and drops the gallery once it completes.
type GalleryHost interface {
	DismissGallery()
}

// GalleryState is the browsing position. FirstPage is fixed when the
// gallery is opened.
type GalleryState struct {
	CurrentPage int
	FirstPage   int
	ItemCount   int
}

type galleryOptions struct {
	startPage        int
	radius           int
	singleTapDismiss bool
	layout           PageLayout
	newFactory       func(*PagingSurface) SlotFactory
	transition       TransitionOptions
	settleDuration   time.Duration
	buttonFade       time.Duration
}

// GalleryOption configures a gallery at construction
type GalleryOption func(*galleryOptions)

// WithStartPage opens the gallery on page instead of the first one
func WithStartPage(page int) GalleryOption {
	return func(o *galleryOptions) { o.startPage = page }
}

// WithRadius sets how many pages on each side of the current page stay loaded
func WithRadius(radius int) GalleryOption {
	return func(o *galleryOptions) { o.radius = radius }
}

// WithSingleTapDismiss closes the gallery on a single tap instead of
// toggling the dismiss button
func WithSingleTapDismiss(enabled bool) GalleryOption {
	return func(o *galleryOptions) { o.singleTapDismiss = enabled }
}

// WithScreenSize sets the initial screen size
func WithScreenSize(w, h float64) GalleryOption {
	return func(o *galleryOptions) {
		o.layout.ScreenW = w
		o.layout.ScreenH = h
	}
}

// WithSlotFactory sets how page slots are created for the gallery's surface
func WithSlotFactory(fn func(*PagingSurface) SlotFactory) GalleryOption {
	return func(o *galleryOptions) { o.newFactory = fn }
}

// WithTransitionOptions sets the open and close animation parameters
func WithTransitionOptions(opts TransitionOptions) GalleryOption {
	return func(o *galleryOptions) { o.transition = opts }
}

// WithSettleDuration sets the page settle animation duration
func WithSettleDuration(d time.Duration) GalleryOption {
	return func(o *galleryOptions) { o.settleDuration = d }
}

// WithButtonFade sets the dismiss button fade duration
func WithButtonFade(d time.Duration) GalleryOption {
	return func(o *galleryOptions) { o.buttonFade = d }
}

// Gallery is the full-screen paged viewer. It owns the browsing state and
// the page window, and connects scroll, slot and button events to the
// window manager and the transition.
type Gallery struct {
	source     GallerySource
	sourceView Rect
	state      GalleryState
	opts       galleryOptions

	surface    *PagingSurface
	window     *PageWindowManager
	transition *TransitionController
	button     *dismissButton
	host       GalleryHost

	singleTapDismiss bool
	dismissRequested bool
	dismissImgW      float64
	dismissImgH      float64
	panning          bool
	paging           bool
	onPageChange     func(prev, cur int)

	log *slog.Logger
}

// NewGalleryFromImages opens a gallery over locally held images.
// sourceView is the on-screen rectangle of the thumbnail it opens from.
func NewGalleryFromImages(sourceView Rect, images []ImageHandle, opts ...GalleryOption) (*Gallery, error) {
	src, err := NewLocalSource(images)
	if err != nil {
		return nil, err
	}
	return NewGallery(sourceView, src, opts...)
}

// NewGalleryFromURLs opens a gallery over remote images
func NewGalleryFromURLs(sourceView Rect, urls []*url.URL, opts ...GalleryOption) (*Gallery, error) {
	src, err := NewRemoteSource(urls)
	if err != nil {
		return nil, err
	}
	return NewGallery(sourceView, src, opts...)
}

// NewGallery opens a gallery over an already built source
func NewGallery(sourceView Rect, src GallerySource, opts ...GalleryOption) (*Gallery, error) {
	o := galleryOptions{
		radius:         defaultWindowRadius,
		layout:         PageLayout{ScreenW: 800, ScreenH: 600, SideInset: defaultSideInset},
		settleDuration: defaultSettleDuration,
		buttonFade:     dismissButtonFade,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if src.ItemCount() <= 0 {
		return nil, newGalleryError(KindInvalidConstruction, "NewGallery", "empty source")
	}
	if o.newFactory == nil {
		return nil, newGalleryError(KindInvalidConstruction, "NewGallery", "no slot factory")
	}

	g := &Gallery{
		source:     src,
		sourceView: sourceView,
		opts:       o,
		state: GalleryState{
			CurrentPage: o.startPage,
			FirstPage:   o.startPage,
			ItemCount:   src.ItemCount(),
		},
		singleTapDismiss: o.singleTapDismiss,
		button:           newDismissButton(),
		log:              withComponent("gallery"),
	}

	g.surface = NewPagingSurface(o.layout, src.ItemCount(), o.startPage)
	g.surface.SetSettleDuration(o.settleDuration)
	g.surface.SetSettleHandler(g.ScrollSettled)

	window, err := NewPageWindowManager(WindowConfig{
		Source:           src,
		Factory:          o.newFactory(g.surface),
		Listener:         g,
		Layout:           o.layout,
		Radius:           o.radius,
		CurrentPage:      o.startPage,
		SingleTapDismiss: o.singleTapDismiss,
	})
	if err != nil {
		return nil, err
	}
	g.window = window

	g.transition = NewTransitionController(o.transition)
	g.transition.Configure(TransitionContext{
		ReferenceView:    sourceView,
		TargetImageWidth: o.layout.ScreenW,
	})

	g.log.Info("gallery opened",
		"source", src.Kind(),
		"items", src.ItemCount(),
		"page", o.startPage,
		"radius", o.radius)
	return g, nil
}

// Attach sets the host that receives dismiss requests
func (g *Gallery) Attach(host GalleryHost) {
	g.host = host
}

// Present starts the open transition from the thumbnail
func (g *Gallery) Present() error {
	return g.transition.Present(g.sourceView.W, g.sourceView.H, g.surface.Layout().Screen())
}

// ScrollSettled handles the end of a scroll. The window follows the page the
// surface stopped on and the thumbnail visibility is refreshed on every
// settle, whether or not the page changed.
func (g *Gallery) ScrollSettled(page int) {
	if prev := g.state.CurrentPage; page != prev {
		if _, err := g.window.SetCurrentPage(page); err == nil {
			g.state.CurrentPage = page
			if g.onPageChange != nil {
				g.onPageChange(prev, page)
			}
		}
	}
	g.transition.SetOriginalImageVisible(g.state.CurrentPage != g.state.FirstPage)
}

// SetPageChangeHandler registers fn to run after the current page changes
func (g *Gallery) SetPageChangeHandler(fn func(prev, cur int)) {
	g.onPageChange = fn
}

// DismissRequested implements SlotListener
func (g *Gallery) DismissRequested(index int) {
	g.RequestDismiss()
}

// VisibilityRequested implements SlotListener. It fades the dismiss button
// unless single-tap dismiss is on.
func (g *Gallery) VisibilityRequested(show bool) {
	if g.singleTapDismiss {
		return
	}
	g.button.Show(show, g.opts.buttonFade)
}

// RequestDismiss captures the close transition from the visible page and
// asks the host to tear the gallery down
func (g *Gallery) RequestDismiss() {
	if g.dismissRequested {
		return
	}
	g.dismissRequested = true
	g.prepareDismiss()
	if g.host != nil {
		g.host.DismissGallery()
	}
}

func (g *Gallery) prepareDismiss() {
	// A dismiss during the open animation starts from the opened state
	if g.transition.Phase() == PhasePresenting {
		g.transition.Finish()
	}
	ctx := TransitionContext{
		ReferenceView:    g.sourceView,
		TargetImageWidth: g.sourceView.W,
		DismissalStyle:   ChooseDismissalStyle(g.state.CurrentPage, g.state.FirstPage),
	}
	g.dismissImgW, g.dismissImgH = g.sourceView.W, g.sourceView.H
	if slot, ok := g.window.CurrentSlot(); ok {
		ctx.ReferenceView = slot.ImageGeometry()
		g.dismissImgW, g.dismissImgH = slot.ImageSize()
	}
	g.transition.Configure(ctx)
	g.log.Debug("dismiss requested",
		"page", g.state.CurrentPage,
		"first", g.state.FirstPage,
		"style", ctx.DismissalStyle)
}

// BeginDismiss starts the close animation prepared by RequestDismiss
func (g *Gallery) BeginDismiss() error {
	if !g.dismissRequested {
		g.dismissRequested = true
		g.prepareDismiss()
	}
	return g.transition.Dismiss(g.dismissImgW, g.dismissImgH, g.surface.Layout().Screen())
}

// DismissPending reports whether a dismiss was requested
func (g *Gallery) DismissPending() bool {
	return g.dismissRequested
}

// SetSingleTapDismissEnabled switches single-tap dismiss on every live page
// and on pages loaded later
func (g *Gallery) SetSingleTapDismissEnabled(enabled bool) {
	g.singleTapDismiss = enabled
	g.window.SetSingleTapDismissEnabled(enabled)
}

// SingleTapDismissEnabled reports the current mode
func (g *Gallery) SingleTapDismissEnabled() bool {
	return g.singleTapDismiss
}

// PresentedAnimationProvider returns the controller animating the open
func (g *Gallery) PresentedAnimationProvider() *TransitionController {
	return g.transition
}

// DismissedAnimationProvider returns the controller animating the close
func (g *Gallery) DismissedAnimationProvider() *TransitionController {
	return g.transition
}

// StatusBarHidden is always true while a gallery is up
func (g *Gallery) StatusBarHidden() bool {
	return true
}

func (g *Gallery) State() GalleryState { return g.state }

func (g *Gallery) Source() GallerySource { return g.source }

func (g *Gallery) SourceView() Rect { return g.sourceView }

func (g *Gallery) Surface() *PagingSurface { return g.surface }

func (g *Gallery) Window() *PageWindowManager { return g.window }

func (g *Gallery) Button() *dismissButton { return g.button }

// NextPage scrolls one page forward
func (g *Gallery) NextPage() {
	g.scrollTo(g.state.CurrentPage + 1)
}

// PreviousPage scrolls one page back
func (g *Gallery) PreviousPage() {
	g.scrollTo(g.state.CurrentPage - 1)
}

// FirstPage scrolls to the first page
func (g *Gallery) FirstPage() {
	g.scrollTo(0)
}

// LastPage scrolls to the last page
func (g *Gallery) LastPage() {
	g.scrollTo(g.state.ItemCount - 1)
}

func (g *Gallery) scrollTo(page int) {
	if g.interactionLocked() || page < 0 || page >= g.state.ItemCount {
		return
	}
	g.surface.ScrollToPage(page)
}

// ZoomCurrent zooms the visible page around the screen point (x, y)
func (g *Gallery) ZoomCurrent(factor, x, y float64) {
	if g.interactionLocked() {
		return
	}
	if slot, ok := g.window.CurrentSlot(); ok {
		slot.ZoomBy(factor, x, y)
	}
}

// ResetZoom returns the visible page to its fitted size
func (g *Gallery) ResetZoom() {
	slot, ok := g.window.CurrentSlot()
	if !ok || !slot.IsZoomed() || g.interactionLocked() {
		return
	}
	// A double tap on a zoomed page toggles back to fit.
	cx, cy := g.surface.Layout().Screen().Center()
	slot.HandleDoubleTap(cx, cy)
}

func (g *Gallery) interactionLocked() bool {
	return g.dismissRequested || g.transition.Animating()
}

// HandleGesture routes a pointer gesture to the button, the paging surface
// or the visible page
func (g *Gallery) HandleGesture(gs Gesture) {
	if g.interactionLocked() {
		return
	}
	slot, hasSlot := g.window.CurrentSlot()

	switch gs.Kind {
	case GestureTap:
		if g.button.Visible() && g.button.Frame().Contains(gs.X, gs.Y) {
			g.RequestDismiss()
			return
		}
		if hasSlot {
			slot.HandleTap()
		}
	case GestureDoubleTap:
		if hasSlot {
			slot.HandleDoubleTap(gs.X, gs.Y)
		}
	case GestureDragStart:
		switch {
		case hasSlot && slot.IsZoomed():
			g.panning = true
		case gs.Axis == AxisHorizontal:
			g.paging = true
			g.surface.BeginDrag()
		}
	case GestureDragMove:
		switch {
		case g.panning && hasSlot:
			slot.PanBy(gs.StepX, gs.StepY)
		case g.paging:
			g.surface.DragBy(gs.DX)
		}
	case GestureDragEnd, GestureSwipeDown:
		if g.paging {
			g.surface.EndDrag()
		}
		wasDragging := g.panning || g.paging
		g.panning, g.paging = false, false
		if gs.Kind == GestureSwipeDown && !wasDragging && hasSlot {
			slot.HandleSwipeDown()
		}
	}
}

// Update advances animations, the paging surface and every live page
func (g *Gallery) Update(dt float64) {
	g.transition.Update(dt)
	g.surface.Update(dt)
	g.window.EachSlot(func(s PageSlot) { s.Update(dt) })
	g.button.Update(dt)
}

// Resize adapts the gallery to a new screen size
func (g *Gallery) Resize(w, h float64) {
	layout := g.surface.Layout()
	if layout.ScreenW == w && layout.ScreenH == h {
		return
	}
	layout.ScreenW, layout.ScreenH = w, h
	g.surface.Resize(layout)
	g.window.Relayout(layout)
}

// Close destroys every page
func (g *Gallery) Close() {
	g.window.Close()
	g.log.Info("gallery closed", "page", g.state.CurrentPage)
}

// dismissButton is the close button in the top-left corner. Visibility
// changes fade over a short duration; the hidden flag follows once the fade
// completes.
type dismissButton struct {
	frame  Rect
	hidden bool
	alpha  float64

	fade       *animation
	fadeToShow bool
}

func newDismissButton() *dismissButton {
	return &dismissButton{
		frame: Rect{X: dismissButtonOffset, Y: dismissButtonOffset, W: dismissButtonSize, H: dismissButtonSize},
		alpha: 1,
	}
}

// Show fades the button in or out. It does nothing when the button is
// already in, or already heading to, the requested state.
func (b *dismissButton) Show(show bool, d time.Duration) bool {
	if b.fade != nil {
		if b.fadeToShow == show {
			return false
		}
	} else if b.hidden == !show {
		return false
	}
	target := 0.0
	if show {
		target = 1
	}
	b.fadeToShow = show
	b.fade = newAnimation(b.alpha, target, d, nil)
	if d <= 0 {
		b.Update(0)
	}
	return true
}

func (b *dismissButton) Update(dt float64) {
	if b.fade == nil {
		return
	}
	v, done := b.fade.update(dt)
	b.alpha = v
	if done {
		b.fade = nil
		b.hidden = !b.fadeToShow
	}
}

// Visible reports whether the button is drawn at all
func (b *dismissButton) Visible() bool {
	return !b.hidden || b.fade != nil
}

func (b *dismissButton) Hidden() bool { return b.hidden }

func (b *dismissButton) Alpha() float64 { return b.alpha }

func (b *dismissButton) Fading() bool { return b.fade != nil }

func (b *dismissButton) Frame() Rect { return b.frame }

// GlyphFrame is the area of the cross inside the button
func (b *dismissButton) GlyphFrame() Rect {
	return b.frame.Inset(dismissButtonInset)
}
