// Package routeselect drives the origin/destination picker: two address
// inputs with debounced suggestions, click-to-fill on the map, marker
// placement and the duration estimate that is exported with the route.
//
// The package owns state only. Rendering is delegated to a MapSurface and
// an optional TextField, so the same Widget serves a browser bridge or tests.
package routeselect

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"carpool/internal/domain/models"
	"carpool/internal/geo"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Input identifies one of the two address inputs.
type Input int

const (
	None Input = iota
	From
	To
)

func (in Input) String() string {
	switch in {
	case From:
		return "from"
	case To:
		return "to"
	}
	return "none"
}

func (in Input) valid() bool { return in == From || in == To }

// Marker is a handle to a pin placed on the map.
type Marker interface {
	Remove()
}

// MapSurface draws on the map. Implementations must not call back into the Widget.
type MapSurface interface {
	AddMarker(pos geo.LatLng, popup string) Marker
	FitBounds(southWest, northEast geo.LatLng, padding int)
}

// TextField is the trip-length form field bound to the widget.
type TextField interface {
	Value() string
	SetValue(v string)
}

// Options tunes a Widget. Zero fields take DefaultOptions values; a negative
// Debounce searches on every keystroke.
type Options struct {
	Debounce       time.Duration
	Timeout        time.Duration
	MinQueryLength int
	MaxSuggestions int
	FitPadding     int
	// OnChange runs after every state change a view should re-render. Never under lock.
	OnChange func()
	Logger   *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		Debounce:       300 * time.Millisecond,
		Timeout:        10 * time.Second,
		MinQueryLength: 3,
		MaxSuggestions: 5,
		FitPadding:     50,
	}
}

// Result is the last route the router returned.
type Result struct {
	StartAddress string
	EndAddress   string
	Start        geo.LatLng
	End          geo.LatLng
	DurationText string
}

type Widget struct {
	geocoder   geo.Geocoder
	router     geo.Router
	surface    MapSurface
	tripLength TextField
	opts       Options
	log        *zap.Logger

	mu          sync.Mutex
	values      [3]string
	suggestions [3][]geo.Candidate
	seq         [3]uint64
	timers      [3]*time.Timer
	routeSeq    uint64
	active      Input
	markers     []Marker
	result      *Result
	errs        ErrorSlot
}

// New builds a widget. tripLength may be nil when no trip-length field is bound.
func New(g geo.Geocoder, r geo.Router, surface MapSurface, tripLength TextField, opts Options) *Widget {
	def := DefaultOptions()
	switch {
	case opts.Debounce == 0:
		opts.Debounce = def.Debounce
	case opts.Debounce < 0:
		opts.Debounce = 0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = def.MinQueryLength
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = def.MaxSuggestions
	}
	if opts.FitPadding <= 0 {
		opts.FitPadding = def.FitPadding
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Widget{
		geocoder:   g,
		router:     r,
		surface:    surface,
		tripLength: tripLength,
		opts:       opts,
		log:        log.Named("routeselect"),
	}
}

func (w *Widget) notify() {
	if w.opts.OnChange != nil {
		w.opts.OnChange()
	}
}

func (w *Widget) Value(in Input) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.values[in]
}

func (w *Widget) Suggestions(in Input) []geo.Candidate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]geo.Candidate(nil), w.suggestions[in]...)
}

func (w *Widget) Active() Input {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Widget) MarkerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.markers)
}

func (w *Widget) Result() (Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return Result{}, false
	}
	return *w.result, true
}

// Err returns the message currently in the error slot, or "".
func (w *Widget) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errs.Message()
}

func (w *Widget) setErr(msg string) {
	w.mu.Lock()
	w.errs.Set(msg)
	w.mu.Unlock()
	w.notify()
}

// Input records typed text and schedules a suggestion search once typing
// pauses for the debounce interval. Earlier pending searches are cancelled
// and responses to them are discarded.
func (w *Widget) Input(in Input, text string) {
	if !in.valid() {
		return
	}
	w.mu.Lock()
	w.values[in] = text
	w.seq[in]++
	if t := w.timers[in]; t != nil {
		t.Stop()
	}
	w.timers[in] = time.AfterFunc(w.opts.Debounce, func() {
		w.Search(context.Background(), in)
	})
	w.mu.Unlock()
}

// Search fetches suggestions for the current text of in. Queries shorter
// than the minimum clear the list without contacting the geocoder.
func (w *Widget) Search(ctx context.Context, in Input) {
	if !in.valid() {
		return
	}
	w.mu.Lock()
	query := strings.TrimSpace(w.values[in])
	if utf8.RuneCountInString(query) < w.opts.MinQueryLength {
		w.suggestions[in] = nil
		w.mu.Unlock()
		w.notify()
		return
	}
	seq := w.seq[in]
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
	defer cancel()
	results, err := w.geocoder.Search(ctx, query)

	w.mu.Lock()
	if w.seq[in] != seq {
		w.mu.Unlock()
		w.log.Debug("stale suggestions dropped", zap.Stringer("input", in), zap.String("query", query))
		return
	}
	if err != nil {
		w.errs.Set(MsgSearchFailed)
		w.mu.Unlock()
		w.log.Warn("suggestion search failed", zap.Stringer("input", in), zap.Error(err))
		w.notify()
		return
	}
	if len(results) > w.opts.MaxSuggestions {
		results = results[:w.opts.MaxSuggestions]
	}
	w.suggestions[in] = results
	w.mu.Unlock()
	w.notify()
}

// SelectSuggestion copies the idx-th suggestion into the input, closes the
// list and recomputes the route.
func (w *Widget) SelectSuggestion(ctx context.Context, in Input, idx int) bool {
	if !in.valid() {
		return false
	}
	w.mu.Lock()
	list := w.suggestions[in]
	if idx < 0 || idx >= len(list) {
		w.mu.Unlock()
		return false
	}
	w.values[in] = list[idx].Label
	w.suggestions[in] = nil
	w.seq[in]++
	if t := w.timers[in]; t != nil {
		t.Stop()
	}
	w.mu.Unlock()
	w.notify()

	w.UpdateRoute(ctx)
	return true
}

func (w *Widget) Focus(in Input) {
	if !in.valid() {
		return
	}
	w.mu.Lock()
	w.active = in
	w.mu.Unlock()
}

func (w *Widget) Blur(in Input) {
	w.mu.Lock()
	if w.active == in {
		w.active = None
	}
	w.mu.Unlock()
}

// MapClick fills the focused input with the address nearest to pos and
// recomputes the route. Without a focused input it does nothing.
func (w *Widget) MapClick(ctx context.Context, pos geo.LatLng) {
	w.mu.Lock()
	target := w.active
	w.mu.Unlock()
	if target == None {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
	results, err := w.geocoder.Search(cctx, geo.ReverseQuery(pos))
	cancel()
	if err != nil {
		w.log.Warn("reverse geocoding failed", zap.Float64("lat", pos.Lat), zap.Float64("lng", pos.Lng), zap.Error(err))
		w.setErr(MsgReverseFailed)
		return
	}
	if len(results) == 0 {
		return
	}

	w.mu.Lock()
	w.values[target] = results[0].Label
	w.seq[target]++
	w.mu.Unlock()
	w.notify()

	w.UpdateRoute(ctx)
}

// UpdateRoute geocodes both inputs, pins them on the map and asks the router
// for a route. It needs text in both inputs. A newer call supersedes an
// older one still in flight: the older one no longer touches markers, the
// error slot or the result.
func (w *Widget) UpdateRoute(ctx context.Context) {
	w.mu.Lock()
	fromText, toText := w.values[From], w.values[To]
	from := strings.TrimSpace(fromText)
	to := strings.TrimSpace(toText)
	if from == "" || to == "" {
		w.mu.Unlock()
		return
	}
	w.clearMarkersLocked()
	w.routeSeq++
	seq := w.routeSeq
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
	defer cancel()

	var fromHits, toHits []geo.Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fromHits, err = w.geocoder.Search(gctx, from)
		return err
	})
	g.Go(func() error {
		var err error
		toHits, err = w.geocoder.Search(gctx, to)
		return err
	})
	if err := g.Wait(); err != nil {
		w.log.Warn("route geocoding failed", zap.Error(err))
		w.setRouteErr(seq, MsgRouteFailed)
		return
	}

	w.mu.Lock()
	if w.routeSeq != seq {
		w.mu.Unlock()
		return
	}
	if len(fromHits) == 0 || len(toHits) == 0 {
		w.errs.Set(MsgNotFound)
		w.mu.Unlock()
		w.notify()
		return
	}
	start, end := fromHits[0].LatLng(), toHits[0].LatLng()
	if w.surface != nil {
		w.markers = append(w.markers,
			w.surface.AddMarker(start, "Start"),
			w.surface.AddMarker(end, "End"),
		)
		sw, ne := Bounds(start, end)
		w.surface.FitBounds(sw, ne, w.opts.FitPadding)
	}
	w.errs.Clear()
	w.mu.Unlock()
	w.notify()

	route, err := w.router.Route(ctx, []geo.LatLng{start, end})
	if err != nil {
		w.log.Warn("routing failed", zap.Error(err))
		w.setRouteErr(seq, MsgRouteFailed)
		return
	}
	w.storeRoute(seq, route, fromText, toText)
}

// setRouteErr records msg unless a newer recompute has started since seq.
func (w *Widget) setRouteErr(seq uint64, msg string) {
	w.mu.Lock()
	if w.routeSeq != seq {
		w.mu.Unlock()
		return
	}
	w.errs.Set(msg)
	w.mu.Unlock()
	w.notify()
}

func (w *Widget) clearMarkersLocked() {
	for _, m := range w.markers {
		m.Remove()
	}
	w.markers = nil
}

// HandleRouteFound records a router result for the current inputs and
// writes the formatted travel time into the trip-length field. A route
// without coordinates is ignored.
func (w *Widget) HandleRouteFound(route geo.Route) {
	w.mu.Lock()
	seq, from, to := w.routeSeq, w.values[From], w.values[To]
	w.mu.Unlock()
	w.storeRoute(seq, route, from, to)
}

// storeRoute keeps route only while seq is still the latest recompute, so a
// late answer never pairs old coordinates with newer addresses.
func (w *Widget) storeRoute(seq uint64, route geo.Route, from, to string) {
	if len(route.Coordinates) == 0 {
		return
	}
	text := FormatDuration(route.TotalTime)

	w.mu.Lock()
	if w.routeSeq != seq {
		w.mu.Unlock()
		w.log.Debug("stale route dropped")
		return
	}
	if w.tripLength != nil {
		w.tripLength.SetValue(text)
	}
	w.result = &Result{
		StartAddress: from,
		EndAddress:   to,
		Start:        route.Coordinates[0],
		End:          route.Coordinates[len(route.Coordinates)-1],
		DurationText: text,
	}
	w.mu.Unlock()
	w.notify()
}

// ToJSON exports the selected route. It returns nil and sets an error when
// no route has been computed, and nil when a bound trip-length field is empty.
func (w *Widget) ToJSON() *models.RouteSelection {
	w.mu.Lock()
	if w.result == nil {
		w.errs.Set(MsgNoRouteSelected)
		w.mu.Unlock()
		w.notify()
		return nil
	}
	r := *w.result
	sel := &models.RouteSelection{
		Origin:      models.Place{Address: r.StartAddress, Lat: r.Start.Lat, Lon: r.Start.Lng},
		Destination: models.Place{Address: r.EndAddress, Lat: r.End.Lat, Lon: r.End.Lng},
	}
	if w.tripLength != nil {
		length := strings.TrimSpace(w.tripLength.Value())
		if length == "" {
			w.mu.Unlock()
			return nil
		}
		sel.TripLength = length
	}
	w.errs.Clear()
	w.mu.Unlock()
	w.notify()
	return sel
}

// Close stops pending debounce timers.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, t := range w.timers {
		if t != nil {
			t.Stop()
			w.timers[i] = nil
		}
	}
}

// Bounds returns the south-west and north-east corners enclosing a and b.
func Bounds(a, b geo.LatLng) (geo.LatLng, geo.LatLng) {
	sw := geo.LatLng{Lat: min(a.Lat, b.Lat), Lng: min(a.Lng, b.Lng)}
	ne := geo.LatLng{Lat: max(a.Lat, b.Lat), Lng: max(a.Lng, b.Lng)}
	return sw, ne
}
