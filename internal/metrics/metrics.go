// Package metrics exposes Prometheus metrics for dashboard rendering and the
// snapshot feed.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"astraguard-console/internal/orbit"
)

// Render surfaces.
const (
	SurfaceTUI = "tui"
	SurfaceWeb = "web"
	SurfaceSVG = "svg"
)

// Collector bundles the dashboard metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	FramesRendered   *prometheus.CounterVec
	AnomaliesDropped prometheus.Gauge
	AnomalyMarkers   prometheus.Gauge
	Satellites       prometheus.Gauge
	Selections       prometheus.Counter
	FeedUpdates      prometheus.Counter
	FeedConnected    prometheus.Gauge
}

// NewCollector registers the dashboard metrics against reg, defaulting to
// the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_frames_rendered_total",
		Help: "Orbit map frames rendered, labeled by surface.",
	}, []string{"surface"}), "dashboard_frames_rendered_total")
	if err != nil {
		return nil, err
	}
	dropped, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_anomalies_dropped",
		Help: "Anomalies considered for markers in the last frame whose satellite reference did not resolve.",
	}), "dashboard_anomalies_dropped")
	if err != nil {
		return nil, err
	}
	markers, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_anomaly_markers",
		Help: "Anomaly markers drawn in the last frame.",
	}), "dashboard_anomaly_markers")
	if err != nil {
		return nil, err
	}
	sats, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_satellites",
		Help: "Satellites in the current mission snapshot.",
	}), "dashboard_satellites")
	if err != nil {
		return nil, err
	}
	selections, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_selections_total",
		Help: "Satellite selections raised from the orbit map.",
	}), "dashboard_selections_total")
	if err != nil {
		return nil, err
	}
	updates, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_feed_updates_total",
		Help: "Mission state snapshots applied from the feed.",
	}), "dashboard_feed_updates_total")
	if err != nil {
		return nil, err
	}
	connected, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_feed_connected",
		Help: "1 while the snapshot feed is connected.",
	}), "dashboard_feed_connected")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		FramesRendered:   frames,
		AnomaliesDropped: dropped,
		AnomalyMarkers:   markers,
		Satellites:       sats,
		Selections:       selections,
		FeedUpdates:      updates,
		FeedConnected:    connected,
	}, nil
}

// ObserveFrame records one rendered frame.
func (c *Collector) ObserveFrame(surface string, f orbit.Frame) {
	if c == nil {
		return
	}
	c.FramesRendered.WithLabelValues(surface).Inc()
	c.AnomaliesDropped.Set(float64(f.DroppedAnomalies))
	c.AnomalyMarkers.Set(float64(len(f.Anomalies)))
}

// ObserveUpdate records an applied snapshot.
func (c *Collector) ObserveUpdate(satellites int) {
	if c == nil {
		return
	}
	c.FeedUpdates.Inc()
	c.Satellites.Set(float64(satellites))
}

// ObserveSelection records a selection.
func (c *Collector) ObserveSelection() {
	if c == nil {
		return
	}
	c.Selections.Inc()
}

// SetConnected records the feed connectivity flag.
func (c *Collector) SetConnected(connected bool) {
	if c == nil {
		return
	}
	if connected {
		c.FeedConnected.Set(1)
		return
	}
	c.FeedConnected.Set(0)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
