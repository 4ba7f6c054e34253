package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	inboundMessagesCounter   *prometheus.CounterVec
	outboundActionsCounter   *prometheus.CounterVec
	droppedActionsCounter    prometheus.Counter
	duplicateMessagesCounter prometheus.Counter
	protocolErrorsCounter    prometheus.Counter
	framesCounter            prometheus.Counter
	activeTweensGauge        prometheus.Gauge
	spritesGauge             prometheus.Gauge
}

func (m *metrics) InboundMessage(msgType string) {
	m.inboundMessagesCounter.WithLabelValues(msgType).Inc()
}

func (m *metrics) OutboundAction(action string) {
	m.outboundActionsCounter.WithLabelValues(action).Inc()
}

func (m *metrics) ActionDropped() {
	m.droppedActionsCounter.Inc()
}

func (m *metrics) DuplicateMessage() {
	m.duplicateMessagesCounter.Inc()
}

func (m *metrics) ProtocolError() {
	m.protocolErrorsCounter.Inc()
}

func (m *metrics) Frame() {
	m.framesCounter.Inc()
}

func (m *metrics) SetActiveTweens(count int) {
	m.activeTweensGauge.Set(float64(count))
}

func (m *metrics) SetSprites(count int) {
	m.spritesGauge.Set(float64(count))
}

var Metrics = &metrics{
	inboundMessagesCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golfclient_inbound_messages_total",
		Help: "Total number of server messages handled, by type",
	}, []string{"type"}),
	outboundActionsCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golfclient_outbound_actions_total",
		Help: "Total number of click actions sent, by action",
	}, []string{"action"}),
	droppedActionsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "golfclient_dropped_actions_total",
		Help: "Total number of click actions dropped by the outbox",
	}),
	duplicateMessagesCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "golfclient_duplicate_messages_total",
		Help: "Total number of repeated server messages ignored",
	}),
	protocolErrorsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "golfclient_protocol_errors_total",
		Help: "Total number of protocol violations that froze the table",
	}),
	framesCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "golfclient_frames_total",
		Help: "Total number of render loop ticks",
	}),
	activeTweensGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "golfclient_active_tweens",
		Help: "Number of pending or running tweens",
	}),
	spritesGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "golfclient_scene_sprites",
		Help: "Number of sprites in the scene graph, abandoned ones included",
	}),
}
