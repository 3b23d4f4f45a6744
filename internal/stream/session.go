package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cariantohs/mexc-data/internal/connection"
)

// State is the session lifecycle position.
type State string

const (
	StateConnecting State = "connecting"
	StateSubscribed State = "subscribed"
	StateActive     State = "active"
	StateClosing    State = "closing"
	StateClosed     State = "closed"
)

// Config holds session settings.
type Config struct {
	Symbol       string
	RunDuration  time.Duration // wall-clock session length
	PingInterval time.Duration // heartbeat spacing
	DepthLimit   int           // levels for sub.depth.full (5, 10 or 20)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RunDuration:  3 * time.Minute,
		PingInterval: 15 * time.Second,
		DepthLimit:   20,
	}
}

// Stats counts what the session saw.
type Stats struct {
	Received  int64
	Routed    int64
	Malformed int64
	Unknown   int64
	PingsSent int64
}

// Session is one single-shot live capture over a WebSocket connection. It
// never reconnects; a failed connection ends the session and reconnection is
// the caller's call.
type Session struct {
	cfg    Config
	conn   connection.Client
	sinks  SinkSet
	logger *slog.Logger
	id     uuid.UUID

	mu    sync.Mutex
	state State
	stats Stats
}

// New creates a session over an unconnected client.
func New(cfg Config, conn connection.Client, sinks SinkSet, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultConfig().PingInterval
	}
	if cfg.DepthLimit <= 0 {
		cfg.DepthLimit = DefaultConfig().DepthLimit
	}
	id := uuid.New()
	return &Session{
		cfg:    cfg,
		conn:   conn,
		sinks:  sinks,
		logger: logger.With("session_id", id.String(), "symbol", cfg.Symbol),
		id:     id,
		state:  StateConnecting,
	}
}

// ID returns the session's capture-run identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a snapshot of message counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run connects, subscribes, and captures until the run duration elapses, the
// context is cancelled, or the connection fails. It always leaves the session
// in StateClosed. The returned error is nil when the session ended on its own
// timer, ctx.Err() on external cancellation, and the transport error when the
// connection died.
func (s *Session) Run(ctx context.Context) error {
	if err := s.conn.Connect(ctx); err != nil {
		s.setState(StateClosed)
		return err
	}

	if err := s.subscribe(); err != nil {
		s.setState(StateClosing)
		s.conn.Close()
		s.setState(StateClosed)
		return err
	}
	s.setState(StateSubscribed)

	// Heartbeat runs until shutdown; the read loop below is this goroutine.
	hbCtx, cancelHB := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.heartbeatLoop(hbCtx)
	}()

	timer := time.NewTimer(s.cfg.RunDuration)
	defer timer.Stop()

	s.setState(StateActive)
	s.logger.Info("stream session active",
		"run_duration", s.cfg.RunDuration,
		"ping_interval", s.cfg.PingInterval,
		"depth_limit", s.cfg.DepthLimit,
	)

	var cause error
loop:
	for {
		select {
		case <-ctx.Done():
			cause = ctx.Err()
			s.logger.Info("stream session cancelled")
			break loop
		case <-timer.C:
			s.logger.Info("stream session duration elapsed")
			break loop
		case err := <-s.conn.Errors():
			cause = err
			s.logger.Warn("stream connection error", "error", err)
			break loop
		case msg, ok := <-s.conn.Messages():
			if !ok {
				s.logger.Info("stream connection closed")
				break loop
			}
			s.dispatch(msg.Data)
		}
	}

	s.setState(StateClosing)
	cancelHB()
	s.conn.Close()
	wg.Wait()
	s.setState(StateClosed)

	st := s.Stats()
	s.logger.Info("stream session closed",
		"received", st.Received,
		"routed", st.Routed,
		"malformed", st.Malformed,
		"unknown", st.Unknown,
		"pings_sent", st.PingsSent,
	)

	return cause
}

// subscribe sends one fire-and-forget subscription per channel of interest.
// Server acks arrive later on the read loop and are dropped there.
func (s *Session) subscribe() error {
	sym := symbolParam{Symbol: s.cfg.Symbol}
	cmds := []command{
		{Method: "sub.ticker", Param: sym},
		{Method: "sub.deal", Param: sym},
		{Method: "sub.depth.full", Param: depthParam{Symbol: s.cfg.Symbol, Limit: s.cfg.DepthLimit}},
		{Method: "sub.index.price", Param: sym},
		{Method: "sub.fair.price", Param: sym},
		{Method: "sub.funding.rate", Param: sym},
	}

	for _, cmd := range cmds {
		data, err := json.Marshal(cmd)
		if err != nil {
			return err
		}
		if err := s.conn.Send(data); err != nil {
			return err
		}
		s.logger.Debug("subscribed", "method", cmd.Method)
	}
	return nil
}

// heartbeatLoop sends the application-level ping every PingInterval until
// cancelled.
func (s *Session) heartbeatLoop(ctx context.Context) {
	ping, _ := json.Marshal(command{Method: "ping"})

	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.conn.Send(ping); err != nil {
				s.logger.Debug("failed to send ping", "error", err)
				continue
			}
			s.mu.Lock()
			s.stats.PingsSent++
			s.mu.Unlock()
		}
	}
}

// dispatch decodes one inbound frame and routes it to its channel's sink.
// Malformed frames and unrecognized channels are dropped without ending the
// session.
func (s *Session) dispatch(data []byte) {
	s.mu.Lock()
	s.stats.Received++
	s.mu.Unlock()

	var msg PushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.dropMalformed("envelope", err)
		return
	}

	ts := msg.Ts
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	sym := msg.Symbol
	if sym == "" {
		sym = s.cfg.Symbol
	}

	var appendErr error
	switch msg.Channel {
	case ChannelDeal:
		var d DealData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			s.dropMalformed(msg.Channel, err)
			return
		}
		appendErr = s.sinks.AppendDeal(ts, sym, d)
	case ChannelDepth:
		var d DepthData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			s.dropMalformed(msg.Channel, err)
			return
		}
		appendErr = s.sinks.AppendDepth(ts, sym, d)
	case ChannelTicker:
		var t TickerData
		if err := json.Unmarshal(msg.Data, &t); err != nil {
			s.dropMalformed(msg.Channel, err)
			return
		}
		appendErr = s.sinks.AppendTicker(ts, sym, t)
	case ChannelIndexPrice:
		var p PriceData
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			s.dropMalformed(msg.Channel, err)
			return
		}
		appendErr = s.sinks.AppendIndexPrice(ts, sym, p)
	case ChannelFairPrice:
		var p PriceData
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			s.dropMalformed(msg.Channel, err)
			return
		}
		appendErr = s.sinks.AppendFairPrice(ts, sym, p)
	case ChannelFundingRate:
		var r RateData
		if err := json.Unmarshal(msg.Data, &r); err != nil {
			s.dropMalformed(msg.Channel, err)
			return
		}
		appendErr = s.sinks.AppendFundingRate(ts, sym, r)
	case ChannelPong:
		return
	default:
		// Subscription acks (rs.*) and channels added server-side later.
		if !strings.HasPrefix(msg.Channel, "rs.") {
			s.mu.Lock()
			s.stats.Unknown++
			s.mu.Unlock()
		}
		return
	}

	if appendErr != nil {
		s.logger.Warn("sink append failed", "channel", msg.Channel, "error", appendErr)
		return
	}

	s.mu.Lock()
	s.stats.Routed++
	s.mu.Unlock()
}

func (s *Session) dropMalformed(where string, err error) {
	s.mu.Lock()
	s.stats.Malformed++
	s.mu.Unlock()
	s.logger.Warn("dropping malformed message", "channel", where, "error", err)
}
