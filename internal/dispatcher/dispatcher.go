package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/hexfront/engine/internal/command"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HandlerFunc executes one command.
type HandlerFunc func(command.Command) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
	guards []HandlerFunc
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Guarded runs guard before the handler. A guard error rejects the command
// and the handler is not called. Guards run in registration order.
func Guarded(guard HandlerFunc) Option {
	return func(c *config) {
		c.guards = append(c.guards, guard)
	}
}

// Dispatcher routes commands to the handler registered for their kind.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	processed metric.Int64Counter
	rejected  metric.Int64Counter
}

// New creates a Dispatcher. It uses the global OTel meter for metrics,
// which is a no-op unless a provider was installed.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}

	m := meter()

	var err error
	d.processed, err = m.Int64Counter(
		"engine.commands.processed",
		metric.WithDescription("Commands executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.rejected, err = m.Int64Counter(
		"engine.commands.rejected",
		metric.WithDescription("Commands rejected by a guard or handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	return d, nil
}

// Register sets the handler for a command kind, replacing any earlier one.
func (d *Dispatcher) Register(kind string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h
	if len(cfg.guards) > 0 {
		handler = withGuards(cfg.guards, handler)
	}
	if cfg.logged {
		handler = d.withLogging(kind, handler)
	}
	d.handlers[kind] = d.withMetrics(kind, handler)
}

// Dispatch routes cmd to its handler.
func (d *Dispatcher) Dispatch(cmd command.Command) error {
	h, ok := d.handlers[cmd.Kind()]
	if !ok {
		return fmt.Errorf("unknown command: %s", cmd.Kind())
	}
	return h(cmd)
}

// HasHandler reports whether a handler is registered for kind.
func (d *Dispatcher) HasHandler(kind string) bool {
	_, ok := d.handlers[kind]
	return ok
}

func withGuards(guards []HandlerFunc, h HandlerFunc) HandlerFunc {
	return func(cmd command.Command) error {
		for _, guard := range guards {
			if err := guard(cmd); err != nil {
				return err
			}
		}
		return h(cmd)
	}
}

func (d *Dispatcher) withMetrics(kind string, h HandlerFunc) HandlerFunc {
	kindAttr := metric.WithAttributes(attribute.String("command", kind))
	return func(cmd command.Command) error {
		err := h(cmd)
		if err != nil {
			d.rejected.Add(context.Background(), 1, kindAttr)
		} else {
			d.processed.Add(context.Background(), 1, kindAttr)
		}
		return err
	}
}

func (d *Dispatcher) withLogging(kind string, h HandlerFunc) HandlerFunc {
	return func(cmd command.Command) error {
		start := time.Now()
		d.logger.Debug("handling command", "command", kind)

		err := h(cmd)

		if err != nil {
			d.logger.Info("command rejected", "command", kind, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", kind, "duration", time.Since(start))
		}

		return err
	}
}
