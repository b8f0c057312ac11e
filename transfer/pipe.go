package transfer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/arloliu/bytecol/column"
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/internal/options"
)

// DefaultCapacity is the number of forms a pipe buffers by default.
const DefaultCapacity = 1

// Config holds pipe settings.
type Config struct {
	capacity    int
	framing     bool
	compression format.CompressionType
	logger      *zap.Logger
}

// Option configures a Pipe.
type Option = options.Option[*Config]

// WithCapacity sets how many forms may be queued before Send blocks.
func WithCapacity(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: pipe capacity %d", errs.ErrInvalidOption, n)
		}
		c.capacity = n

		return nil
	})
}

// WithFraming queues forms as frames compressed with compression.
func WithFraming(compression format.CompressionType) Option {
	return options.NoError(func(c *Config) {
		c.framing = true
		c.compression = compression
	})
}

// WithLogger sets the logger for transfer diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

type message struct {
	form  column.SerializedForm
	frame []byte
}

// Pipe is a bounded queue of serialized columns. It is safe for concurrent
// use by any number of senders and receivers.
type Pipe struct {
	cfg       *Config
	ch        chan message
	closed    chan struct{}
	closeOnce sync.Once
	frameOpts []column.FrameOption
}

// NewPipe creates an open pipe.
func NewPipe(opts ...Option) (*Pipe, error) {
	cfg := &Config{
		capacity:    DefaultCapacity,
		compression: format.CompressionNone,
		logger:      zap.NewNop(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	p := &Pipe{
		cfg:    cfg,
		ch:     make(chan message, cfg.capacity),
		closed: make(chan struct{}),
	}
	if cfg.framing {
		p.frameOpts = []column.FrameOption{column.WithCompression(cfg.compression)}
	}

	return p, nil
}

// Send queues form and clears it. It blocks while the pipe is full.
//
// Sending a form that was already sent (or was never filled) fails with
// errs.ErrFormMoved. On any error the form is left untouched.
func (p *Pipe) Send(ctx context.Context, form *column.SerializedForm) error {
	if form == nil || !form.Strategy.IsValid() {
		return errs.ErrFormMoved
	}

	select {
	case <-p.closed:
		return errs.ErrPipeClosed
	default:
	}

	msg, err := p.encode(form)
	if err != nil {
		return err
	}

	select {
	case p.ch <- msg:
	case <-p.closed:
		return errs.ErrPipeClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	p.cfg.logger.Debug("form sent",
		zap.Uint32("rows", form.Length),
		zap.Stringer("strategy", form.Strategy),
		zap.Int("frame_bytes", len(msg.frame)),
	)
	*form = column.SerializedForm{}

	return nil
}

func (p *Pipe) encode(form *column.SerializedForm) (message, error) {
	if !p.cfg.framing {
		return message{form: *form}, nil
	}

	frame, err := column.MarshalForm(form, p.frameOpts...)
	if err != nil {
		return message{}, fmt.Errorf("marshal frame: %w", err)
	}

	return message{frame: frame}, nil
}

// Receive returns the next queued form. After Close it drains the queue and
// then fails with errs.ErrPipeClosed.
func (p *Pipe) Receive(ctx context.Context) (column.SerializedForm, error) {
	select {
	case msg := <-p.ch:
		return p.decode(msg)
	case <-ctx.Done():
		return column.SerializedForm{}, ctx.Err()
	case <-p.closed:
	}

	select {
	case msg := <-p.ch:
		return p.decode(msg)
	default:
		return column.SerializedForm{}, errs.ErrPipeClosed
	}
}

func (p *Pipe) decode(msg message) (column.SerializedForm, error) {
	if msg.frame == nil {
		return msg.form, nil
	}

	form, err := column.UnmarshalForm(msg.frame)
	if err != nil {
		return column.SerializedForm{}, fmt.Errorf("unmarshal frame: %w", err)
	}

	return form, nil
}

// Close stops further sends. Queued forms can still be received. Close is
// idempotent.
func (p *Pipe) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		p.cfg.logger.Debug("pipe closed", zap.Int("queued", len(p.ch)))
	})
}

// Len returns the number of queued forms.
func (p *Pipe) Len() int {
	return len(p.ch)
}
