package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	perrors "github.com/p-blackswan/zanatactl/internal/errors"
	"github.com/p-blackswan/zanatactl/internal/metrics"
	"github.com/p-blackswan/zanatactl/internal/requestid"
	"github.com/p-blackswan/zanatactl/internal/zanata"
)

// Result is what a successful invocation reports back to the caller.
type Result struct {
	Changed bool        `json:"changed"`
	Msg     string      `json:"msg,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type handler func(ctx context.Context, c *zanata.Client, p Params) (*Result, error)

var handlers = map[Operation]handler{
	CreateProject: createProject,
	CreateVersion: createVersion,
	Detail:        detail,
	Modify:        modify,
	Stats:         stats,
	Config:        config,
}

// Dispatcher runs one operation per call.
type Dispatcher struct {
	clientOpts []zanata.Option
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClientOptions passes options through to every zanata.Client created.
func WithClientOptions(opts ...zanata.Option) Option {
	return func(d *Dispatcher) { d.clientOpts = append(d.clientOpts, opts...) }
}

// WithMetrics records every run on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: logger.With().Str("component", "dispatcher").Logger()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Run validates p for op, performs the single API call and frames the result.
// Validation failures return before any network activity.
func (d *Dispatcher) Run(ctx context.Context, op Operation, p Params) (*Result, error) {
	start := time.Now()

	id, ok := requestid.Lookup(ctx)
	if !ok {
		ctx, id = requestid.New(ctx)
	}
	log := d.logger.With().Str("request_id", id).Str("operation", string(op)).Logger()

	res, err := d.run(ctx, op, p)
	elapsed := time.Since(start)
	if err != nil {
		kind := perrors.Kind(err)
		if d.metrics != nil {
			d.metrics.RecordFailure(string(op), kind, elapsed)
		}
		log.Error().Err(err).Str("kind", kind).Int("status", perrors.StatusCode(err)).
			Dur("elapsed", elapsed).Msg("operation failed")
		return nil, err
	}

	if d.metrics != nil {
		d.metrics.RecordSuccess(string(op), elapsed)
	}
	log.Info().Bool("changed", res.Changed).Dur("elapsed", elapsed).Msg("operation completed")
	return res, nil
}

func (d *Dispatcher) run(ctx context.Context, op Operation, p Params) (*Result, error) {
	if err := Validate(op, p); err != nil {
		return nil, err
	}
	h, ok := handlers[op]
	if !ok {
		_, err := ParseOperation(string(op))
		return nil, err
	}

	client := zanata.NewClient(NormalizeBaseURL(p.URL), d.logger, d.clientOpts...)
	res, err := h(ctx, client, p)
	if err != nil {
		return nil, perrors.Unexpected(err)
	}
	return res, nil
}

func project(p Params) zanata.Project {
	return zanata.Project{
		Name:        p.ProjectName,
		ID:          p.ProjectID,
		Description: p.Description,
		Type:        zanata.ProjectType(p.Type),
	}
}

// changed frames a mutating reply. A success status other than the expected
// one carries the decoded body instead of a message.
func changed(reply *zanata.Reply, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	if reply.Message != "" {
		return &Result{Changed: true, Msg: reply.Message}, nil
	}
	return &Result{Changed: true, Data: reply.Data}, nil
}

func createProject(ctx context.Context, c *zanata.Client, p Params) (*Result, error) {
	return changed(c.CreateProject(ctx, p.Credentials(), project(p)))
}

func modify(ctx context.Context, c *zanata.Client, p Params) (*Result, error) {
	return changed(c.ModifyProject(ctx, p.Credentials(), project(p)))
}

func createVersion(ctx context.Context, c *zanata.Client, p Params) (*Result, error) {
	return changed(c.CreateVersion(ctx, p.Credentials(), p.ProjectID, p.Version))
}

func detail(ctx context.Context, c *zanata.Client, p Params) (*Result, error) {
	data, err := c.GetProject(ctx, p.ProjectID)
	if err != nil {
		return nil, err
	}
	return &Result{Data: data}, nil
}

func stats(ctx context.Context, c *zanata.Client, p Params) (*Result, error) {
	data, err := c.GetStats(ctx, p.ProjectID, p.Version)
	if err != nil {
		return nil, err
	}
	return &Result{Data: data}, nil
}

func config(ctx context.Context, c *zanata.Client, p Params) (*Result, error) {
	data, err := c.GetConfig(ctx, p.ProjectID, p.Version)
	if err != nil {
		return nil, err
	}
	return &Result{Data: data}, nil
}
