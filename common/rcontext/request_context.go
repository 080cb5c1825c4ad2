package rcontext

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/config"
)

func Initial() RequestContext {
	return Wrap(context.Background())
}

// Wrap attaches the active configuration and a fresh logger to an existing context.
func Wrap(ctx context.Context) RequestContext {
	return RequestContext{
		Context: ctx,
		Log:     logrus.WithFields(logrus.Fields{"nocontext": true}),
		Config:  *config.Get(),
	}.populate()
}

type RequestContext struct {
	context.Context

	// These are also stored on the context object itself
	Log    *logrus.Entry      // nodes.logger
	Config config.NodesConfig // nodes.config
}

func (c RequestContext) populate() RequestContext {
	c.Context = context.WithValue(c.Context, common.ContextLogger, c.Log)
	c.Context = context.WithValue(c.Context, common.ContextConfig, c.Config)
	return c
}

func (c RequestContext) ReplaceLogger(log *logrus.Entry) RequestContext {
	ctx := context.WithValue(c.Context, common.ContextLogger, log)
	return RequestContext{
		Context: ctx,
		Log:     log,
		Config:  c.Config,
	}
}

func (c RequestContext) LogWithFields(fields logrus.Fields) RequestContext {
	return c.ReplaceLogger(c.Log.WithFields(fields))
}

// WithContext swaps the underlying context (deadlines, cancellation) keeping the logger and config.
func (c RequestContext) WithContext(ctx context.Context) RequestContext {
	return RequestContext{
		Context: ctx,
		Log:     c.Log,
		Config:  c.Config,
	}.populate()
}
