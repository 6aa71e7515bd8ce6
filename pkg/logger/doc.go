// Package logger builds *slog.Logger values from functional options and
// provides attribute helpers so every component logs tracking data under the
// same keys.
//
// # Usage
//
//	log := logger.New(logger.WithEnvironment(os.Getenv("ENV"), "pagetrack"))
//	log.Info("event sent",
//	    logger.SessionID(sess.ID),
//	    logger.EventType("PAGE_VIEW"),
//	)
//
// Presets (WithDevelopment, WithStaging, WithProduction) set level, format and
// the service/env attributes. Later options override earlier ones, so
// WithOutput or WithLevel may follow a preset.
//
// # Context values
//
// WithContextValue and WithContextExtractors wrap the handler in a
// LogHandlerDecorator which copies values from the context passed to the
// *Context logging methods into each record:
//
//	log := logger.New(logger.WithContextValue("run_id", runIDKey{}))
//	log.InfoContext(ctx, "started")
//
// # Error Handling
//
// Error returns an empty attribute for a nil error, so it can be passed
// unconditionally:
//
//	log.Debug("content fetched", logger.Error(err))
package logger
