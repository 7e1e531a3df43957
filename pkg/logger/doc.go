// Package logger builds the *slog.Logger every telegraph component logs
// through.
//
// New assembles a text or JSON handler from options, wraps it in a
// LogHandlerDecorator that runs context extractors on each record, and
// returns the logger. NewFromConfig does the same from a Config loaded out
// of the environment (APP_ENV, APP_NAME, LOG_LEVEL, LOG_FORMAT):
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	log, err := logger.NewFromConfig(cfg, logger.WithOutput(os.Stderr))
//
// Environment presets pick level and format in one go. Development logs
// text at debug level, staging and production log JSON at info level. Each
// preset tags records with service and env. Options given after a preset
// override it.
//
// The attribute helpers in attr.go fix the keys used across the engine:
// machine, state, from, to, transition, goal, event, run_id, source,
// component. RunID, Error and Errors return an empty attribute for empty
// input so they can be passed unconditionally:
//
//	log.InfoContext(ctx, "transition taken",
//		logger.Transition("dial"),
//		logger.From("idle"),
//		logger.To("dialing"),
//	)
//
// Discard returns a logger whose handler is never enabled. Packages that
// take an optional *slog.Logger fall back to it.
package logger
