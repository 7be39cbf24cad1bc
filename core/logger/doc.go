// Package logger builds slog loggers and provides the attribute helpers
// shared across the module. Keeping attribute construction in one place
// keeps log keys consistent between the dispatcher, the server, and
// application code.
//
// # Construction
//
// New assembles a logger from functional options. Environment presets cover
// the common setups:
//
//	// Development: text format, debug level, stdout.
//	log := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level, stdout.
//	log := logger.New(logger.WithProduction("myapp"))
//
//	// Custom combination.
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithOutput(os.Stderr),
//		logger.WithAttr(slog.String("service", "api")),
//	)
//
// Tests capture output by pointing the logger at a buffer:
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//
// # Context Attributes
//
// Extractors pull request-scoped values out of the context when logging
// through the Context variants:
//
//	log := logger.New(
//		logger.WithProduction("myapp"),
//		logger.WithContextValue("request_id", requestIDKey),
//	)
//
//	log.InfoContext(ctx, "processing request")
//	// emits request_id when ctx carries a value under requestIDKey
//
// # Nil Safety
//
// Helpers return an empty slog.Attr for nil or empty inputs, so call sites
// never need conditional logging:
//
//	log.Info("request completed",
//		logger.RequestID(id),       // omitted when id == ""
//		logger.Error(err),          // omitted when err == nil
//	)
//
// # Request Logging
//
// The dispatcher emits one line per request built from these helpers:
//
//	log.Info("request completed",
//		logger.RequestID(id),
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Template("/projects/{project_id}"),
//		logger.Status(200),
//		logger.Stage("completed"),
//		logger.Duration("handle", handleTime),
//		logger.Latency(total),
//	)
//
// # Component Logging
//
// Longer-lived components tag their lines with Component:
//
//	log.Info("server started",
//		logger.Component("server"),
//		slog.String("addr", addr),
//	)
package logger
