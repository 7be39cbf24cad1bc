// Package server wraps http.Server with graceful shutdown, environment
// configuration, and production-ready timeout defaults. It hosts any
// http.Handler; in this module that is usually a built dispatch.Dispatcher.
//
// # Basic Usage
//
// Run blocks until the context is canceled:
//
//	api := dispatch.New(app)
//	api.Get("/ping", dispatch.Handler0(ping))
//	d := api.MustBuild()
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := server.Run(ctx, ":8080", d); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration
//
// Config loads from SERVER_* environment variables, and options override
// loaded values:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg,
//		server.WithLogger(log),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
// # Coordinated Shutdown
//
// Run returns an errgroup-compatible closure that stops the server when the
// group context is canceled and treats cancellation as a clean exit:
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(srv.Run(ctx, d))
//	if err := eg.Wait(); err != nil {
//		log.Fatal(err)
//	}
//
// Start and Stop remain available for callers managing the lifecycle
// directly. Start returns ctx.Err() on cancellation and
// ErrServerAlreadyRunning when called twice; Stop drains in-flight requests
// within the shutdown timeout.
//
// # TLS
//
// Certificate and key files configure TLS through the environment, or pass
// a ready config with WithTLS:
//
//	cfg := server.Config{
//		Addr:        ":8443",
//		TLSCertFile: "/etc/certs/api.pem",
//		TLSKeyFile:  "/etc/certs/api-key.pem",
//	}
//	srv, err := server.NewFromConfig(cfg)
//
// Loaded certificates enforce TLS 1.2 as the minimum version.
//
// # Defaults
//
//   - ReadTimeout: 15s
//   - WriteTimeout: 15s
//   - IdleTimeout: 60s
//   - ShutdownTimeout: 30s
//   - MaxHeaderBytes: 1 MB
//
// The write timeout caps handler duration for buffered responses. Websocket
// endpoints are unaffected once upgraded since the hijacked connection
// clears its deadlines.
package server
