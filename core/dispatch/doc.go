// Package dispatch turns typed handler functions into an http.Handler:
// requests are routed through the template table, their inputs extracted
// and validated, the handler executed, and its result encoded, with one
// structured summary line per request.
//
// An API is assembled at startup around a shared application value and
// built into an immutable Dispatcher. Every registration defect, from a
// malformed template to a misordered extractor list, surfaces at Build,
// never at request time.
//
// # Building an API
//
//	type App struct {
//		Articles *ArticleStore
//	}
//
//	api := dispatch.New(app,
//		dispatch.WithLogger[*App](log),
//		dispatch.WithConfig[*App](cfg),
//	)
//
//	api.Get("/articles", dispatch.Handler1(listArticles))
//	api.Get("/articles/{slug}", dispatch.Handler1(showArticle))
//	api.Post("/articles", dispatch.Handler1(createArticle),
//		dispatch.WithOperation("article_create"),
//		dispatch.WithMaxBodyBytes(1<<20))
//
//	d, err := api.Build()
//	if err != nil {
//		return err
//	}
//	http.ListenAndServe(":8080", d)
//
// # Handlers
//
// A handler takes the request context plus up to three extractor values
// and returns a result with an error. Extractors declare what the
// endpoint reads from the request; the pipeline populates them before the
// handler runs, so a handler body never parses anything itself:
//
//	type articlePath struct {
//		Slug string `path:"slug"`
//	}
//
//	type articleInput struct {
//		Title string `json:"title"`
//		Body  string `json:"body"`
//	}
//
//	func showArticle(ctx *dispatch.Context[*App], p extract.Path[articlePath]) (Article, error) {
//		return ctx.App().Articles.BySlug(ctx, p.Value.Slug)
//	}
//
//	func createArticle(ctx *dispatch.Context[*App], in extract.TypedBody[articleInput]) (Article, error) {
//		return ctx.App().Articles.Create(ctx, in.Value.Title, in.Value.Body)
//	}
//
// The result is encoded by core/response: plain values marshal as JSON
// with status 200, a response.Response runs as-is, and returned errors
// map to their HTTP status, with anything unrecognized becoming an opaque
// 500.
//
// # Websocket Endpoints
//
// Channel constructors register websocket endpoints. The handshake is
// validated inside the extractor pipeline, after the declared extractors,
// so a bad subscription request is rejected with a regular HTTP error
// before the connection is upgraded:
//
//	api.Get("/feed", dispatch.Channel1(streamFeed))
//
//	func streamFeed(ctx *dispatch.Context[*App], q extract.Query[feedQuery], conn *websocket.Conn) error {
//		for item := range ctx.App().Feed.Subscribe(ctx, q.Value.Topic) {
//			if err := conn.WriteJSON(item); err != nil {
//				return err
//			}
//		}
//		return nil
//	}
//
// # Request Lifecycle
//
// Each request passes through routing, extraction, handling, and
// response encoding. Failures exit early with the matching status: 400
// for undecodable paths, bad version headers, and extraction failures,
// 404 and 405 from routing, 413 when the body ceiling trips, and the
// error's own status from a handler. A request whose client has gone away
// is abandoned without any response. The summary line carries the request
// id, method, path, matched template, status, final stage, per-stage
// timings, and total latency.
package dispatch
