// Package extract turns raw HTTP requests into the typed values handlers
// declare. Each extractor pulls one slice of the request (query string,
// path parameters, headers, or the body) into a struct, with sanitization
// and a byte ceiling applied along the way.
//
// # Extractor Kinds
//
// Extractors come in two kinds. Shared extractors read request metadata
// only and can be combined freely: Query, Path, Header. Exclusive
// extractors consume the request body or take over the connection:
// TypedBody, UntypedBody, StreamingBody, Form, WebsocketUpgrade. An
// endpoint may declare at most one exclusive extractor, and it must come
// last. ValidateOrder enforces this at registration time, and the
// single-take body enforces it again at runtime: the second taker fails
// with ErrBodyConsumed.
//
// # Usage
//
// Extractors populate themselves from a Source, the per-request view built
// by the dispatcher:
//
//	type ListParams struct {
//		Page  int      `query:"page"`
//		Limit int      `query:"limit"`
//		Tags  []string `query:"tags"`
//	}
//
//	src := extract.NewSource(r, match.Params, extract.DefaultBodyLimit)
//
//	var q extract.Query[ListParams]
//	if err := q.Extract(r.Context(), src); err != nil {
//		// every failure wraps extract.ErrExtraction
//	}
//	// q.Value is populated from the query string
//
// Body extractors draw from the same source, so at most one of them can
// succeed per request:
//
//	var body extract.TypedBody[CreateUserRequest]
//	if err := body.Extract(r.Context(), src); err != nil {
//		if errors.Is(err, extract.ErrPayloadTooLarge) {
//			// 413, the ceiling tripped before buffering the excess
//		}
//	}
//
// # Body Ceiling
//
// Source wraps the body with a byte ceiling (DefaultBodyLimit unless the
// endpoint overrides it). A declared Content-Length above the ceiling fails
// immediately; chunked bodies fail as soon as the ceiling is crossed
// mid-read. A body of exactly the limit is fine.
//
// # Sanitization
//
// Every string bound from a request is scrubbed of NUL bytes, CR/LF, and
// non-printable control characters to block header and log injection.
// Uploaded filenames are reduced to their base name to block path
// traversal.
package extract
