// Package fetch is an asynchronous HTTP client layer. Callers describe a
// request declaratively as a [Task] (target, method, query, headers and a
// body [encode.Encoder]), pick how the response is interpreted with a
// [decode.Decoder], and receive a typed [Result] on a delivery
// [dispatch.Executor].
//
//	task := fetch.Request("https://api.example.com/users",
//		fetch.WithQuery(wire.Params{{Name: "page", Value: wire.Value("2")}}),
//	)
//	fetch.Fetch(ctx, task, decode.JSON[[]User](), func(res fetch.Result[[]User], resp *wire.Response) {
//		users, err := res.Get()
//		...
//	})
//
// # Execution
//
// Every operation returns immediately. The final request is built on a
// background executor in a fixed order: the query is merged into the
// target, the body encoder runs, then the decoder adapts headers. A body
// encoding failure is reported as [ErrEncode] without any network
// activity. The built request is handed to the client's [session.Session]
// and the outcome is delivered to the handler exactly once, through the
// delivery executor chosen with [On], [WithDelivery] or, by default,
// [dispatch.Main].
//
// Operations do not support cancellation; the context passed in carries
// values such as the trace parent only.
package fetch

import "net/http"

// HTTP methods, re-exported for building tasks without importing net/http.
const (
	MethodGet     = http.MethodGet
	MethodHead    = http.MethodHead
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodPatch   = http.MethodPatch
	MethodDelete  = http.MethodDelete
	MethodOptions = http.MethodOptions
)
