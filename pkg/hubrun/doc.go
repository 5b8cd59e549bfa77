// Package hubrun provides the public types shared by the hubrun runner: the
// client configuration, the transport-facing Logger interface, the response
// and result shapes produced by the paginated request pipeline, and the error
// taxonomy for failed API exchanges.
//
// # Overview
//
// The concrete request pipeline lives in internal/http and consumes the types
// defined here. A logical API call produces a Result: the ordered list of raw
// responses received while following pagination, plus one aggregated payload.
// Failed exchanges surface as either a *RequestError (response obtained, body
// not structured) or a *StructuredError (response obtained, body carried a
// GitHub-style error document). Connection-level failures are returned as
// plain wrapped errors; no structured classification is possible for them.
//
// # Classification
//
//	resp, err := client.Get(ctx, "/repos/o/r/labels", nil)
//	if err != nil {
//		var structured *hubrun.StructuredError
//		if errors.As(err, &structured) {
//			fmt.Print(structured.Render())
//		}
//	}
//
// Classification never retries and never reads a response body twice: the
// transport buffers the body before handing it to Classify.
package hubrun
