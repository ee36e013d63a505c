// Package httputil provides HTTP helpers for the generator client.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only for
// errors the caller marked as transient with [Retryable]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err) // network failure
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp) // 429 and 5xx are retryable
//	})
//
// The delay doubles after each failure. Cancelling ctx aborts the wait
// between attempts.
//
// # Status Errors
//
// [CheckResponse] turns a non-2xx response into a [*StatusError] carrying
// the status code and the start of the body, so callers can report what
// the upstream service said.
package httputil
