// Package httpx sends outbound requests for the LMS client.
//
// Requests are plain values so they can be sent again. Do reads the whole
// body, turns a non-2xx answer into a *StatusError and repeats the send as
// long as the Policy allows and the failure is safe to repeat: idempotent
// methods are resent on timeouts, 408 and 5xx, every method on 429.
//
//	resp, err := httpx.Do(ctx, client, httpx.Get(url, token), httpx.Attempts(3))
package httpx
