// Package canvas is a read-only client for the Canvas LMS REST API.
//
// Listings are paginated with a Link response header; FetchAll follows the
// rel="next" target until it disappears and returns the concatenated items in
// page order. A failure on any page aborts the walk and returns no partial
// result, so callers never persist an incomplete course or assignment list.
//
// # Usage
//
//	client := canvas.NewClient(cfg.Canvas1, httpx.NewClient(30*time.Second), httpx.Once(), logger)
//	courses, err := client.ListCourses(ctx)
package canvas
