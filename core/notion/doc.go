// Package notion implements destination.Store with the jomei/notionapi client.
//
// Collections are database ids. Query follows next_cursor until has_more is
// false. Create adds a page under the database and Update patches a page's
// properties. Requests rejected with 429 are resent by notionapi up to the
// configured number of attempts. A non-default BaseURL redirects every request
// to that root, which is how tests and proxies reach the client.
package notion
