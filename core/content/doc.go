// Package content resolves the plain-text summary stored alongside each synced item.
//
// A Resolver fetches the item's detail page through a Fetcher (the LMS client) and
// hands the body to an Extractor. The default HTMLExtractor walks the parsed tree
// with golang.org/x/net/html. The result is truncated to MaxSummaryLength characters.
// Summary never fails: any problem yields an empty summary.
package content
