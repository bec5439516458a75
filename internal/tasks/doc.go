// Package tasks runs catalog operations that span several requests, with progress reporting.
//
// # Core Operations
//
//  1. [Pager] : infinite scroll over a paginated endpoint
//     - Fetches the next page on demand
//     - Merges pages in order, dropping movies already seen on an earlier page
//     - Reports whether more pages exist
//
//  2. [Engine.BulkDetails] : fetch details for many movie IDs
//     - Worker pool fed by a rate limited producer
//     - Results come back in input order, failures recorded per ID
//
//  3. [Engine.Refresh] : compare stored favorites with the live catalog
//     - Looks up every favorite with [Engine.BulkDetails]
//     - Reports changed fields, movies the catalog no longer has, and lookup failures
//     - Never mutates the favorites list
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use select with
// default so a slow or absent reader never blocks the work.
package tasks
