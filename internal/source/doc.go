// Package source fetches one page of grid records.
//
// Source[T] is the fetch abstraction the grid depends on. HTTPSource[T] is the
// stock implementation: it sends iDisplayStart (zero-based offset) and
// iDisplayLength (page size) as a query string for GET or a form body for POST,
// and accepts either a bare JSON array of records or {"data": [...], "total": N}.
//
// HTTPSource optionally retries transient failures with exponential backoff,
// rate-limits outbound requests, and trips a circuit breaker when the endpoint
// keeps failing.
package source
