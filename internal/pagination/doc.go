// Package pagination provides the page arithmetic shared by every grid surface.
//
// This package contains:
//   - Params: 1-based page number and page size, with offset and total-page calculation
//   - Window: the pager strip (previous, numbered links, ellipses, next) for a page
//   - Meta: summary metadata for a rendered page (has previous/next, item range)
//
// Nothing here performs I/O; the grid, the HTML pager and the terminal pager all
// render from the same Window so the surfaces cannot disagree about targets.
package pagination
