// Package render turns records and pager windows into markup.
//
// Item renderers map one record to an HTML fragment; TemplateItem builds one
// from an html/template so record fields are escaped. HTMLPager renders a
// pagination.Window with the fixed class scheme grid stylesheets target:
// pager, pager-prev, pager-next, pager-item, pager-dot, active, pager-disable.
// Containers receive the finished markup in a single write.
package render
