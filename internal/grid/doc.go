// Package grid implements the paged grid component.
//
// A Grid is bound to a render.Container. It loads one page of records through a
// source.Source, renders every record through the item renderer, appends the
// pager strip and replaces the container content in one write. Clicks on pager
// links are delivered to HandleClick, which changes page.
//
// Loads may overlap. Each load takes a sequence number and only the latest
// issued load may write state or markup; older responses are dropped with
// ErrSuperseded.
package grid
