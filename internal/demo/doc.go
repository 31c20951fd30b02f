// Package demo serves a generated record set in the grid endpoint format.
//
// Records live in SQLite through gorm. The repository pages them with
// offset/limit queries and counts matches, which is exactly what an endpoint
// answering iDisplayStart/iDisplayLength requests needs.
package demo
