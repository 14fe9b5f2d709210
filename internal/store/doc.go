// Package store exports an assembled root model to relational databases.
//
// Flatten turns the model into row sets shared by every exporter. Each
// exporter replaces the previous contents of its tables inside one
// transaction, so a failed export leaves the last good export in place.
//
// Tables:
//
//	entries     one row per dated entry (capture date + metadata)
//	roots       one row per retained root, parent_key links the hierarchy
//	points      polyline points in growth order
//	properties  scalar root properties
//	functions   function samples by position
package store
