// Package document loads RSML files into an element tree.
//
// Loading is all-or-nothing: a missing path yields an *Error wrapping
// rootmodel.ErrNotFound and any XML syntax problem (or an empty document)
// yields one wrapping rootmodel.ErrMalformedDocument. The element tree keeps
// parent links, which the extraction engine relies on to compute root order
// and to tell direct children from deeper descendants.
package document
