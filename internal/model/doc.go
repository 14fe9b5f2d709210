// Package model holds the typed entity graph produced by assembly.
//
// A RootModel maps capture dates, in ascending order, to an Entry holding
// one Scene, its Metadata and the flat list of retained roots. Tree topology
// is fixed once assembly finishes; only geometry coordinates may change
// afterwards, through Geometry.Scale and Geometry.Transform.
//
// Parent and plant links are plain pointers. They are back-references and
// do not imply ownership: a Root is owned by its parent's child list, or by
// its plant's root list when it is first order.
package model
