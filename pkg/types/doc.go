// Package types defines the layout model, the Registry and Catalog interfaces,
// definition records, configuration, and the standard errors shared by every
// typelayout package.
//
// A type is described by three LayoutInfo values, one per layout policy:
// unpacked (natural alignment, declaration order), packed (no padding), and
// optimized (members reordered to minimize padding).
package types
