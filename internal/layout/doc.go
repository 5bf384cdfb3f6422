// Package layout computes the unpacked, packed and optimized memory layouts of
// atomic, aggregate and variant types from their members' layouts.
//
// Composition is bottom-up: a composite consumes the already computed
// layouts of its members under the matching policy and never looks further
// down the type graph.
//
// Two rules differ from common ABIs and are kept deliberately. An aggregate
// reports the alignment of its first placed member rather than the maximum
// over its members, and no trailing padding follows the last member.
package layout
