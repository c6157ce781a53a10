// Package mm provides the address-space collaborator used by the scheduling
// core: page-granular user mappings backed by a bounded frame allocator.
//
// Only what the core consumes is modelled: conflict checks, framed area
// insertion and removal, recycling on exit and the address-space token.
package mm
