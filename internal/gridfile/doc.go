// Package gridfile loads declarative task-grid definitions into a
// format-agnostic model. Grids can be written in HCL (with a vars block and
// expression interpolation) or in plain YAML; the loader picks the parser by
// file extension and merges every grid file it finds.
package gridfile
