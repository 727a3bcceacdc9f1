// Package template defines the template engine seam used by page renderers.
// The gotemplate subpackage implements it on top of pongo2.
package template
