// Package loader turns program names into images. An image is a YAML
// manifest, stored on any afs location, describing the program's segments,
// its initial priority and the name of the registered Go entry point that
// plays the role of its code.
package loader
