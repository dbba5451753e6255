// Package manifest handles the two documents a starter kit ships: the kit
// manifest under .steamer/ (files to install, prompt questions, lifecycle
// hooks) and the kit's package.json. Kit manifests are validated against an
// embedded JSON Schema.
package manifest
