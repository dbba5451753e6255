// Package userdata resolves the on-disk layout under ~/.steamer/: the
// starterkits directory that holds every kit's shared clone and the registry
// document that indexes them.
package userdata
