// Package kit keeps each registered starter kit's shared clone in sync with
// its remote. The Engine checks a clone out at either the latest release on
// the default branch or an explicit tag; the Manager ties the Engine to the
// registry for add, develop, global update, and remove.
package kit
