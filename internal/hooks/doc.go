// Package hooks provides the explicit extension-point registry the host
// dispatches through.
//
// A Registry maps each extension Point to the ordered list of handlers
// registered against it. Filters transform a worker command token list and
// are chained in registration order; actions observe the loaded
// configuration. Plugins contribute their handlers and configuration
// defaults through Install.
package hooks
