// Package handler is the HTTP layer, the first entry point for
// business logic after the router.
//
// Handlers parse requests, validate input through the validation
// package, call the appropriate service, and write the response. They
// are the interface between HTTP and the core business logic, and
// should stay thin.
package handler
