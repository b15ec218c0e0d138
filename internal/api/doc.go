// Package api contains the HTTP handlers, request/response models, and
// error mapping for the to-do application's REST API.
package api
