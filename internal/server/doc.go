// Package server implements the HTTP surface of the upload service: health
// and readiness probes, single and multi-file upload, file listing, and the
// middleware around them (request IDs, access logs, CORS, API-key guard,
// metrics). Storage is delegated to an injected store.Store.
package server
