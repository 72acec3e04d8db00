// Package handlers provides HTTP request handlers for the gifmill API.
//
// It includes handlers for:
//   - Health, liveness, and readiness checks
//   - Converter status and journal statistics
//   - Triggering conversion cycles on demand
//   - Version and build information
package handlers
