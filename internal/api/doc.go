// Package api implements the HTTP REST API and WebSocket server for
// Reactor Core.
//
// This package provides:
//   - REST endpoints for step execution, run history, and rig control
//   - WebSocket hub for real-time telemetry and step event broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between operator tooling (lab dashboards,
// recipe orchestrators) and the hardware facade. Step commands flow
// through the runner, which owns the single-step-at-a-time rule;
// telemetry flows the other way, broadcast to subscribed WebSocket
// clients by the sampler.
//
// # Graceful Degradation
//
// The server operates without a loaded rig: run history, health and
// system status keep working, only endpoints that touch hardware
// return an error until a reload succeeds.
package api
