// Package service provides the business logic layer for the drone simulator.
//
// The service package implements:
//   - Session-per-client drone management
//   - Layout lookup through a ConfigManager
//   - Move and reset orchestration over engine.Simulator
//
// Core Interfaces:
//
// DroneService is the main service interface used by the HTTP, WebSocket and
// MCP transports. SessionManager stores sessions; ConfigManager resolves
// obstacle layouts.
//
// Every session owns exactly one drone. Commands on a session run under the
// service mutex, so each one completes before the next starts and no state is
// shared between sessions.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	svc := service.NewDroneService(sessionMgr, configMgr)
//
//	info, err := svc.CreateSession(ctx, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.MoveDirection(ctx, info.ID, "right")
package service
