// Package mcp exposes the drone simulator to AI agents over the Model
// Context Protocol.
//
// Client registers MCP tools that proxy every call to the REST API, so an
// agent drives exactly the same sessions a browser observes:
//   - create_session, list_sessions, get_session
//   - drone_state, move, move_delta, reset_drone
//   - describe_cell, list_configs, simulator_instructions
//
// Transport Modes:
//   - Stdio: ServeStdio for local MCP clients
//   - HTTP: Client implements http.Handler for POST /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", "1.0.0")
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
