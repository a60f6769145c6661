// Package websocket pushes drone state to browser observers.
//
// A central Hub owns every connection. Clients subscribe to one session with
// GET /ws?session=<id> and receive a message after each move or reset on
// that session:
//
//	{"session_id": "ab12", "event": "state_update", "state": {...}}
//
// Clients never send commands over the socket; moves go through the REST API
// or MCP tools, which then call BroadcastToSession.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
