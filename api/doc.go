// Package api provides the HTTP REST API of the drone simulator.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classroom"}, optional)
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Drone Operations:
//   - GET /api/sessions/{id}/state - Current drone state
//   - POST /api/sessions/{id}/move - {"direction": "up"} or {"dx": 1, "dy": 0, "dz": 0}
//   - POST /api/sessions/{id}/reset - Return the drone to the origin
//   - GET /api/sessions/{id}/cells/{x}/{y} - Obstacle lookup for one cell
//   - GET /api/commands - The six directional commands and their deltas
//
// Configuration:
//   - GET /api/configs - List obstacle layouts
//   - GET /api/configs/{name} - Get one layout
//
// A move into an obstacle is not an error. It returns 200 with
// "accepted": false and the collision message.
//
// Errors are returned as JSON with an HTTP status code:
//
//	{"error": "session not found: ab12"}
//
// Unknown sessions and layouts map to 404, malformed bodies and unknown
// directions to 400, anything else to 500.
package api
