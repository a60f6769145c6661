package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/drone-sim/game/engine"
	"github.com/wricardo/drone-sim/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string, version string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer(version)
	return c
}

const serverInstructions = `Drone Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Each session owns one drone on an integer (x, y, z) grid. Six desks sit in the
x-y plane; a move whose target cell lies inside a desk is rejected and logged
as "Collision detected! Cannot move." Height (z) never affects collisions.

AVAILABLE TOOLS:
- create_session: Start a new drone session (optional config_id)
- list_sessions / get_session: Inspect sessions
- drone_state: Position, last five log lines, 3x3 local view
- move: One step up/down/left/right/forward/backward
- move_delta: Arbitrary (dx, dy, dz) jump; only the target cell is checked
- reset_drone: Back to (0, 0, 0), no collision check
- describe_cell: Which desk, if any, covers (x, y)
- list_configs: Available obstacle layouts
- simulator_instructions: Full rules`

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer(version string) {
	c.mcpServer = server.NewMCPServer(
		"Drone Simulator",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(serverInstructions),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new drone session with optional layout selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Layout id from list_configs (optional, defaults to classroom)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active drone sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Drone operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "drone_state",
		Description: "Get the current drone position, activity log and local view",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleDroneState)

	directions := make([]string, 0, len(engine.Directions))
	for _, d := range engine.Directions {
		directions = append(directions, string(d))
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the drone one step in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directions,
					"description": "up/down change y, left/right change x, forward/backward change z",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_delta",
		Description: "Move the drone by an arbitrary offset. Only the destination cell is collision checked.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"dx":         map[string]interface{}{"type": "integer", "description": "Offset along x"},
				"dy":         map[string]interface{}{"type": "integer", "description": "Offset along y"},
				"dz":         map[string]interface{}{"type": "integer", "description": "Offset along z"},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveDelta)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_drone",
		Description: "Return the drone to (0, 0, 0)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Report whether a desk covers the x-y cell and which one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x":          map[string]interface{}{"type": "integer", "description": "X coordinate"},
				"y":          map[string]interface{}{"type": "integer", "description": "Y coordinate"},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available obstacle layouts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulator_instructions",
		Description: "Get the simulator rules and command reference",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves the MCP tools over stdin/stdout until EOF
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// ServeHTTP handles a single JSON-RPC message posted to /mcp
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)
	if response == nil {
		// Notifications have no response
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
	}
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads an integer argument. JSON numbers arrive as float64 and must
// be whole; present is false when the key is absent.
func intArg(args map[string]interface{}, key string) (value int, present bool, err error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, true, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, true, fmt.Errorf("%s must be a whole number, got %s", key, v)
		}
		return int(n), true, nil
	}
	return 0, true, fmt.Errorf("%s must be an integer, got %T", key, raw)
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := stringArg(request.GetArguments(), "config_id"); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLayout: %s\n\n%s",
		session.ID, session.ConfigID, formatDroneState(session.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		pos := engine.Position{}
		if s.State != nil {
			pos = s.State.Position
		}
		fmt.Fprintf(&b, "- %s (Layout: %s, Position: %s, Created: %s)\n",
			s.ID, s.ConfigID, formatPosition(pos), s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDroneState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var state engine.DroneState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatDroneState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	direction := stringArg(args, "direction")

	var result service.MoveResult
	body := map[string]string{"direction": direction}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleMoveDelta(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")

	body := map[string]int{}
	for _, key := range []string{"dx", "dy", "dz"} {
		v, present, err := intArg(args, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if present {
			body[key] = v
		}
	}
	if len(body) == 0 {
		return mcp.NewToolResultError("at least one of dx, dy, dz is required"), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var response service.ResetResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatDroneState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	x, okX, err := intArg(args, "x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, okY, err := intArg(args, "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var cell service.CellInfo
	path := sessionPath(sessionID, fmt.Sprintf("/cells/%d/%d", x, y))
	if err := c.apiCall(ctx, "GET", path, nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellInfo(&cell)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Layouts:\n\n")
	for _, cfg := range configs {
		origin := "clear"
		if !cfg.OriginClear {
			origin = "covered by a desk"
		}
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Obstacles: %d, covered cells: %d, origin: %s\n\n",
			cfg.ConfigID, cfg.Name, cfg.Description, cfg.Obstacles, cfg.CoveredCells, origin)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var commands []service.CommandInfo
	if err := c.apiCall(ctx, "GET", "/api/commands", nil, &commands); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(`Drone Simulator - Rules

WORLD:
• The drone sits on an integer grid at (x, y, z) and starts at (0, 0, 0)
• Desks are rectangles in the x-y plane covering [x, x+width) × [y, y+height)
• z is height and never takes part in collisions

MOVING:
• A move computes target = position + (dx, dy, dz)
• If the target's (x, y) lies inside any desk, the move is rejected,
  the drone stays put and the log reads "Collision detected! Cannot move."
• Otherwise the drone moves and the log reads "Moved to (x, y, z)"
• Only the target is checked; large jumps can pass over desks

RESET:
• reset_drone returns to (0, 0, 0) and logs "Drone reset to initial position."
• Reset is never collision checked. In the classroom layout the origin lies
  inside the desk at (-2, -1), so only right and up lead out of it.

LOG:
• The five most recent messages, newest first

COMMANDS:
`)
	for _, cmd := range commands {
		fmt.Fprintf(&b, "• %-8s (%d, %d, %d)\n", cmd.Name, cmd.Delta.DX, cmd.Delta.DY, cmd.Delta.DZ)
	}

	return mcp.NewToolResultText(b.String()), nil
}

// Formatters

func formatPosition(p engine.Position) string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLayout: %s\nCreated: %s\nLast access: %s\n\n%s",
		session.ID, session.ConfigID,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339),
		formatDroneState(session.State))
}

func formatDroneState(state *engine.DroneState) string {
	if state == nil {
		return "No state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Position: %s\n", formatPosition(state.Position))
	if state.LayoutName != "" {
		fmt.Fprintf(&b, "Layout: %s (%d obstacles)\n", state.LayoutName, len(state.Obstacles))
	}
	fmt.Fprintf(&b, "Commands: %d (moved %d, collisions %d, resets %d)\n",
		state.TotalCommands, state.MovesAccepted, state.Collisions, state.Resets)

	if len(state.LocalView3x3) > 0 {
		b.WriteString("\nLocal view (D=drone, #=desk, .=free; up is +y):\n")
		for _, row := range state.LocalView3x3 {
			b.WriteString("  " + row + "\n")
		}
	}

	b.WriteString("\nLog (newest first):\n")
	if len(state.Log) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, line := range state.Log {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Accepted {
		fmt.Fprintf(&b, "✓ %s\n", result.Message)
		if result.Stationary {
			b.WriteString("(zero offset, hovering in place)\n")
		}
	} else {
		fmt.Fprintf(&b, "✗ %s\n", result.Message)
		fmt.Fprintf(&b, "Attempted: %s\n", formatPosition(result.Attempted))
		if result.BlockedBy != nil {
			o := result.BlockedBy.Obstacle
			fmt.Fprintf(&b, "Blocked by %s #%d at (%d, %d) size %dx%d\n",
				o.Type, result.BlockedBy.Index+1, o.X, o.Y, o.Width, o.Height)
		}
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Open directions: %s\n", strings.Join(result.PossibleMoves, ", "))
	}
	b.WriteString("\n")
	b.WriteString(formatDroneState(result.State))
	return b.String()
}

func formatCellInfo(cell *service.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d, %d): ", cell.X, cell.Y)
	if cell.Obstacle != nil {
		o := cell.Obstacle.Obstacle
		fmt.Fprintf(&b, "blocked by %s #%d at (%d, %d) size %dx%d",
			o.Type, cell.Obstacle.Index+1, o.X, o.Y, o.Width, o.Height)
	} else {
		b.WriteString("free")
	}
	if cell.Drone {
		b.WriteString(" (drone is here)")
	}
	b.WriteString("\n")
	return b.String()
}
