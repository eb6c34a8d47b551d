package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/slide-puzzle/game/engine"
	"github.com/wricardo/slide-puzzle/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Slide Puzzle",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Slide Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Put every tile back at its home position. Positions are numbered row by row
from 0. In the grid display a tile shows its label (tile id + 1) and blanks
show as underscores.

AVAILABLE TOOLS:
- create_session: Create a shuffled puzzle session
- list_sessions / get_session: Inspect sessions
- game_state: Current grid, move count and selection
- activate: Click one position (select a tile, or slide the selected tile into a blank)
- bulk_activate: Several clicks in order
- shuffle: Rearrange the tiles and reset the move count
- reset: Restore the solved arrangement
- move_history: Past moves, including rejected slides
- list_configs: Available puzzle configurations
- game_instructions: Full rules
- describe_tile: Details about one position

NOTE: The 'intent' parameter on activate/bulk_activate serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func noArguments() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

func sessionOnly() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": sessionIDProperty(),
		},
		Required: []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new shuffled puzzle session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active puzzle sessions",
		InputSchema: noArguments(),
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnly(),
	}, c.handleGetSession)

	// Puzzle operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current puzzle state",
		InputSchema: sessionOnly(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "activate",
		Description: "Click one grid position. Clicking a tile selects it; clicking a blank in the same row or column, with only blanks in between, slides the selected tile there.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Position to activate, row * width + column",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this click (serves as a rubber duck to help explain your reasoning)",
				},
				"shuffle": map[string]interface{}{
					"type":        "boolean",
					"description": "Shuffle before activating",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleActivate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_activate",
		Description: "Click several positions in order. Stops early when the puzzle is solved.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"indices": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "integer"},
					"description": "Positions to activate, in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence (serves as a rubber duck to help explain your reasoning)",
				},
				"shuffle": map[string]interface{}{
					"type":        "boolean",
					"description": "Shuffle before activating",
				},
			},
			Required: []string{"session_id", "indices"},
		},
	}, c.handleBulkActivate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shuffle",
		Description: "Rearrange the tiles at random and reset the move count",
		InputSchema: sessionOnly(),
	}, c.handleShuffle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset",
		Description: "Restore the solved arrangement",
		InputSchema: sessionOnly(),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc, default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available puzzle configurations",
		InputSchema: noArguments(),
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the puzzle rules and tips",
		InputSchema: noArguments(),
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Describe the tile at one position: its label, home position, asset and where it can slide right now. Pass either index or row and col.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Position, row * width + column",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the position (0-based)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the position (0-based)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)
	if configID == "" {
		configID, _ = args["config_name"].(string)
	}

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.GameState != nil {
			status = fmt.Sprintf(", Moves: %d", s.GameState.MoveCount)
			if s.GameState.Solved {
				status += ", solved"
			}
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s%s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleActivate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	shuffle, _ := args["shuffle"].(bool)

	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	body := map[string]interface{}{
		"index":   index,
		"shuffle": shuffle,
	}

	var result service.MoveResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/activate"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkActivate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	shuffle, _ := args["shuffle"].(bool)
	raw, _ := args["indices"].([]interface{})

	indices := make([]int, 0, len(raw))
	for i, v := range raw {
		n, ok := intArg(map[string]interface{}{"v": v}, "v")
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("indices[%d] is not an integer", i)), nil
		}
		indices = append(indices, n)
	}

	body := map[string]interface{}{
		"indices": indices,
		"shuffle": shuffle,
	}

	var result service.BulkMoveResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/bulk-activate"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleShuffle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateAction(request, "/shuffle")
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateAction(request, "/reset")
}

// stateAction posts to an endpoint answering {"message", "state"}
func (c *Client) stateAction(request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall("POST", sessionPath(sessionID, suffix), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", strconv.Itoa(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", strconv.Itoa(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall("GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Blanks: %d, Shuffle: %s\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Width, cfg.Height, cfg.BlankCount, cfg.ShuffleMode)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Slide Puzzle - Instructions

OBJECTIVE:
Return every tile to its home position. The puzzle is solved when position i
holds tile i for every i.

THE GRID:
• Positions are numbered row by row starting at 0: index = row * width + col
• A tile is displayed by its label, tile id + 1, so tile 0 shows as 1
• Blanks are displayed as underscores. The highest tile ids are the blanks,
  which puts them in the bottom-right corner of the solved grid

CLICKING (activate):
• Idle, click a tile: the tile becomes selected
• Selected, click another tile: that tile becomes selected instead
• Selected, click a blank: the selected tile slides there if
  - the blank is in the same column, or in the same row, and
  - every cell between the tile and the blank is also blank
  A slide counts as one move no matter how far the tile travels
• A rejected slide keeps the selection so you can try another blank
• Clicking the selected tile again, or a blank with nothing selected, does nothing

MULTIPLE BLANKS:
Some configs have several blanks. A tile can cross a run of blanks in one move,
so plan moves that use the whole run.

SHUFFLE AND RESET:
• shuffle rearranges the tiles and resets the move count. The default shuffle
  mode draws a random permutation, which can produce an unsolvable puzzle on
  single-blank grids. The state reports "solvable" when it can tell
• Configs with shuffle_mode "walk" scramble by random legal moves and are always solvable
• reset restores the solved arrangement

TIPS:
• Solve the top row first, then the left column, and shrink the problem
• Use describe_tile to see where a tile belongs and where it can slide now
• bulk_activate takes pairs of clicks: [tile, blank, tile, blank, ...]
• game_state lists possible targets of the selected tile

SESSIONS:
• Every session has a 4-character ID and its own grid
• Sessions expire after a day without activity`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := session.GameState
	if state == nil || state.Width == 0 {
		return mcp.NewToolResultError("session has no puzzle state"), nil
	}

	index, ok := intArg(args, "index")
	if !ok {
		row, hasRow := intArg(args, "row")
		col, hasCol := intArg(args, "col")
		if !hasRow || !hasCol {
			return mcp.NewToolResultError("pass either index or both row and col"), nil
		}
		if col < 0 || col >= state.Width || row < 0 || row >= state.Height {
			return mcp.NewToolResultError(fmt.Sprintf("(%d, %d) is outside the %dx%d grid", row, col, state.Height, state.Width)), nil
		}
		index = row*state.Width + col
	}

	text, err := describeTile(state, session.GameConfig, index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// describeTile rebuilds the grid from a snapshot and reports on one position
func describeTile(state *engine.GameState, cfg *engine.GameConfig, index int) (string, error) {
	grid, err := engine.NewGrid(state.Width, state.Height, state.BlankCount)
	if err != nil {
		return "", err
	}
	if err := grid.Arrange(state.Tiles); err != nil {
		return "", err
	}
	if !grid.InBounds(index) {
		return "", fmt.Errorf("index %d is outside the grid (0-%d)", index, grid.CellCount()-1)
	}

	tileID := grid.TileAt(index)
	var b strings.Builder
	fmt.Fprintf(&b, "Position %d (row %d, col %d):\n", index, grid.Row(index), grid.Col(index))

	if grid.IsBlank(index) {
		b.WriteString("Blank\n")
		var sources []int
		for pos := 0; pos < grid.CellCount(); pos++ {
			if grid.IsLegalMove(pos, index) {
				sources = append(sources, pos)
			}
		}
		if len(sources) == 0 {
			b.WriteString("No tile can slide here right now\n")
		} else {
			fmt.Fprintf(&b, "Tiles that can slide here from: %s\n", joinInts(sources))
		}
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Tile: %d (id %d)\n", tileID+1, tileID)
	fmt.Fprintf(&b, "Home: position %d (row %d, col %d)\n", tileID, grid.Row(tileID), grid.Col(tileID))
	if tileID == index {
		b.WriteString("At home\n")
	}
	if cfg != nil {
		if asset := cfg.AssetFor(tileID); asset != "" {
			fmt.Fprintf(&b, "Asset: %s\n", asset)
		}
	}
	if targets := grid.LegalTargets(index); len(targets) > 0 {
		fmt.Fprintf(&b, "Can slide to: %s\n", joinInts(targets))
	} else {
		b.WriteString("Cannot move right now\n")
	}
	return b.String(), nil
}

// Formatting helpers

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Grid: %dx%d | Blanks: %d | Moves: %d | Total moves: %d | Shuffles: %d\n",
		state.Width, state.Height, state.BlankCount, state.MoveCount, state.TotalMoves, state.Shuffles)
	if state.Selected != nil {
		fmt.Fprintf(&result, "Selected: %d", *state.Selected)
		if len(state.LegalTargets) > 0 {
			fmt.Fprintf(&result, " (can slide to %s)", joinInts(state.LegalTargets))
		}
		result.WriteString("\n")
	}
	if state.Solvable != nil && !*state.Solvable {
		result.WriteString("Warning: this arrangement cannot be solved\n")
	}
	result.WriteString("\n")

	for _, row := range state.Rows {
		result.WriteString(row + "\n")
	}

	if state.Solved {
		result.WriteString("\nSOLVED!")
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatActivation(a *engine.ActivateResult) string {
	switch a.Outcome {
	case engine.OutcomeMoved:
		return fmt.Sprintf("Moved tile %d: %d→%d (moves: %d)", a.TileID+1, a.From, a.To, a.MoveCount)
	case engine.OutcomeRejected:
		return fmt.Sprintf("Rejected: tile %d at %d cannot slide to %d", a.TileID+1, a.From, a.To)
	case engine.OutcomeSelected, engine.OutcomeReselected:
		return fmt.Sprintf("Selected tile %d at %d", a.TileID+1, a.Index)
	default:
		return fmt.Sprintf("%s at %d", a.Outcome, a.Index)
	}
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Activation != nil {
		status := "✓"
		if !result.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%s %s\n", status, formatActivation(result.Activation))
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible: %s\n", joinInts(result.PossibleMoves))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)
	fmt.Fprintf(&b, "Processed %d/%d activations, %d moves (moves %d→%d)\n",
		result.Processed, result.RequestedActivations, result.MovesExecuted, result.StartMoveCount, result.EndMoveCount)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to %d activations\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on activation %d: %s\n", result.StoppedOnActivation, result.StoppedReason)
	}

	if len(result.Results) > 0 {
		b.WriteString("\nSteps:\n")
		for i := range result.Results {
			r := &result.Results[i]
			status := "✓"
			if r.Outcome == engine.OutcomeRejected {
				status = "✗"
			}
			fmt.Fprintf(&b, "%d. %s %s\n", i+1, status, formatActivation(r))
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible: %s\n", joinInts(result.PossibleMoves))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) | Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "#%d %s tile %d: %d→%d\n",
			move.MoveNumber, status, move.TileID+1, move.From, move.To)
	}

	return b.String()
}
