// Package mcp exposes the puzzle to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API and the JSON answer is rendered as text an agent can read.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state: grid rows, move count, selection and its legal targets
//   - activate: one click on a position
//   - bulk_activate: several clicks in order
//   - shuffle, reset
//   - move_history: paginated attempts, rejected slides included
//   - list_configs, game_instructions
//   - describe_tile: label, home position, asset and slide targets of one position
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
