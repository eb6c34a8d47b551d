// Package service provides the business logic layer for the sliding puzzle server.
//
// The service package implements:
//   - Multi-session puzzle management
//   - Configuration loading through a ConfigManager
//   - Tile activation, bulk activation, shuffle and reset
//   - Paginated move history
//
// Core Interfaces:
//
// GameService is the main service interface used by the HTTP, WebSocket and
// MCP transports. SessionManager stores sessions and ConfigManager loads
// puzzle configurations.
//
// Architecture:
//
// The service layer sits between the transports and the engine. Each session
// owns its own engine.GameEngine; the service serializes access to engines
// with a single read/write mutex, since engines are not safe for concurrent use.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Select the tile at position 14, then slide it into the blank at 15
//	_, _ = gameService.Activate(ctx, info.ID, 14, false)
//	result, err := gameService.Activate(ctx, info.ID, 15, false)
//
// Events:
//
// Every activation reports GameEvents: "select", "move", "blocked", and
// "solved" when a move completes the puzzle. Shuffles report "shuffled".
package service
