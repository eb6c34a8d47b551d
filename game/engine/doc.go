// Package engine provides the core puzzle logic for the sliding-tile game.
//
// The engine package implements the puzzle mechanics including:
//   - The grid model mapping positions to tile identities and back
//   - Run-slide move validation across chains of blank cells
//   - Shuffling (uniform permutation or parity-safe random walk)
//   - Tile selection and move counting
//   - Win detection gated on blank tiles being home
//
// Core Types:
//
// Grid holds the geometry and the live arrangement, with an inverse index
// and a cached set of blank positions. GameEngine is the session object that
// owns a Grid together with its Selection and Tracker and exposes the
// operations consumed by the service layer. GameState is the JSON snapshot
// handed to transports.
//
// Usage:
//
//	gameEngine, err := engine.Initialize(4, 4, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Shuffle()
//
//	// Select the tile at position 11, then slide it into position 15
//	gameEngine.Activate(11)
//	result, err := gameEngine.Activate(15)
//
// Puzzle Rules:
//
// A non-blank tile may move into a blank position when both lie on the same
// row or column and every cell between them is blank as well. With a single
// blank this is the classic 15-puzzle rule. The puzzle is solved when every
// tile occupies the position equal to its identity.
package engine
