// Package websocket provides the WebSocket transport for the sliding puzzle server.
//
// The hub is the display sink for puzzle sessions: after every change the
// API pushes the new state to the clients watching that session, plus a
// "solved" event when a move completes the puzzle and a "shuffled" event
// when the tiles are rearranged.
//
// Message Protocol:
//
// Outgoing messages are JSON objects, one per frame:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "solved", "game_state": {...}, "data": {"move_count": 31, "shuffles": 1}}
//
// Incoming messages are read and discarded; they only keep the connection alive.
//
// Session Integration:
//
// Clients pick a session with the query parameter ?session=ab12 when
// connecting through the API's /ws route.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	hub.BroadcastToSession(sessionID, state)
//
// Concurrency:
//
// The client map is guarded by a mutex. Registration goes through the Run
// loop; broadcasts deliver directly and drop clients whose buffer is full.
package websocket
