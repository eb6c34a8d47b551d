// Package api provides the HTTP REST API of the sliding-tile puzzle server.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                    create a shuffled session ({"config_id": "classic"})
//   - GET    /api/sessions                    list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified            several sessions at once (?sessionIds=a,b or ?configName=)
//   - GET    /api/sessions/{id}               session info with state and config
//   - DELETE /api/sessions/{id}               delete a session
//
// Puzzle:
//   - GET  /api/sessions/{id}/state          current grid snapshot
//   - POST /api/sessions/{id}/activate       {"index": 14, "shuffle": false}
//   - POST /api/sessions/{id}/bulk-activate  {"indices": [14, 15, 11], "shuffle": false}
//   - POST /api/sessions/{id}/shuffle        rearrange the tiles and reset the move count
//   - POST /api/sessions/{id}/reset          restore the solved arrangement
//   - GET  /api/sessions/{id}/history        ?page=&limit=&order=asc|desc
//
// Configuration:
//   - GET  /api/configs                      list loadable configs
//   - GET  /api/configs/{name}               one config
//   - POST /api/configs                      validate and save a config
//
// Other:
//   - GET /health
//   - GET /ws?session={id}                   WebSocket feed of state updates and
//     "solved" / "shuffled" events
//
// An activation is a click on a grid position. The first click on a tile
// selects it; a click on a blank in line with the selection slides the run
// of tiles. Rejected slides are reported with success=false and HTTP 200.
//
// Errors are JSON bodies of the form {"error": "..."}. Unknown sessions and
// configs give 404, out-of-range indices and invalid configs give 400.
package api
