package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/slide-puzzle/game/engine"
)

// ErrConfigUnavailable is returned when a session asks for a config that cannot be loaded
var ErrConfigUnavailable = errors.New("config unavailable")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// configIDFor returns the config_id a session was created from. Sessions made
// outside the service fall back to a lookup by display name.
func (s *gameServiceImpl) configIDFor(sess *Session) string {
	if sess.ConfigID != "" {
		return sess.ConfigID
	}
	return s.getConfigID(sess.Config.Name)
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new puzzle session, shuffled and ready to play
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("%w: config '%s' (%v). Available configs: %v", ErrConfigUnavailable, configName, err, configIDs)
			}
			return nil, fmt.Errorf("%w: config '%s': %v", ErrConfigUnavailable, configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.Engine.Shuffle()

	configID := strings.TrimSuffix(configName, ".json")
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}
	session.ConfigID = configID

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
// It takes the write lock because touch updates the access time.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.configIDFor(session),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.configIDFor(sess),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Activate feeds one tile activation to a session, optionally shuffling first.
// An out-of-range index is rejected before anything changes, shuffle included.
func (s *gameServiceImpl) Activate(ctx context.Context, sessionID string, index int, shuffle bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Engine.Grid().InBounds(index) {
		_, err := sess.Engine.Activate(index)
		return nil, err
	}

	events := []GameEvent{}
	if shuffle {
		sess.Engine.Shuffle()
		events = append(events, shuffleEvent())
	}

	activation, err := sess.Engine.Activate(index)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	return &MoveResult{
		Success:       activation.Outcome != engine.OutcomeRejected,
		Activation:    &activation,
		GameState:     state,
		Message:       state.Message,
		Events:        append(events, activationEvents(activation, state.Message)...),
		PossibleMoves: sess.Engine.GetPossibleMoves(),
	}, nil
}

// BulkActivate feeds several activations in order. It stops early once the
// puzzle is solved or an index is out of range.
func (s *gameServiceImpl) BulkActivate(ctx context.Context, sessionID string, indices []int, shuffle bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedActivations: len(indices),
		Success:              true,
		Results:              []engine.ActivateResult{},
		Events:               []GameEvent{},
	}

	if shuffle {
		sess.Engine.Shuffle()
		result.Events = append(result.Events, shuffleEvent())
	}
	result.StartMoveCount = sess.Engine.MoveCount()

	if len(indices) > engine.MaxBulkActivations {
		result.Truncated = true
		result.Limit = engine.MaxBulkActivations
		indices = indices[:engine.MaxBulkActivations]
	}

	for i, index := range indices {
		if sess.Engine.IsSolved() && result.MovesExecuted > 0 {
			result.StoppedReason = "solved"
			result.StoppedOnActivation = i + 1
			break
		}

		activation, err := sess.Engine.Activate(index)
		if err != nil {
			result.Success = false
			result.StoppedReason = err.Error()
			result.StoppedOnActivation = i + 1
			break
		}

		result.Processed++
		result.Results = append(result.Results, activation)
		if activation.Moved {
			result.MovesExecuted++
		}
		if activation.Outcome == engine.OutcomeRejected {
			result.Success = false
		}
		result.Events = append(result.Events, activationEvents(activation, sess.Engine.GetState().Message)...)
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.EndMoveCount = state.MoveCount
	result.Solved = state.Solved
	result.Message = state.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	return result, nil
}

// Shuffle rearranges the tiles of a session and resets its move count
func (s *gameServiceImpl) Shuffle(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.Shuffle(), nil
}

// Reset puts a session back into the solved arrangement
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current puzzle state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available puzzle configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific puzzle configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a puzzle configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// touch looks a session up and refreshes its last access time
func (s *gameServiceImpl) touch(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func shuffleEvent() GameEvent {
	return GameEvent{
		Type:      EventShuffled,
		Message:   "Tiles shuffled",
		Timestamp: time.Now(),
		From:      -1,
		To:        -1,
		TileID:    -1,
	}
}

// activationEvents turns one activation into the events a client displays
func activationEvents(a engine.ActivateResult, message string) []GameEvent {
	now := time.Now()
	ev := GameEvent{Timestamp: now, From: a.From, To: a.To, TileID: a.TileID, Message: message}

	switch a.Outcome {
	case engine.OutcomeSelected, engine.OutcomeReselected:
		ev.Type = EventSelect
	case engine.OutcomeMoved:
		ev.Type = EventMove
		ev.Message = fmt.Sprintf("Tile %d slid from %d to %d", a.TileID+1, a.From, a.To)
		if a.Solved {
			return []GameEvent{ev, {
				Type:      EventSolved,
				Message:   message,
				Timestamp: now,
				From:      a.From,
				To:        a.To,
				TileID:    a.TileID,
			}}
		}
	case engine.OutcomeRejected:
		ev.Type = EventBlocked
	default:
		return nil
	}
	return []GameEvent{ev}
}
