package game

// Inbound message types.
const (
	MsgGameLoaded   string = "game_loaded"
	MsgGameStarted  string = "game_started"
	MsgPlayerJoined string = "player_joined"
	MsgGameEvent    string = "game_event"
)

// Outbound action names.
const (
	ActionHandClick  string = "hand_click"
	ActionDeckClick  string = "deck_click"
	ActionTableClick string = "table_click"
	ActionHeldClick  string = "held_click"
)

// ServerMessage is one message pushed by the server. Every message carries a
// fresh snapshot.
type ServerMessage interface {
	Type() string
	Snapshot() *State
	isServerMessage()
}

// GameLoaded is the initial mount signal. Received again later it means the
// client must rebuild the table from scratch.
type GameLoaded struct {
	Game State `json:"game"`
}

// GameStarted begins the deal.
type GameStarted struct {
	Game State `json:"game"`
}

type PlayerJoined struct {
	Game     State `json:"game"`
	PlayerID int64 `json:"player_id"`
}

type GameEventMessage struct {
	Game  State     `json:"game"`
	Event GameEvent `json:"event"`
}

func (m *GameLoaded) Type() string       { return MsgGameLoaded }
func (m *GameStarted) Type() string      { return MsgGameStarted }
func (m *PlayerJoined) Type() string     { return MsgPlayerJoined }
func (m *GameEventMessage) Type() string { return MsgGameEvent }

func (m *GameLoaded) Snapshot() *State       { return &m.Game }
func (m *GameStarted) Snapshot() *State      { return &m.Game }
func (m *PlayerJoined) Snapshot() *State     { return &m.Game }
func (m *GameEventMessage) Snapshot() *State { return &m.Game }

func (*GameLoaded) isServerMessage()       {}
func (*GameStarted) isServerMessage()      {}
func (*PlayerJoined) isServerMessage()     {}
func (*GameEventMessage) isServerMessage() {}

// ClientAction is a gesture sent back to the server.
type ClientAction interface {
	Name() string
	Actor() int64
	isClientAction()
}

type HandClick struct {
	PlayerID  int64 `json:"player_id"`
	HandIndex int   `json:"hand_index"`
}

type DeckClick struct {
	PlayerID int64 `json:"player_id"`
}

type TableClick struct {
	PlayerID int64 `json:"player_id"`
}

type HeldClick struct {
	PlayerID int64 `json:"player_id"`
}

func (HandClick) Name() string  { return ActionHandClick }
func (DeckClick) Name() string  { return ActionDeckClick }
func (TableClick) Name() string { return ActionTableClick }
func (HeldClick) Name() string  { return ActionHeldClick }

func (a HandClick) Actor() int64  { return a.PlayerID }
func (a DeckClick) Actor() int64  { return a.PlayerID }
func (a TableClick) Actor() int64 { return a.PlayerID }
func (a HeldClick) Actor() int64  { return a.PlayerID }

func (HandClick) isClientAction()  {}
func (DeckClick) isClientAction()  {}
func (TableClick) isClientAction() {}
func (HeldClick) isClientAction()  {}
