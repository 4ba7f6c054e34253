package game

// Action is the tag of a GameEvent on the wire.
type Action string

const (
	ActionFlip          Action = "flip"
	ActionTakeFromDeck  Action = "take_from_deck"
	ActionTakeFromTable Action = "take_from_table"
	ActionSwap          Action = "swap"
	ActionDiscard       Action = "discard"
)

// GameEvent is one game action as the server sends it.
type GameEvent struct {
	GameID    int64  `json:"game_id"`
	PlayerID  int64  `json:"player_id"`
	Action    Action `json:"action"`
	HandIndex *int   `json:"hand_index"`
}

// Move is the typed form of a GameEvent. The set of implementations is closed:
// Flip, TakeFromDeck, TakeFromTable, Swap and Discard.
type Move interface {
	Actor() int64
	Action() Action
	isMove()
}

type Flip struct {
	PlayerID  int64
	HandIndex int
}

type TakeFromDeck struct {
	PlayerID int64
}

type TakeFromTable struct {
	PlayerID int64
}

type Swap struct {
	PlayerID  int64
	HandIndex int
}

type Discard struct {
	PlayerID int64
}

func (m Flip) Actor() int64          { return m.PlayerID }
func (m TakeFromDeck) Actor() int64  { return m.PlayerID }
func (m TakeFromTable) Actor() int64 { return m.PlayerID }
func (m Swap) Actor() int64          { return m.PlayerID }
func (m Discard) Actor() int64       { return m.PlayerID }

func (Flip) Action() Action          { return ActionFlip }
func (TakeFromDeck) Action() Action  { return ActionTakeFromDeck }
func (TakeFromTable) Action() Action { return ActionTakeFromTable }
func (Swap) Action() Action          { return ActionSwap }
func (Discard) Action() Action       { return ActionDiscard }

func (Flip) isMove()          {}
func (TakeFromDeck) isMove()  {}
func (TakeFromTable) isMove() {}
func (Swap) isMove()          {}
func (Discard) isMove()       {}

// Move converts the wire event into its typed form. flip and swap need a hand
// index in range; the other actions must not carry one.
func (e *GameEvent) Move() (Move, error) {
	switch e.Action {
	case ActionFlip, ActionSwap:
		if e.HandIndex == nil {
			return nil, protocolErrorf("%s by player %d has no hand_index", e.Action, e.PlayerID)
		}
		idx := *e.HandIndex
		if idx < 0 || idx >= HandSize {
			return nil, protocolErrorf("%s by player %d has hand_index %d", e.Action, e.PlayerID, idx)
		}
		if e.Action == ActionFlip {
			return Flip{PlayerID: e.PlayerID, HandIndex: idx}, nil
		}
		return Swap{PlayerID: e.PlayerID, HandIndex: idx}, nil
	case ActionTakeFromDeck, ActionTakeFromTable, ActionDiscard:
		if e.HandIndex != nil {
			return nil, protocolErrorf("%s by player %d carries hand_index %d", e.Action, e.PlayerID, *e.HandIndex)
		}
		switch e.Action {
		case ActionTakeFromDeck:
			return TakeFromDeck{PlayerID: e.PlayerID}, nil
		case ActionTakeFromTable:
			return TakeFromTable{PlayerID: e.PlayerID}, nil
		default:
			return Discard{PlayerID: e.PlayerID}, nil
		}
	}
	return nil, protocolErrorf("unknown action %q from player %d", e.Action, e.PlayerID)
}
