package table

import (
	"voyager.com/golfclient/internal/affordance"
	"voyager.com/golfclient/internal/game"
)

// SpriteView describes one bound sprite for debugging.
type SpriteView struct {
	Slot        string        `json:"slot"`
	Card        game.CardName `json:"card"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Rotation    float64       `json:"rotation"`
	Z           int           `json:"z"`
	Visible     bool          `json:"visible"`
	Interactive bool          `json:"interactive"`
	Moving      bool          `json:"moving"`
	Owner       *int64        `json:"owner,omitempty"`
}

// TimelineView describes the last deal timeline.
type TimelineView struct {
	Name    string   `json:"name"`
	Steps   []string `json:"steps"`
	Started bool     `json:"started"`
	Done    bool     `json:"done"`
}

// BoardView is a debug dump of the table.
type BoardView struct {
	GameID       int64         `json:"game_id"`
	Status       game.Status   `json:"status"`
	State        string        `json:"state"`
	Error        string        `json:"error,omitempty"`
	Viewer       *int64        `json:"viewer,omitempty"`
	Playable     []game.Place  `json:"playable"`
	Interactive  []string      `json:"interactive"`
	Sprites      []SpriteView  `json:"sprites"`
	Abandoned    int           `json:"abandoned"`
	ActiveTweens int           `json:"active_tweens"`
	DealChains   int           `json:"deal_chains"`
	Deal         *TimelineView `json:"deal,omitempty"`
	Ticks        uint64        `json:"ticks"`
}

// Board dumps the table. It must run on the render loop.
func (c *Context) Board() BoardView {
	v := BoardView{
		GameID:       c.state.ID,
		Status:       c.state.Status,
		State:        c.sm.Current(),
		Viewer:       c.state.PlayerID,
		Playable:     c.state.Playable().Places(),
		Abandoned:    len(c.reg.Unbound()),
		ActiveTweens: c.sched.Active(),
		DealChains:   c.dealChains,
		Ticks:        c.loop.Ticks(),
	}
	if c.deal != nil {
		v.Deal = &TimelineView{
			Name:    c.deal.Name(),
			Steps:   c.deal.Steps(),
			Started: c.deal.Started(),
			Done:    c.deal.Done(),
		}
	}
	if c.failure != nil {
		v.Error = c.failure.Error()
	}
	for _, key := range affordance.Interactive(c.reg) {
		v.Interactive = append(v.Interactive, key.String())
	}
	for _, key := range c.reg.Keys() {
		s, _ := c.reg.Get(key)
		sv := SpriteView{
			Slot:        key.String(),
			X:           s.X,
			Y:           s.Y,
			Rotation:    s.Rotation,
			Z:           s.Z,
			Visible:     s.Visible,
			Interactive: s.Interactive,
			Moving:      c.sched.Busy(s),
		}
		if s.Texture != nil {
			sv.Card = s.Texture.Name
		}
		if s.Owned {
			owner := s.Owner
			sv.Owner = &owner
		}
		v.Sprites = append(v.Sprites, sv)
	}
	return v
}
