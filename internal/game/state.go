package game

// State is a complete snapshot pushed by the server. A new snapshot always
// replaces the previous one; nothing is merged.
type State struct {
	ID            int64      `json:"id"`
	Status        Status     `json:"status"`
	Turn          int        `json:"turn"`
	Deck          []CardName `json:"deck,omitempty"`
	TableCards    []CardName `json:"table_cards"`
	Players       []Player   `json:"players"`
	PlayerID      *int64     `json:"player_id,omitempty"`
	PlayableCards []Place    `json:"playable_cards"`
}

// FindPlayer looks a player up by id.
func (s *State) FindPlayer(playerID int64) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return &s.Players[i], true
		}
	}
	return nil, false
}

// Viewer returns the local player, if this client is seated.
func (s *State) Viewer() (*Player, bool) {
	if s.PlayerID == nil {
		return nil, false
	}
	return s.FindPlayer(*s.PlayerID)
}

// ViewerID returns the local player id. Spectators get false.
func (s *State) ViewerID() (int64, bool) {
	if s.PlayerID == nil {
		return 0, false
	}
	return *s.PlayerID, true
}

func (s *State) IsViewer(playerID int64) bool {
	return s.PlayerID != nil && *s.PlayerID == playerID
}

// Playable returns the playable-slot set of this snapshot.
func (s *State) Playable() PlaceSet {
	return NewPlaceSet(s.PlayableCards...)
}

// TableCard returns the pile card at index i (0 is the top).
func (s *State) TableCard(i int) (CardName, bool) {
	if i < 0 || i >= len(s.TableCards) {
		return "", false
	}
	return s.TableCards[i], true
}

// Validate checks the snapshot for internal consistency.
func (s *State) Validate() error {
	if !s.Status.IsValid() {
		return protocolErrorf("game %d: unknown status %q", s.ID, s.Status)
	}
	if len(s.TableCards) > MaxTableCards {
		return protocolErrorf("game %d: table pile has %d cards", s.ID, len(s.TableCards))
	}
	for _, c := range s.TableCards {
		if !c.IsValid() {
			return protocolErrorf("game %d: invalid table card %q", s.ID, c)
		}
	}
	seats := make(map[Position]int64)
	ids := make(map[int64]bool)
	for i := range s.Players {
		p := &s.Players[i]
		if ids[p.ID] {
			return protocolErrorf("game %d: duplicate player %d", s.ID, p.ID)
		}
		ids[p.ID] = true
		if !p.Position.IsValid() {
			return protocolErrorf("game %d: player %d has unknown position %q", s.ID, p.ID, p.Position)
		}
		if other, taken := seats[p.Position]; taken {
			return protocolErrorf("game %d: players %d and %d share seat %s", s.ID, other, p.ID, p.Position)
		}
		seats[p.Position] = p.ID
		if len(p.Hand) > HandSize {
			return protocolErrorf("game %d: player %d holds %d cards", s.ID, p.ID, len(p.Hand))
		}
		for j, c := range p.Hand {
			if !c.Name.IsValid() {
				return protocolErrorf("game %d: player %d hand_%d has invalid card %q", s.ID, p.ID, j, c.Name)
			}
		}
		if p.HeldCard != nil && !p.HeldCard.IsValid() {
			return protocolErrorf("game %d: player %d holds invalid card %q", s.ID, p.ID, *p.HeldCard)
		}
	}
	for _, place := range s.PlayableCards {
		if !place.IsValid() {
			return protocolErrorf("game %d: unknown playable place %q", s.ID, place)
		}
	}
	if s.PlayerID != nil && len(s.Players) > 0 && !ids[*s.PlayerID] && s.Status != StatusInit {
		return protocolErrorf("game %d: viewer %d is not seated", s.ID, *s.PlayerID)
	}
	return nil
}
