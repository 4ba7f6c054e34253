package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"
)

// Place is the server's name for a slot the viewer can act on.
type Place string

const (
	PlaceDeck  Place = "deck"
	PlaceTable Place = "table"
	PlaceHeld  Place = "held"

	handPlacePrefix = "hand_"
)

// HandPlace returns hand_<index>.
func HandPlace(index int) Place {
	return Place(handPlacePrefix + strconv.Itoa(index))
}

// HandIndex returns the index of a hand_<n> place.
func (p Place) HandIndex() (int, bool) {
	s := string(p)
	if !strings.HasPrefix(s, handPlacePrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(s[len(handPlacePrefix):])
	if err != nil || i < 0 || i >= HandSize {
		return 0, false
	}
	return i, true
}

func (p Place) IsValid() bool {
	switch p {
	case PlaceDeck, PlaceTable, PlaceHeld:
		return true
	}
	_, ok := p.HandIndex()
	return ok
}

// PlaceSet is the playable-slot set declared by the server.
type PlaceSet struct {
	set mapset.Set
}

func NewPlaceSet(places ...Place) PlaceSet {
	set := mapset.NewThreadUnsafeSet()
	for _, p := range places {
		set.Add(p)
	}
	return PlaceSet{set: set}
}

func (s PlaceSet) Contains(p Place) bool {
	if s.set == nil {
		return false
	}
	return s.set.Contains(p)
}

func (s PlaceSet) Len() int {
	if s.set == nil {
		return 0
	}
	return s.set.Cardinality()
}

// Places returns the members in a stable order.
func (s PlaceSet) Places() []Place {
	if s.set == nil {
		return nil
	}
	places := make([]Place, 0, s.set.Cardinality())
	for _, v := range s.set.ToSlice() {
		places = append(places, v.(Place))
	}
	sort.Slice(places, func(i, j int) bool { return places[i] < places[j] })
	return places
}

func (s PlaceSet) String() string {
	return fmt.Sprintf("%v", s.Places())
}
