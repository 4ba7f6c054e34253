// Package assets provides the card textures.
package assets

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"voyager.com/golfclient/internal/game"
)

// ErrMissingAsset is returned when a card texture is not in the bundle.
var ErrMissingAsset = errors.New("missing asset")

// IsMissingAsset reports whether err was caused by ErrMissingAsset.
func IsMissingAsset(err error) bool {
	return errors.Cause(err) == ErrMissingAsset
}

// Texture is the art for one card name.
type Texture struct {
	Name  game.CardName
	Image image.Image
}

// Size returns the pixel size of the source image.
func (t *Texture) Size() (int, int) {
	if t == nil || t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Bundle is a set of card textures. Load must complete before Texture is used.
type Bundle interface {
	Load(ctx context.Context) error
	Texture(name game.CardName) (*Texture, error)
}

// CardNames lists every texture a bundle must provide: the card back followed
// by the 52 faces.
func CardNames() []game.CardName {
	names := make([]game.CardName, 0, 1+len(game.Ranks)*len(game.Suits))
	names = append(names, game.DownCard)
	for i := 0; i < len(game.Ranks); i++ {
		for j := 0; j < len(game.Suits); j++ {
			names = append(names, game.CardName([]byte{game.Ranks[i], game.Suits[j]}))
		}
	}
	return names
}

func missing(name game.CardName) error {
	return errors.Wrapf(ErrMissingAsset, "No texture for card %q", name)
}
