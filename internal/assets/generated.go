package assets

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"voyager.com/golfclient/internal/game"
)

// Placeholder card size, the source art ratio at a quarter scale.
const (
	generatedWidth  = 60
	generatedHeight = 84
)

var (
	cardFace   = color.RGBA{0xfa, 0xfa, 0xf5, 0xff}
	cardEdge   = color.RGBA{0x33, 0x33, 0x33, 0xff}
	cardBack   = color.RGBA{0x2a, 0x4d, 0x9b, 0xff}
	cardStripe = color.RGBA{0x4f, 0x74, 0xc8, 0xff}
	redInk     = color.RGBA{0xc0, 0x1c, 0x28, 0xff}
	blackInk   = color.RGBA{0x11, 0x11, 0x11, 0xff}
)

// GeneratedBundle draws plain placeholder cards with the rank and suit letters
// in the corner. It needs no files.
type GeneratedBundle struct {
	textures map[game.CardName]*Texture
}

func NewGeneratedBundle() *GeneratedBundle {
	return &GeneratedBundle{}
}

func (b *GeneratedBundle) Load(ctx context.Context) error {
	textures := make(map[game.CardName]*Texture)
	for _, name := range CardNames() {
		if err := ctx.Err(); err != nil {
			return err
		}
		textures[name] = &Texture{Name: name, Image: drawCard(name)}
	}
	b.textures = textures
	return nil
}

func (b *GeneratedBundle) Texture(name game.CardName) (*Texture, error) {
	t, ok := b.textures[name]
	if !ok {
		return nil, missing(name)
	}
	return t, nil
}

func drawCard(name game.CardName) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, generatedWidth, generatedHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{cardEdge}, image.Point{}, draw.Src)
	inner := image.Rect(1, 1, generatedWidth-1, generatedHeight-1)

	if name == game.DownCard {
		draw.Draw(img, inner, &image.Uniform{cardBack}, image.Point{}, draw.Src)
		for y := 4; y < generatedHeight-4; y += 6 {
			stripe := image.Rect(4, y, generatedWidth-4, y+2)
			draw.Draw(img, stripe, &image.Uniform{cardStripe}, image.Point{}, draw.Src)
		}
		return img
	}

	draw.Draw(img, inner, &image.Uniform{cardFace}, image.Point{}, draw.Src)
	ink := blackInk
	if suit := name[1]; suit == 'D' || suit == 'H' {
		ink = redInk
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{ink},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(5, 15),
	}
	d.DrawString(string(name))

	// repeat the label in the far corner
	d.Dot = fixed.P(generatedWidth-5-d.MeasureString(string(name)).Ceil(), generatedHeight-6)
	d.DrawString(string(name))
	return img
}
