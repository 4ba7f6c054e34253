package assets

import (
	"context"
	"image/png"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
)

const defaultCacheSize = 64

// DirBundle reads card faces from <dir>/<name>.png. Decoded images are kept in
// an LRU cache.
type DirBundle struct {
	dir    string
	cache  *lru.Cache
	paths  map[game.CardName]string
	logger *zerolog.Logger
}

func NewDirBundle(dir string, cacheSize int) (*DirBundle, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	c, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize texture cache")
	}
	return &DirBundle{
		dir:    dir,
		cache:  c,
		logger: logging.GetZeroLogger("assets::DirBundle", nil),
	}, nil
}

// Load decodes every card face once, so a missing or corrupt file fails the
// load instead of a later frame.
func (b *DirBundle) Load(ctx context.Context) error {
	paths := make(map[game.CardName]string)
	var decoded []*Texture
	for _, name := range CardNames() {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "Texture load interrupted")
		}
		path := filepath.Join(b.dir, string(name)+".png")
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return missing(name)
		}
		t, err := decode(name, path)
		if err != nil {
			return err
		}
		paths[name] = path
		decoded = append(decoded, t)
	}
	for _, t := range decoded {
		b.cache.Add(t.Name, t)
	}
	b.paths = paths
	b.logger.Debug().Str("dir", b.dir).Int("cards", len(paths)).Msg("Card textures loaded")
	return nil
}

func (b *DirBundle) Texture(name game.CardName) (*Texture, error) {
	if v, ok := b.cache.Get(name); ok {
		return v.(*Texture), nil
	}
	path, ok := b.paths[name]
	if !ok {
		return nil, missing(name)
	}
	t, err := decode(name, path)
	if err != nil {
		return nil, err
	}
	b.cache.Add(name, t)
	return t, nil
}

func decode(name game.CardName, path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingAsset, "Unable to open %s: %s", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingAsset, "Unable to decode %s: %s", path, err)
	}
	return &Texture{Name: name, Image: img}, nil
}
