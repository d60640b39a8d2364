package assets

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/pack/cmdl"
	"github.com/mogaika/disc_patcher/pack/scan"
	"github.com/mogaika/disc_patcher/pack/strg"
	"github.com/mogaika/disc_patcher/pack/txtr"
	"github.com/mogaika/disc_patcher/resource"
)

type ScanIds struct {
	Scan resource.Id[resource.ScanEntry]
	Strg resource.Id[resource.StringTable]
}

func (ids ScanIds) Keys() []resource.Key {
	return []resource.Key{ids.Scan.Key(), ids.Strg.Key()}
}

type scanCacheKey struct {
	text      string
	title     string
	category  uint32
	important bool
}

// Synthesizer creates resources that no archive ships. Ids are allocated
// sequentially from base, so same call order gives same ids.
type Synthesizer struct {
	base      uint32
	offset    uint32
	source    resource.Table
	sourceIds map[uint32]bool
	frame     resource.Id[resource.Frame]
	scanCache map[scanCacheKey]ScanIds

	Table resource.Table
	// Order lists synthesized keys in creation order
	Order []resource.Key
}

func NewSynthesizer(base uint32, source resource.Table, frame resource.Id[resource.Frame]) *Synthesizer {
	s := &Synthesizer{
		base:      base,
		source:    source,
		sourceIds: make(map[uint32]bool, len(source)),
		frame:     frame,
		scanCache: make(map[scanCacheKey]ScanIds),
		Table:     make(resource.Table),
	}
	for key := range source {
		s.sourceIds[key.Id] = true
	}
	return s
}

// ReserveArchives marks every id shipped in archives as used, so synthesized
// resources never shadow one that was not collected
func (s *Synthesizer) ReserveArchives(archives []*pack.Archive) {
	for _, a := range archives {
		for _, r := range a.Resources {
			s.sourceIds[r.Id] = true
		}
	}
}

// Offset is count of ids consumed so far
func (s *Synthesizer) Offset() uint32 {
	return s.offset
}

// NextId reserves n sequential ids and returns the first one.
// Id already used by source resources is a programmer error.
func (s *Synthesizer) NextId(n uint32) uint32 {
	first := s.base + s.offset
	if first < s.base {
		panic(fmt.Sprintf("[assets] Synthetic id range 0x%.8x exhausted", s.base))
	}
	for i := uint32(0); i < n; i++ {
		if id := first + i; s.sourceIds[id] || id == resource.InvalidId {
			panic(fmt.Sprintf("[assets] Synthetic id 0x%.8x collides with existing resource", id))
		}
	}
	s.offset += n
	return first
}

func (s *Synthesizer) register(r *resource.Resource) {
	if s.source.Has(r.Key()) {
		panic(fmt.Sprintf("[assets] Synthesized %s collides with existing resource", r))
	}
	s.Table.Add(r)
	s.Order = append(s.Order, r.Key())
}

// lookup finds template in synthesized or source resources
func (s *Synthesizer) lookup(key resource.Key) *resource.Resource {
	if r, ok := s.Table.Get(key); ok {
		return r
	}
	if r, ok := s.source.Get(key); ok {
		return r
	}
	panic(fmt.Sprintf("[assets] Template %s was not collected", key))
}

func (s *Synthesizer) RecolorTexture(src resource.Id[resource.Texture], hueShift float64) (resource.Id[resource.Texture], error) {
	tex, err := resource.DecodeAs[*txtr.Texture](s.lookup(src.Key()).Clone())
	if err != nil {
		return resource.Invalid[resource.Texture](), errors.Wrapf(err, "[assets] Recolor %s", src)
	}
	if err := tex.Recolor(hueShift); err != nil {
		return resource.Invalid[resource.Texture](), errors.Wrapf(err, "[assets] Recolor %s", src)
	}

	id := resource.New[resource.Texture](s.NextId(1))
	s.register(resource.Build(id, tex))
	return id, nil
}

// RecolorModel copies model with texture slots replaced
func (s *Synthesizer) RecolorModel(src resource.Id[resource.Model], slots map[int]resource.Id[resource.Texture]) (resource.Id[resource.Model], error) {
	model, err := resource.DecodeAs[*cmdl.Model](s.lookup(src.Key()).Clone())
	if err != nil {
		return resource.Invalid[resource.Model](), errors.Wrapf(err, "[assets] Retexture %s", src)
	}
	if err := model.Retexture(slots); err != nil {
		return resource.Invalid[resource.Model](), errors.Wrapf(err, "[assets] Retexture %s", src)
	}

	id := resource.New[resource.Model](s.NextId(1))
	s.register(resource.Build(id, model))
	return id, nil
}

// RecolorSkin recolors slot texture of model and returns model using it
func (s *Synthesizer) RecolorSkin(model resource.Id[resource.Model], slot int, texture resource.Id[resource.Texture], hueShift float64) (resource.Id[resource.Model], error) {
	tex, err := s.RecolorTexture(texture, hueShift)
	if err != nil {
		return resource.Invalid[resource.Model](), err
	}
	return s.RecolorModel(model, map[int]resource.Id[resource.Texture]{slot: tex})
}

// String creates string table of pages
func (s *Synthesizer) String(pages ...string) resource.Id[resource.StringTable] {
	id := resource.New[resource.StringTable](s.NextId(1))
	s.register(resource.Build(id, strg.New(pages...)))
	return id
}

func terminate(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// ScanStringPair creates scan with paginated text. Identical content
// returns ids created by first call.
func (s *Synthesizer) ScanStringPair(text, title string, category uint32, important bool) ScanIds {
	cacheKey := scanCacheKey{text: text, title: title, category: category, important: important}
	if ids, ok := s.scanCache[cacheKey]; ok {
		return ids
	}

	first := s.NextId(2)
	ids := ScanIds{
		Scan: resource.New[resource.ScanEntry](first),
		Strg: resource.New[resource.StringTable](first + 1),
	}

	pages := ScanPages(terminate(text), terminate(title))
	s.register(resource.Build(ids.Scan, scan.New(s.frame, ids.Strg, category, important)))
	s.register(resource.Build(ids.Strg, strg.New(pages...)))
	s.scanCache[cacheKey] = ids

	log.Printf("[assets] Scan %s: %d pages", ids.Scan, len(pages))
	return ids
}

// Raw registers resource loaded from outside of disc under fresh id
func (s *Synthesizer) Raw(fourcc resource.FourCC, data []byte) resource.Key {
	key := resource.Key{Id: s.NextId(1), Type: fourcc}
	r := resource.NewRaw(key, data)
	r.Compressed = true
	s.register(r)
	return key
}
