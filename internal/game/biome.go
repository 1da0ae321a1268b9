package game

type Biome struct {
	Name         string
	AmbientColor uint32
}

var biomes = []Biome{
	{Name: "SKY", AmbientColor: 0xffffff},
	{Name: "SPACE", AmbientColor: 0x6666ff},
	{Name: "VOID", AmbientColor: 0xff3333},
}

// BiomeFor returns the theme at index i, clamping past the last one.
func BiomeFor(i int) Biome {
	if i < 0 {
		i = 0
	}
	if i >= len(biomes) {
		i = len(biomes) - 1
	}
	return biomes[i]
}

// Biomes maps score onto a theme index. A score strictly above thresholds[i]
// selects index i+1.
type Biomes struct {
	thresholds []int
	current    int
}

func NewBiomes(thresholds []int) *Biomes {
	return &Biomes{thresholds: append([]int(nil), thresholds...)}
}

func (b *Biomes) indexFor(score int) int {
	idx := 0
	for i, th := range b.thresholds {
		if score > th {
			idx = i + 1
		}
	}
	return idx
}

// Update reports whether the theme changed for this score.
func (b *Biomes) Update(score int) (int, bool) {
	idx := b.indexFor(score)
	if idx == b.current {
		return idx, false
	}
	b.current = idx
	return idx, true
}

func (b *Biomes) Current() int { return b.current }

func (b *Biomes) Reset() { b.current = 0 }
