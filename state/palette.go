package state

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/df-mc/dragonfly/server/world"
)

// Palette maps schematic block tokens such as "minecraft:oak_slab[type=bottom]" to Data. Explicit entries
// set with Set take priority; otherwise tokens are looked up in the dragonfly block registry, and unknown
// blocks resolve to a full solid cube carrying the token's name.
type Palette struct {
	mu        sync.RWMutex
	overrides map[string]Data
	resolved  map[string]Data
}

// NewPalette returns an empty Palette.
func NewPalette() *Palette {
	return &Palette{overrides: map[string]Data{}, resolved: map[string]Data{}}
}

// Set makes token resolve to d.
func (p *Palette) Set(token string, d Data) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overrides[token] = d
}

// Resolve returns the Data for token.
func (p *Palette) Resolve(token string) Data {
	p.mu.RLock()
	d, ok := p.overrides[token]
	if !ok {
		d, ok = p.resolved[token]
	}
	p.mu.RUnlock()
	if ok {
		return d
	}

	d = resolve(token)
	p.mu.Lock()
	p.resolved[token] = d
	p.mu.Unlock()
	return d
}

func resolve(token string) Data {
	name, properties := ParseToken(token)
	switch name {
	case "", "minecraft:air", "minecraft:cave_air", "minecraft:void_air", "minecraft:structure_void":
		return Air
	}
	if b, ok := world.BlockByName(name, properties); ok {
		return FromBlock(b)
	}
	return Solid(name)
}

// ParseToken splits a block token into its namespaced name and its properties. Names without a namespace get
// the minecraft namespace. Property values are converted to the types the block registry uses: booleans,
// int32 or strings.
func ParseToken(token string) (string, map[string]any) {
	token = strings.TrimSpace(token)
	name, rest, hasProperties := strings.Cut(token, "[")
	name = strings.ToLower(strings.TrimSpace(name))
	if name != "" && !strings.Contains(name, ":") {
		name = "minecraft:" + name
	}

	properties := map[string]any{}
	if !hasProperties {
		return name, properties
	}
	rest = strings.TrimSuffix(rest, "]")
	for _, kv := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		properties[strings.TrimSpace(k)] = propertyValue(strings.TrimSpace(v))
	}
	return name, properties
}

func propertyValue(v string) any {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(v, 10, 32); err == nil {
		return int32(n)
	}
	return v
}

func propertyString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
