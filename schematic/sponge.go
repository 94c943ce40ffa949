package schematic

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"reflect"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/klauspost/compress/gzip"
	"github.com/oomph-ac/blueprint/oerror"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

const (
	spongeVersion = 2
	// dataVersion is the Java Edition data version written to encoded schematics.
	dataVersion = 3465
)

// Decode reads a gzip compressed Sponge v2 schematic.
func Decode(r io.Reader) (*Schematic, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oerror.ErrInvalidSchematic, err)
	}
	defer zr.Close()

	var root map[string]any
	if err := nbt.NewDecoderWithEncoding(bufio.NewReader(zr), nbt.BigEndian).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", oerror.ErrInvalidSchematic, err)
	}
	// Some writers nest everything in a compound named Schematic.
	if inner, ok := root["Schematic"].(map[string]any); ok {
		root = inner
	}

	width, okW := root["Width"].(int16)
	height, okH := root["Height"].(int16)
	length, okL := root["Length"].(int16)
	if !okW || !okH || !okL {
		return nil, fmt.Errorf("%w: missing dimensions", oerror.ErrInvalidSchematic)
	}
	w, h, l := int(uint16(width)), int(uint16(height)), int(uint16(length))
	if w == 0 || h == 0 || l == 0 {
		return nil, fmt.Errorf("%w: empty %dx%dx%d region", oerror.ErrInvalidSchematic, w, h, l)
	}

	palette, ok := root["Palette"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing palette", oerror.ErrInvalidSchematic)
	}
	tokens := make(map[int32]string, len(palette))
	for token, v := range palette {
		id, ok := v.(int32)
		if !ok {
			return nil, fmt.Errorf("%w: palette entry %q is %T", oerror.ErrInvalidSchematic, token, v)
		}
		tokens[id] = token
	}

	data, ok := byteArray(root["BlockData"])
	if !ok {
		return nil, fmt.Errorf("%w: missing block data", oerror.ErrInvalidSchematic)
	}
	// Every block takes at least one byte of block data.
	if volume := int64(w) * int64(h) * int64(l); volume > int64(len(data)) {
		return nil, fmt.Errorf("%w: %d bytes of block data for %d blocks", oerror.ErrInvalidSchematic, len(data), volume)
	}

	s := New(w, h, l)
	for i := range w * h * l {
		id, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, fmt.Errorf("%w: block data ends after %d of %d blocks", oerror.ErrInvalidSchematic, i, w*h*l)
		}
		data = data[n:]
		token, ok := tokens[int32(id)]
		if !ok {
			return nil, fmt.Errorf("%w: block data refers to unknown palette id %d", oerror.ErrInvalidSchematic, id)
		}
		s.tokens[s.bounds.Index(spongePos(i, w, l))] = token
	}

	if offset, ok := intArray(root["Offset"]); ok && len(offset) == 3 {
		s.origin = cube.Pos{int(offset[0]), int(offset[1]), int(offset[2])}
	}
	return s, nil
}

// Encode writes the schematic as a gzip compressed Sponge v2 schematic.
func (s *Schematic) Encode(w io.Writer) error {
	ids := make(map[string]int32)
	var data []byte
	b := s.bounds
	for i := range b.Volume() {
		token := s.tokens[b.Index(spongePos(i, b.SizeX(), b.SizeZ()))]
		id, ok := ids[token]
		if !ok {
			id = int32(len(ids))
			ids[token] = id
		}
		data = binary.AppendUvarint(data, uint64(id))
	}
	palette := make(map[string]any, len(ids))
	for token, id := range ids {
		palette[token] = id
	}

	root := map[string]any{
		"Version":     int32(spongeVersion),
		"DataVersion": int32(dataVersion),
		"Width":       int16(uint16(b.SizeX())),
		"Height":      int16(uint16(b.SizeY())),
		"Length":      int16(uint16(b.SizeZ())),
		"Offset":      [3]int32{int32(s.origin[0]), int32(s.origin[1]), int32(s.origin[2])},
		"Palette":     palette,
		"PaletteMax":  int32(len(ids)),
		"BlockData":   toByteArray(data),
	}

	zw := gzip.NewWriter(w)
	if err := nbt.NewEncoderWithEncoding(zw, nbt.BigEndian).Encode(root); err != nil {
		return err
	}
	return zw.Close()
}

// spongePos converts an index into Sponge block data, which runs along X, then Z, then Y.
func spongePos(i, width, length int) cube.Pos {
	return cube.Pos{i % width, i / (width * length), (i / width) % length}
}

// byteArray returns the contents of a decoded TAG_Byte_Array, which the decoder produces as a fixed size
// array.
func byteArray(v any) ([]byte, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice) || rv.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}
	out := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(out), rv)
	return out, true
}

func intArray(v any) ([]int32, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice) || rv.Type().Elem().Kind() != reflect.Int32 {
		return nil, false
	}
	out := make([]int32, rv.Len())
	reflect.Copy(reflect.ValueOf(out), rv)
	return out, true
}

// toByteArray returns data as a fixed size array, so that it is encoded as a TAG_Byte_Array.
func toByteArray(data []byte) any {
	arr := reflect.New(reflect.ArrayOf(len(data), reflect.TypeOf(byte(0)))).Elem()
	reflect.Copy(arr, reflect.ValueOf(data))
	return arr.Interface()
}
