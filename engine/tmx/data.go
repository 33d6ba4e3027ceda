package tmx

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DecodeData returns the raw gids of a layer payload in row-major order.
func DecodeData(d Data) ([]uint32, error) {
	switch strings.ToLower(d.Encoding) {
	case "":
		return decodeXML(d.Tiles), nil
	case "csv":
		return DecodeCSV(d.Content), nil
	case "base64":
		return DecodeBase64(d.Content, d.Compression)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, d.Encoding)
}

func decodeXML(tiles []DataTile) []uint32 {
	gids := make([]uint32, len(tiles))
	for i := range tiles {
		gids[i] = tiles[i].Gid
	}
	return gids
}

// DecodeCSV splits on commas and line breaks. Cells that fail to parse decode as 0 (empty).
func DecodeCSV(content string) []uint32 {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	gids := make([]uint32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			v = 0
		}
		gids = append(gids, uint32(v))
	}
	return gids
}

// DecodeBase64 decodes little-endian uint32 gids, optionally zlib or gzip compressed.
func DecodeBase64(content, compression string) ([]uint32, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	switch strings.ToLower(compression) {
	case "":
	case "zlib":
		r, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("open zlib: %w", err)
		}
		defer r.Close()
		raw, err = io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read zlib: %w", err)
		}
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer r.Close()
		raw, err = io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read gzip: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedEncoding, compression)
	}

	// A trailing partial gid is dropped
	gids := make([]uint32, len(raw)/4)
	for i := range gids {
		gids[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return gids, nil
}

// EncodeCSV writes gids as Tiled does: one row per line, trailing comma on every row but the last.
func EncodeCSV(gids []uint32, width int) string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for i, g := range gids {
		sb.WriteString(strconv.FormatUint(uint64(g), 10))
		if i != len(gids)-1 {
			sb.WriteByte(',')
		}
		if width > 0 && (i+1)%width == 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// EncodeBase64 writes gids as uncompressed little-endian base64.
func EncodeBase64(gids []uint32) string {
	raw := make([]byte, len(gids)*4)
	for i, g := range gids {
		binary.LittleEndian.PutUint32(raw[i*4:], g)
	}
	return base64.StdEncoding.EncodeToString(raw)
}
