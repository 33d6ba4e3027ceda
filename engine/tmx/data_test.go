package tmx

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []uint32
	}{
		{"single line", "1,2,0,3", []uint32{1, 2, 0, 3}},
		{"tiled rows", "\n1,2,\n0,3\n", []uint32{1, 2, 0, 3}},
		{"crlf and spaces", " 1, 2,\r\n 0 ,3 ", []uint32{1, 2, 0, 3}},
		{"garbage cell", "1,x,3", []uint32{1, 0, 3}},
		{"flipped gid", "2147483649", []uint32{1 | FlipH}},
		{"empty", "", []uint32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeCSV(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeCSV(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	gids := []uint32{1, 2, 0, 3, 5 | FlipV, 0}

	csv := EncodeCSV(gids, 3)
	if csv != "\n1,2,0,\n3,1073741829,0\n" {
		t.Errorf("unexpected csv %q", csv)
	}
	if got := DecodeCSV(csv); !reflect.DeepEqual(got, gids) {
		t.Errorf("csv round trip = %v", got)
	}

	got, err := DecodeBase64(EncodeBase64(gids), "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, gids) {
		t.Errorf("base64 round trip = %v", got)
	}
}

func TestDecodeData(t *testing.T) {
	got, err := DecodeData(Data{Tiles: []DataTile{{1}, {0}, {7}}})
	if err != nil || !reflect.DeepEqual(got, []uint32{1, 0, 7}) {
		t.Errorf("xml data = %v %v", got, err)
	}

	got, err = DecodeData(Data{Encoding: "CSV", Content: "4,5"})
	if err != nil || !reflect.DeepEqual(got, []uint32{4, 5}) {
		t.Errorf("csv data = %v %v", got, err)
	}

	if _, err := DecodeData(Data{Encoding: "hex"}); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("expected unsupported encoding, got %v", err)
	}
	if _, err := DecodeData(Data{Encoding: "base64", Compression: "zstd", Content: "AAAA"}); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("expected unsupported compression, got %v", err)
	}
	if _, err := DecodeData(Data{Encoding: "base64", Content: "!!"}); err == nil {
		t.Errorf("expected base64 error")
	}
}
