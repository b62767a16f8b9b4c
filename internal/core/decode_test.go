package core

import (
	"errors"
	"testing"
)

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		enc  string
		want string
	}{
		{name: "plain utf-8", data: []byte("Seán"), enc: "", want: "Seán"},
		{name: "utf-8 BOM stripped", data: []byte("\xef\xbb\xbfid"), enc: "utf-8", want: "id"},
		{name: "invalid utf-8 replaced", data: []byte("a\xffb"), enc: "UTF-8", want: "a\ufffdb"},
		{name: "windows-1252", data: []byte("Se\xe1n \x80"), enc: "windows-1252", want: "Seán €"},
		{name: "latin1", data: []byte("Se\xe1n"), enc: "iso-8859-1", want: "Seán"},
		{name: "utf-16 with BOM", data: []byte{0xff, 0xfe, 'i', 0, 'd', 0}, enc: "utf-16", want: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInput(tt.data, tt.enc)
			if err != nil {
				t.Fatalf("DecodeInput error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodeInput(%q, %q) = %q, want %q", tt.data, tt.enc, got, tt.want)
			}
		})
	}
}

func TestDecodeInput_UnknownEncoding(t *testing.T) {
	_, err := DecodeInput([]byte("x"), "ebcdic")
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("error = %v, want ErrUnsupportedEncoding", err)
	}
	if got := MapError(err).Code; got != "FILE003" {
		t.Errorf("MapError code = %q, want FILE003", got)
	}
}
