// Package qm compiles catalogs into Qt's binary .qm format and looks
// translations up in compiled files the way QTranslator does.
package qm

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
)

var (
	ErrBadMagic  = errors.New("not a qm file")
	ErrTruncated = errors.New("truncated qm file")
)

var magic = [16]byte{
	0x3c, 0xb8, 0x64, 0x18, 0xca, 0xef, 0x9c, 0x95,
	0xcd, 0x21, 0x1c, 0xbf, 0x60, 0xa1, 0xbd, 0xdd,
}

// IsQM reports whether data starts with the .qm magic number.
func IsQM(data []byte) bool {
	return len(data) >= len(magic) && string(data[:len(magic)]) == string(magic[:])
}

// section tags
const (
	sectionContexts     byte = 0x2f
	sectionHashes       byte = 0x42
	sectionMessages     byte = 0x69
	sectionNumerusRules byte = 0x88
	sectionDependencies byte = 0x96
	sectionLanguage     byte = 0xa7
)

// message tags
const (
	tagEnd          byte = 1
	tagSourceText16 byte = 2
	tagTranslation  byte = 3
	tagContext16    byte = 4
	tagObsolete1    byte = 5
	tagSourceText   byte = 6
	tagContext      byte = 7
	tagComment      byte = 8
	tagObsolete2    byte = 9
)

// nullLength marks a null QString or QByteArray in the stream.
const nullLength = 0xFFFFFFFF

// elfHash is the hash QTranslator uses to find messages: source text
// followed by comment, as UTF-8 bytes.
func elfHash(parts ...string) uint32 {
	var h uint32
	for _, p := range parts {
		for i := 0; i < len(p); i++ {
			h = (h << 4) + uint32(p[i])
			if g := h & 0xf0000000; g != 0 {
				h ^= g >> 24
				h &^= g
			}
		}
	}
	if h == 0 {
		h = 1
	}
	return h
}

func encodeUTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(out[2*i:], u)
	}
	return out
}

func decodeUTF16(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(b[2*i:])
	}
	return string(utf16.Decode(units))
}
