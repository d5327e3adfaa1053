package nmea

import (
	"encoding/hex"
	"strings"
)

// Format is the closed set of sentence formats the extractor knows about.
type Format int

const (
	FormatUnsupported Format = iota
	FormatGLL
	FormatRMC
	FormatGGA
)

func (f Format) String() string {
	switch f {
	case FormatGLL:
		return "GLL"
	case FormatRMC:
		return "RMC"
	case FormatGGA:
		return "GGA"
	default:
		return "unsupported"
	}
}

// FormatOf resolves a sentence type such as "GPGLL".
func FormatOf(sentenceType string) Format {
	switch sentenceType {
	case "GPGLL":
		return FormatGLL
	case "GPRMC":
		return FormatRMC
	case "GPGGA":
		return FormatGGA
	default:
		return FormatUnsupported
	}
}

// Pair is a decomposed sentence.
type Pair struct {
	// Type is the sentence type without the '$', e.g. "GPGLL".
	Type   string
	Format Format
	// Fields are the comma-separated values after the type, checksum removed.
	// Omitted fields are kept as empty strings.
	Fields []string
}

func NewPair(sentenceType string, fields []string) Pair {
	return Pair{Type: sentenceType, Format: FormatOf(sentenceType), Fields: fields}
}

const (
	talkerPrefix = "$GP"
	idLen        = 3
	checksumLen  = 2
)

// IsValidSentence reports whether s is "$GP" + 3-char id + zero or more
// ",field" + "*" + two hex digits, with the hex digits equal to the XOR of
// every byte between '$' and '*'.
func IsValidSentence(s string) bool {
	if len(s) < len(talkerPrefix)+idLen+1+checksumLen {
		return false
	}
	if !strings.HasPrefix(s, talkerPrefix) {
		return false
	}
	star := len(s) - checksumLen - 1
	if s[star] != '*' {
		return false
	}

	idEnd := len(talkerPrefix) + idLen
	for i := len(talkerPrefix); i < idEnd; i++ {
		if !isIDByte(s[i]) {
			return false
		}
	}
	if idEnd != star && s[idEnd] != ',' {
		return false
	}
	for i := idEnd; i < star; i++ {
		if !isFieldByte(s[i]) {
			return false
		}
	}

	want, ok := parseHexByte(s[star+1:])
	if !ok {
		return false
	}
	return checksum(s[1:star]) == want
}

// DecomposeSentence splits a sentence that already passed IsValidSentence.
// The result for any other input is unspecified.
func DecomposeSentence(s string) Pair {
	start := strings.IndexByte(s, '$') + 1
	end := strings.LastIndexByte(s, '*')
	if end < start {
		end = len(s)
	}
	parts := strings.Split(s[start:end], ",")
	return NewPair(parts[0], parts[1:])
}

func checksum(payload string) byte {
	var got byte
	for i := 0; i < len(payload); i++ {
		got ^= payload[i]
	}
	return got
}

func isIDByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isFieldByte(c byte) bool {
	return c >= 0x20 && c <= 0x7E && c != '$' && c != '*'
}

func parseHexByte(s string) (byte, bool) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 1 {
		return 0, false
	}
	return b[0], true
}
