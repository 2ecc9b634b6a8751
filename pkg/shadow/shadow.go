// Package shadow defines the value types of the shadow-tree scheme: the
// shadow record standing in for file content, slash-separated paths, and
// the tree-entry name encoding with its reserved marker.
package shadow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedShadow = errors.New("malformed shadow record")

// ContentHash is the lowercase 64-hex SHA-256 digest of real file content,
// addressing bytes held by the substance store.
type ContentHash string

// ParseContentHash validates s as a lowercase 64-hex digest.
func ParseContentHash(s string) (ContentHash, error) {
	if len(s) != 64 {
		return "", fmt.Errorf("%w: hash %q is not 64 characters", ErrMalformedShadow, s)
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: hash %q is not lowercase hex", ErrMalformedShadow, s)
		}
	}
	return ContentHash(s), nil
}

// SizeUnknown is the Size value for scans that could not determine a
// byte count. It serializes as "?".
const SizeUnknown int64 = -1

// Shadow is an indirection record standing in for file content: the hash
// of the real bytes plus their size. The serialized form is the entire
// body of the blob the object database holds in place of the content.
type Shadow struct {
	ContentHash ContentHash
	Size        int64
}

// Encode renders the fixed text record "<64-hex hash> <decimal size or ?>".
func (s Shadow) Encode() []byte {
	size := "?"
	if s.Size != SizeUnknown {
		size = strconv.FormatInt(s.Size, 10)
	}
	return []byte(string(s.ContentHash) + " " + size)
}

// DecodeShadow parses the fixed text record produced by Encode.
func DecodeShadow(data []byte) (Shadow, error) {
	hashPart, sizePart, ok := strings.Cut(string(data), " ")
	if !ok {
		return Shadow{}, fmt.Errorf("%w: %q", ErrMalformedShadow, data)
	}
	hash, err := ParseContentHash(hashPart)
	if err != nil {
		return Shadow{}, err
	}
	if sizePart == "?" {
		return Shadow{ContentHash: hash, Size: SizeUnknown}, nil
	}
	size, err := strconv.ParseInt(sizePart, 10, 64)
	if err != nil || size < 0 || (sizePart != "0" && sizePart[0] == '0') {
		return Shadow{}, fmt.Errorf("%w: bad size %q", ErrMalformedShadow, sizePart)
	}
	return Shadow{ContentHash: hash, Size: size}, nil
}
