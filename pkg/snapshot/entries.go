package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/odvcencio/husk/pkg/shadow"
)

var (
	ErrMalformedRecord      = errors.New("malformed scan record")
	ErrStreamDesynchronized = errors.New("nodes and digests streams desynchronized")
)

// Entry is one parsed filesystem entry, in depth-first pre-order: a
// directory's entry precedes all of its descendants, and its descendants
// are contiguous.
type Entry struct {
	Path  shadow.Path
	Value EntryValue
}

// EntryValue is one of FileValue, LinkValue, TreeValue.
type EntryValue interface {
	entryValue()
}

// FileValue is a regular file, represented by its shadow.
type FileValue struct {
	Shadow     shadow.Shadow
	Executable bool
}

// LinkValue is a symlink and its target string.
type LinkValue struct {
	Target string
}

// TreeValue is a directory. It carries no payload.
type TreeValue struct{}

func (FileValue) entryValue() {}
func (LinkValue) entryValue() {}
func (TreeValue) entryValue() {}

// Entries is a lazy, forward-only producer of parsed entries. It advances
// the nodes and digests streams in lockstep: every file record in nodes
// must be matched by the next digests record at the same path. Exhausted
// once; not restartable.
type Entries struct {
	nodes   *nodesReader
	digests *digestsReader
	peeked  *Entry
	done    bool
	closers []io.Closer
}

// NewEntries builds an entry producer over the two raw record streams.
func NewEntries(nodes, digests io.Reader) *Entries {
	return &Entries{
		nodes:   &nodesReader{r: bufio.NewReader(nodes)},
		digests: &digestsReader{r: bufio.NewReader(digests)},
	}
}

// Close releases the underlying stream files, when there are any.
func (e *Entries) Close() error {
	var first error
	for _, c := range e.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}

// Peek returns the next entry without consuming it, or nil at end of input.
func (e *Entries) Peek() (*Entry, error) {
	if e.peeked == nil && !e.done {
		entry, err := e.next()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			e.done = true
		}
		e.peeked = entry
	}
	return e.peeked, nil
}

// Next consumes and returns the next entry, or nil at end of input.
func (e *Entries) Next() (*Entry, error) {
	entry, err := e.Peek()
	if err != nil {
		return nil, err
	}
	e.peeked = nil
	return entry, nil
}

func (e *Entries) next() (*Entry, error) {
	for {
		node, err := e.nodes.next()
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, nil
		}
		path, err := parseScanPath(node.path)
		if err != nil {
			return nil, fmt.Errorf("nodes record %q: %w", node.path, err)
		}

		var value EntryValue
		switch node.typ {
		case 'd':
			value = TreeValue{}
		case 'l':
			value = LinkValue{Target: node.target}
		case 'f':
			digest, err := e.digests.next()
			if err != nil {
				return nil, err
			}
			if digest == nil {
				return nil, fmt.Errorf("%w: digests exhausted at %q", ErrStreamDesynchronized, node.path)
			}
			if digest.path != node.path {
				return nil, fmt.Errorf("%w: nodes at %q, digests at %q", ErrStreamDesynchronized, node.path, digest.path)
			}
			hash, err := shadow.ParseContentHash(digest.hash)
			if err != nil {
				return nil, err
			}
			value = FileValue{
				Shadow:     shadow.Shadow{ContentHash: hash, Size: node.size},
				Executable: node.mode&0o100 != 0,
			}
		default:
			// Devices, sockets and pipes have no shadow representation.
			log.Warn().
				Str("type", string(node.typ)).
				Str("path", node.path).
				Msg("skipping unsupported node")
			continue
		}
		return &Entry{Path: path, Value: value}, nil
	}
}

// parseScanPath converts the scanner's "./a/b" form ("." for the subject
// root) into a Path.
func parseScanPath(s string) (shadow.Path, error) {
	if s == "." {
		return shadow.RootPath(), nil
	}
	if len(s) < 2 || s[0] != '.' || s[1] != '/' {
		return shadow.Path{}, fmt.Errorf("%w: path %q is not subject-relative", ErrMalformedRecord, s)
	}
	return shadow.ParsePath(s[2:])
}

// ---------------------------------------------------------------------------
// Raw record streams
// ---------------------------------------------------------------------------

// nodes stream: one record per filesystem entry, fields NUL-terminated,
// record newline-terminated:
//
//	t 0mode size path\0 target\0\n
//
// where t is one of [dflcbsp], mode is octal with a leading zero, and size
// is decimal or "?" when the scanner could not determine it.
var nodesPattern = regexp.MustCompile(`\A([dflcbsp]) 0([0-7]{3,}) ([0-9]+|\?) (.*)\x00 (.*)\x00\n\z`)

type nodesRecord struct {
	typ    byte
	mode   uint32
	size   int64 // shadow.SizeUnknown when "?"
	path   string
	target string
}

type nodesReader struct {
	r *bufio.Reader
}

func (n *nodesReader) next() (*nodesRecord, error) {
	raw, err := readRecord(n.r, 2)
	if raw == nil || err != nil {
		return nil, err
	}
	m := nodesPattern.FindSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: nodes record %q", ErrMalformedRecord, raw)
	}
	mode, err := strconv.ParseUint(string(m[2]), 8, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: nodes mode %q", ErrMalformedRecord, m[2])
	}
	size := shadow.SizeUnknown
	if s := string(m[3]); s != "?" {
		size, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: nodes size %q", ErrMalformedRecord, s)
		}
	}
	return &nodesRecord{
		typ:    m[1][0],
		mode:   uint32(mode),
		size:   size,
		path:   string(m[4]),
		target: string(m[5]),
	}, nil
}

// digests stream: one record per regular file, in the same relative order
// as the nodes stream:
//
//	hash *path\0\n
var digestsPattern = regexp.MustCompile(`\A([a-f0-9]{64}) \*(.*)\x00\n\z`)

type digestsRecord struct {
	hash string
	path string
}

type digestsReader struct {
	r *bufio.Reader
}

func (d *digestsReader) next() (*digestsRecord, error) {
	raw, err := readRecord(d.r, 1)
	if raw == nil || err != nil {
		return nil, err
	}
	m := digestsPattern.FindSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: digests record %q", ErrMalformedRecord, raw)
	}
	return &digestsRecord{hash: string(m[1]), path: string(m[2])}, nil
}

// readRecord reads one raw record: nuls NUL-terminated field groups
// followed by a single newline. Returns nil at a clean end of stream; a stream ending
// mid-record is malformed.
func readRecord(r *bufio.Reader, nuls int) ([]byte, error) {
	if _, err := r.Peek(1); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	var raw []byte
	for i := 0; i < nuls; i++ {
		chunk, err := r.ReadBytes(0)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated record %q", ErrMalformedRecord, raw)
		}
		raw = append(raw, chunk...)
	}
	b, err := r.ReadByte()
	if err != nil || b != '\n' {
		return nil, fmt.Errorf("%w: record %q lacks newline terminator", ErrMalformedRecord, raw)
	}
	return append(raw, b), nil
}
