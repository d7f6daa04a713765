package driver

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"pyrite/internal/bytecode"
	"pyrite/internal/fnbuild"
	"pyrite/internal/rtlayout"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest identifies a translation input: code object bytes plus the
// mode and target they were lowered for.
type Digest [sha256.Size]byte

// DiskCache stores translated IR text keyed by input digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores one cached translation result.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Name   string
	Mode   string
	Target string

	// IRText is the printed module, ready to hand to the emitter.
	IRText string
}

// TranslationKey hashes a code object together with the options that
// affect its lowering.
func TranslationKey(code *bytecode.CodeObject, mode fnbuild.Mode, target rtlayout.Target) (Digest, error) {
	var buf bytes.Buffer
	if err := bytecode.Encode(&buf, code); err != nil {
		return Digest{}, err
	}
	h := sha256.New()
	h.Write(buf.Bytes())
	h.Write([]byte{0})
	h.Write([]byte(mode.String()))
	h.Write([]byte{0})
	h.Write([]byte(target.Triple))

	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Subdirectory "fns" keeps the cache root browsable.
	return filepath.Join(c.dir, "fns", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload.Schema = diskCacheSchemaVersion
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. It returns
// false without error on a miss or a stale schema.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		// Corrupt entries count as misses; they get rewritten.
		return false, nil
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}
