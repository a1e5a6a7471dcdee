package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/julianstephens/rotipani/internal/logger"
	"github.com/julianstephens/rotipani/internal/meals"
	"github.com/julianstephens/rotipani/internal/utils"
)

// ErrMalformedBackup is returned for a backup without a name or meals.
var ErrMalformedBackup = errors.New("invalid backup file format")

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Backup is the JSON backup document
type Backup struct {
	UserName string                     `json:"userName"`
	Meals    map[string]json.RawMessage `json:"meals"`
}

type backupDocument struct {
	UserName *string                    `json:"userName"`
	Meals    map[string]json.RawMessage `json:"meals"`
}

type Options struct {
	// Compress wraps the document in a zstd frame
	Compress bool
}

// IsCompressedPath reports whether a backup path asks for zstd
func IsCompressedPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// ExportBackup writes the display name and every value stored under a
// date-shaped key to w, byte for byte. It returns the number of days.
func ExportBackup(store *meals.Store, w io.Writer, opts Options) (int, error) {
	name, err := store.UserName()
	if err != nil {
		return 0, err
	}

	keys, err := store.Keys()
	if err != nil {
		return 0, err
	}

	provider := store.Provider()
	records := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		raw, ok, err := provider.Get(key)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if records[key], err = encodeValue(raw); err != nil {
			return 0, fmt.Errorf("failed to encode %s: %w", key, err)
		}
	}

	data, err := json.MarshalIndent(struct {
		UserName string                     `json:"userName"`
		Meals    map[string]json.RawMessage `json:"meals"`
	}{UserName: name, Meals: records}, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to serialize backup: %w", err)
	}

	if !opts.Compress {
		if _, err := w.Write(data); err != nil {
			return 0, fmt.Errorf("failed to write backup: %w", err)
		}
		return len(records), nil
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return 0, fmt.Errorf("failed to write backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("failed to write backup: %w", err)
	}
	return len(records), nil
}

// ParseBackup reads a plain or zstd compressed backup document.
func ParseBackup(r io.Reader) (Backup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Backup{}, fmt.Errorf("failed to read backup: %w", err)
	}

	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return Backup{}, fmt.Errorf("failed to create decompressor: %w", err)
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return Backup{}, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
		}
	}

	var doc backupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	if doc.UserName == nil || strings.TrimSpace(*doc.UserName) == "" {
		return Backup{}, fmt.Errorf("%w: missing userName", ErrMalformedBackup)
	}
	if doc.Meals == nil {
		return Backup{}, fmt.Errorf("%w: missing meals", ErrMalformedBackup)
	}

	return Backup{UserName: *doc.UserName, Meals: doc.Meals}, nil
}

// ImportBackup replaces every stored day with the backup's and sets the
// display name. Entries whose key is not date-shaped are skipped. It
// returns the number of imported days.
func ImportBackup(store *meals.Store, b Backup) (int, error) {
	if strings.TrimSpace(b.UserName) == "" || b.Meals == nil {
		return 0, ErrMalformedBackup
	}

	values := make(map[string]string, len(b.Meals))
	for key, raw := range b.Meals {
		if !utils.IsDateKey(key) {
			logger.Warn("Skipping backup entry with invalid key", "key", key)
			continue
		}
		value, err := decodeValue(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: entry %s: %v", ErrMalformedBackup, key, err)
		}
		values[key] = value
	}

	if _, err := store.ClearAll(); err != nil {
		return 0, err
	}
	if err := store.SetUserName(b.UserName); err != nil {
		return 0, err
	}

	provider := store.Provider()
	for key, value := range values {
		if err := provider.Set(key, value); err != nil {
			return 0, fmt.Errorf("failed to import %s: %w", key, err)
		}
	}

	logger.Info("Imported backup", "user", b.UserName, "days", len(values))
	return len(values), nil
}

// encodeValue embeds a stored value in the backup document. Compact
// JSON objects, arrays and non-null scalars go in as they are. Anything else,
// including text that is not JSON, goes in as a JSON string of its
// exact bytes so decodeValue can restore it.
func encodeValue(raw string) (json.RawMessage, error) {
	if embeddable(raw) {
		return json.RawMessage(raw), nil
	}
	return json.Marshal(raw)
}

func embeddable(raw string) bool {
	if raw == "null" || strings.HasPrefix(raw, `"`) || strings.ContainsAny(raw, "<>&\u2028\u2029") || !json.Valid([]byte(raw)) {
		return false
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(raw)); err != nil {
		return false
	}
	return compact.String() == raw
}

// decodeValue is the inverse of encodeValue. Hand-edited backups may
// carry indented records; they are stored compacted.
func decodeValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return "", err
	}
	return compact.String(), nil
}
