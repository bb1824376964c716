package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownCodec is returned for artifact files with an unsupported extension
var ErrUnknownCodec = errors.New("unknown artifact codec")

// Codec names
const (
	CodecMsgpack = "msgpack"
	CodecJSON    = "json"
)

// CodecFor picks the codec from the file extension
func CodecFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return CodecMsgpack, nil
	case ".json":
		return CodecJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCodec, filepath.Base(path))
	}
}

// ReadFile decodes an artifact file into v
func ReadFile(path string, v any) error {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	switch codec {
	case CodecMsgpack:
		err = msgpack.Unmarshal(data, v)
	case CodecJSON:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s artifact %s: %w", codec, filepath.Base(path), err)
	}
	return nil
}

// WriteFile encodes v into an artifact file, choosing the codec from the extension
func WriteFile(path string, v any) error {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch codec {
	case CodecMsgpack:
		data, err = msgpack.Marshal(v)
	case CodecJSON:
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s artifact: %w", codec, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}
