package common

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/io"
)

// GetSerialized reads value stored by key into v. It returns false if there
// is no such item.
func GetSerialized(ctx *Context, key []byte, v io.Serializable) (bool, error) {
	data, err := ctx.Get(key)
	if err != nil || data == nil {
		return false, err
	}

	r := io.NewBinReaderFromBuf(data)
	v.DecodeBinary(r)
	if r.Err != nil {
		return false, fmt.Errorf("decode storage item: %w", r.Err)
	}
	return true, nil
}

// SetSerialized serializes value and puts it into the storage.
func SetSerialized(ctx *Context, key []byte, v io.Serializable) error {
	w := io.NewBufBinWriter()
	v.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return fmt.Errorf("encode storage item: %w", w.Err)
	}
	ctx.Put(key, w.Bytes())
	return nil
}

// Key concatenates prefix byte and key parts.
func Key(prefix byte, parts ...[]byte) []byte {
	n := 1
	for i := range parts {
		n += len(parts[i])
	}

	key := make([]byte, 0, n)
	key = append(key, prefix)
	for i := range parts {
		key = append(key, parts[i]...)
	}
	return key
}
