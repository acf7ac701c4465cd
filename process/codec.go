package process

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// valueSize returns the size of T, or ErrUnsupportedType when T is not a fixed
// size value (int, uint, slices, strings, maps, pointers...) or when its
// in-memory layout has implicit padding. Padding must be spelled with _ fields
// so the bytes copied match sizeof(T) and every field offset.
func valueSize[T any]() (int, error) {
	var zero T
	n := binary.Size(zero)
	if n <= 0 {
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedType, zero)
	}
	if layout := int(unsafe.Sizeof(zero)); n != layout {
		return 0, fmt.Errorf("%w: %T has implicit padding (%d bytes packed, %d in memory)", ErrUnsupportedType, zero, n, layout)
	}
	return n, nil
}

// decodeValue fills a T from exactly size bytes in host byte order
func decodeValue[T any](data []byte, size int) (T, error) {
	var v T
	if len(data) < size {
		return v, fmt.Errorf("%w: %d of %d bytes", ErrShortRead, len(data), size)
	}
	if _, err := binary.Decode(data[:size], binary.NativeEndian, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %T: %w", v, err)
	}
	return v, nil
}

// encodeValue lays v out in a fresh buffer of size bytes in host byte order
func encodeValue[T any](v T, size int) ([]byte, error) {
	buf := make([]byte, size)
	n, err := binary.Encode(buf, binary.NativeEndian, v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	if n != size {
		return nil, fmt.Errorf("encode %T: wrote %d of %d bytes", v, n, size)
	}
	return buf, nil
}
