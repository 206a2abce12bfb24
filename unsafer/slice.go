package unsafer

import "unsafe"

// SliceToBytes interprets an arbitrary input slice as a byte slice.
//
// Note that the returned slice points to the same underlying data in memory. It
// does not make a copy.
func SliceToBytes[T any](input []T) []byte {
	if len(input) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&input[0])), int(unsafe.Sizeof(input[0]))*len(input))
}

// SliceBytesToUint32 copies data into a newly allocated []uint32 in the host
// byte order. Trailing bytes which do not fill a whole word are dropped, so
// callers which care must check that len(data) is a multiple of 4.
func SliceBytesToUint32(data []byte) []uint32 {
	buf := make([]uint32, len(data)/4)
	if len(buf) == 0 {
		return buf
	}
	copy(SliceToBytes(buf), data)
	return buf
}
