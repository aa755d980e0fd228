package encoding

import "iter"

// ColumnarEncoder encodes a column of values of type T.
type ColumnarEncoder[T any] interface {
	// Write appends one value.
	Write(value T)
	// WriteSlice appends values in order.
	WriteSlice(values []T)
	// Bytes returns the encoded column. The slice is valid until Reset or Finish.
	Bytes() []byte
	// Len returns the number of values written.
	Len() int
	// Size returns the encoded size in bytes.
	Size() int
	// Reset clears the encoder for reuse, keeping its buffer.
	Reset()
	// Finish releases the buffer back to the pool. The encoder is unusable afterwards.
	Finish()
}

// ColumnarDecoder decodes a column of count values of type T.
type ColumnarDecoder[T any] interface {
	// All yields decoded values and stops early on malformed input.
	All(data []byte, count int) iter.Seq[T]
	// Decode returns exactly count values or an error.
	Decode(data []byte, count int) ([]T, error)
}
