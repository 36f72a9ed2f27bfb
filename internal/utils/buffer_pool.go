package utils

import "sync"

// streamBufferSize is the read chunk size handed to stream copy loops.
const streamBufferSize = 4096

// byteSlicePool provides reusable read buffers for stream loops.
var byteSlicePool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, streamBufferSize)
		return &b
	},
}

// GetStreamBuffer retrieves a read buffer from the pool.
func GetStreamBuffer() *[]byte {
	return byteSlicePool.Get().(*[]byte)
}

// PutStreamBuffer returns a read buffer to the pool.
func PutStreamBuffer(b *[]byte) {
	if b == nil {
		return
	}
	byteSlicePool.Put(b)
}
