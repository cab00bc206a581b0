package crypto

import "runtime"

// Zero overwrites every byte of each buffer with 0x00.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		for i := range b {
			b[i] = 0
		}
		runtime.KeepAlive(b)
	}
}
