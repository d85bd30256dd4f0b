// Package io provides the capacity-aware reader used to drain the
// transcoded UTF-8 stream when decoding legacy-encoded CSV uploads (see
// pkg/parser/csv.Parser.Parse).
package io

import (
	"io"
)

// ReadAll reads all data from an io.Reader into a dynamically growing buffer.
// Unlike the standard library's io.ReadAll, it accepts an initial buffer
// capacity hint, which avoids repeated reallocation when the approximate
// decoded size is already known (e.g. the source byte length).
func ReadAll(r io.Reader, caps ...int) ([]byte, error) {
	size := 0
	if len(caps) > 0 {
		size = caps[0]
	}
	if size < 0 {
		panic("buffer capacity cannot be negative")
	}
	if size == 0 {
		size = 512
	}

	buffer := make([]byte, 0, size)
	for {
		n, err := r.Read(buffer[len(buffer):cap(buffer)])
		buffer = buffer[:len(buffer)+n]
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			return buffer, err
		}

		if len(buffer) == cap(buffer) {
			// Add more capacity (let append pick how much).
			buffer = append(buffer, 0)[:len(buffer)]
		}
	}
}
