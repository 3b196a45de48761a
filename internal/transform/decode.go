package transform

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// decodeEach decodes consecutive JSON objects from r, calling fn with the
// 1-based record number. It returns the number of records decoded.
func decodeEach[T any](r io.Reader, fn func(n int, rec *T) error) (int, error) {
	dec := json.NewDecoder(r)
	n := 0
	for {
		var rec T
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		n++
		if err != nil {
			return n, fmt.Errorf("record %d: %w: %w", n, sparkload.ErrMalformedRecord, err)
		}
		if err := fn(n, &rec); err != nil {
			return n, err
		}
	}
}
