package ats

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// CompressPayload lz4-frames raw posting JSON for storage.
func CompressPayload(in []byte) ([]byte, error) {
	if len(in) == 0 {
		return nil, nil
	}
	var w bytes.Buffer
	zw := lz4.NewWriter(&w)
	if _, err := io.Copy(zw, bytes.NewReader(in)); err != nil {
		return nil, err
	}
	// Close flushes the final frame.
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecompressPayload reverses CompressPayload.
func DecompressPayload(in []byte) ([]byte, error) {
	if len(in) == 0 {
		return nil, nil
	}
	var w bytes.Buffer
	if _, err := io.Copy(&w, lz4.NewReader(bytes.NewReader(in))); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
