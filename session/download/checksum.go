package download

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"hash"
)

// checksum is the digest a stored file must match. A fresh hash is built
// for every file.
type checksum struct {
	newHash func() hash.Hash
	want    []byte
}

// start begins hashing one file.
func (c *checksum) start() *digest {
	if c == nil {
		return nil
	}

	return &digest{Hash: c.newHash(), want: c.want}
}

type digest struct {
	hash.Hash
	want []byte
}

// verify compares the bytes written so far against the expected digest.
func (d *digest) verify() error {
	if d == nil {
		return nil
	}

	if got := d.Sum(nil); !bytes.Equal(got, d.want) {
		return &Error{
			Err:    ErrChecksumMismatch,
			Detail: fmt.Sprintf("expected %x, got %s", d.want, hex.EncodeToString(got)),
		}
	}

	return nil
}
