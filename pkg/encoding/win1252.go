package encoding

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// FromUTF8 converts a UTF-8 report body to Windows-1252 for legacy
// consumers that cannot read UTF-8. Characters outside the code page make
// the conversion fail instead of being silently dropped.
func FromUTF8(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return b, nil
	}

	encoded, err := charmap.Windows1252.NewEncoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("windows-1252 encode failed: %v", err)
	}

	return encoded, nil
}
