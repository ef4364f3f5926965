package history

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/FluidXR/fetchdroid/internal/deviceinfo"
)

// encMode uses Core Deterministic Encoding so equal snapshots always
// produce equal bytes, and therefore equal digests.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("history: CBOR encoder initialization failed: " + err.Error())
	}
}

// encode returns the CBOR body and its hex BLAKE3 digest.
func encode(snap deviceinfo.Snapshot) ([]byte, string, error) {
	body, err := encMode.Marshal(snap)
	if err != nil {
		return nil, "", fmt.Errorf("encode snapshot: %w", err)
	}
	sum := blake3.Sum256(body)
	return body, hex.EncodeToString(sum[:]), nil
}

func decode(body []byte) (deviceinfo.Snapshot, error) {
	var snap deviceinfo.Snapshot
	if err := cbor.Unmarshal(body, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
