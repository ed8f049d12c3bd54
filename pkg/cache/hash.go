package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// resultKey returns "<keyType>:<sha256>" over the input hash and the JSON
// form of opts. Struct field order fixes the JSON encoding, so equal options
// always give equal keys.
func resultKey(keyType, inputHash string, opts BufferKeyOpts) string {
	h := sha256.New()
	h.Write([]byte(inputHash))
	h.Write([]byte{0})
	enc, _ := json.Marshal(opts)
	h.Write(enc)
	return keyType + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
