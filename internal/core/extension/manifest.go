package extension

import (
	"bytes"
	"encoding/json"
	"fmt"

	"pulseboard/internal/domain"
)

// Manifest block delimiters. The block is a JSON payload embedded as a string
// constant in the module, so the bytes appear verbatim in the compiled file
// and can be read without executing anything from it.
const (
	manifestStart = "<<pulseboard:extension>>"
	manifestEnd   = "<<pulseboard:end>>"
)

// ExtractManifest locates the delimited block in raw module bytes and parses
// it. A candidate without the block, or with a malformed payload, is rejected
// outright; it is never partially loaded.
func ExtractManifest(content []byte) (domain.Manifest, error) {
	start := bytes.Index(content, []byte(manifestStart))
	if start < 0 {
		return domain.Manifest{}, domain.ErrManifestMissing
	}
	rest := content[start+len(manifestStart):]

	end := bytes.Index(rest, []byte(manifestEnd))
	if end < 0 {
		return domain.Manifest{}, fmt.Errorf("%w: unterminated block", domain.ErrManifestInvalid)
	}

	var m domain.Manifest
	if err := json.Unmarshal(bytes.TrimSpace(rest[:end]), &m); err != nil {
		return domain.Manifest{}, fmt.Errorf("%w: %v", domain.ErrManifestInvalid, err)
	}

	if m.Name == "" || m.Version == "" {
		return domain.Manifest{}, fmt.Errorf("%w: name and version are required", domain.ErrManifestInvalid)
	}

	return m, nil
}
