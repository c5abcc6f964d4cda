package extension

import (
	"errors"
	"testing"

	"pulseboard/internal/domain"
)

func TestExtractManifestRoundTrip(t *testing.T) {
	content := []byte(`some leading bytes
<<pulseboard:extension>>
{"name":"X","version":"1.0.0","author":"A","description":"D"}
<<pulseboard:end>>
trailing bytes`)

	m, err := ExtractManifest(content)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if m.Name != "X" || m.Version != "1.0.0" || m.Author != "A" || m.Description != "D" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestExtractManifestPermissions(t *testing.T) {
	content := []byte(`<<pulseboard:extension>>{"name":"x","version":"1","permissions":["exec"]}<<pulseboard:end>>`)

	m, err := ExtractManifest(content)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !m.HasPermission(domain.PermExec) {
		t.Fatalf("exec permission should be granted")
	}
	if m.HasPermission(domain.PermFiles) {
		t.Fatalf("files permission should not be granted")
	}
}

func TestExtractManifestRejections(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"no marker", "plain module bytes", domain.ErrManifestMissing},
		{"unterminated", "<<pulseboard:extension>>{}", domain.ErrManifestInvalid},
		{"malformed json", "<<pulseboard:extension>>{nope<<pulseboard:end>>", domain.ErrManifestInvalid},
		{"missing name", `<<pulseboard:extension>>{"version":"1"}<<pulseboard:end>>`, domain.ErrManifestInvalid},
		{"missing version", `<<pulseboard:extension>>{"name":"x"}<<pulseboard:end>>`, domain.ErrManifestInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractManifest([]byte(tc.content))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
