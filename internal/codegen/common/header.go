package common

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const fingerprintPrefix = "blake2b-256:"

// Fingerprint returns a stable digest of generated content.
func Fingerprint(body string) string {
	sum := blake2b.Sum256([]byte(body))
	return fingerprintPrefix + hex.EncodeToString(sum[:])
}

// FileHeader renders the "generated, do not edit" banner for a file whose
// content after the banner is body. It carries no timestamp so regenerating
// identical input yields identical bytes.
func FileHeader(comment, version, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Code generated by borshgen %s. DO NOT EDIT.\n", comment, version)
	fmt.Fprintf(&b, "%s Fingerprint: %s\n", comment, Fingerprint(body))
	return b.String()
}

// HeaderFingerprint extracts the fingerprint recorded in a generated file, or
// "" if the content carries none.
func HeaderFingerprint(content string) string {
	for _, line := range strings.SplitN(content, "\n", 3) {
		if idx := strings.Index(line, "Fingerprint: "); idx >= 0 {
			return strings.TrimSpace(line[idx+len("Fingerprint: "):])
		}
	}
	return ""
}
