package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Calculator computes document fingerprints.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	CalculateNormalized(content []byte) string
}

// SHA256 implements Calculator using SHA-256.
// Normalization:
//  1. Remove XML comments (<!-- ... -->) outside CDATA sections
//  2. Drop whitespace between a '>' and the next '<'
//  3. Collapse remaining whitespace runs to a single space
//
// SHA256 is a zero-size type and is safe for concurrent use.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256([]byte(c.normalize(string(content))))
	return hex.EncodeToString(hash[:])
}

func (c SHA256) normalize(content string) string {
	cleaned := removeComments(content)

	var b strings.Builder
	b.Grow(len(cleaned))

	pendingSpace := false
	lastWasTagEnd := false
	for _, r := range cleaned {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && !lastWasTagEnd && r != '<' && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
		lastWasTagEnd = r == '>'
	}
	return b.String()
}

type scanState int

const (
	stNormal scanState = iota
	stComment
	stCDATA
)

// removeComments strips <!-- --> blocks while leaving CDATA content intact.
func removeComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	state := stNormal
	for i := 0; i < len(content); {
		rest := content[i:]
		switch state {
		case stNormal:
			switch {
			case strings.HasPrefix(rest, "<!--"):
				state = stComment
				i += 4
			case strings.HasPrefix(rest, "<![CDATA["):
				state = stCDATA
				b.WriteString("<![CDATA[")
				i += 9
			default:
				b.WriteByte(content[i])
				i++
			}
		case stComment:
			if strings.HasPrefix(rest, "-->") {
				state = stNormal
				i += 3
			} else {
				i++
			}
		case stCDATA:
			if strings.HasPrefix(rest, "]]>") {
				state = stNormal
				b.WriteString("]]>")
				i += 3
			} else {
				b.WriteByte(content[i])
				i++
			}
		}
	}
	return b.String()
}
