package typestrip

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	invalidEncodingErrorTemplateConstant = "content is not valid UTF-8 at byte offset %d"
	carriageReturnLineFeedConstant       = "\r\n"
	carriageReturnConstant               = "\r"
	lineFeedConstant                     = "\n"
)

// InvalidEncodingError reports source content that is not valid UTF-8.
type InvalidEncodingError struct {
	Offset int
}

// Error describes the first invalid byte sequence.
func (encodingError InvalidEncodingError) Error() string {
	return fmt.Sprintf(invalidEncodingErrorTemplateConstant, encodingError.Offset)
}

// Decode validates content as UTF-8 and normalizes line endings to "\n".
func Decode(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", InvalidEncodingError{Offset: firstInvalidOffset(content)}
	}
	decoded := string(content)
	if !strings.Contains(decoded, carriageReturnConstant) {
		return decoded, nil
	}
	decoded = strings.ReplaceAll(decoded, carriageReturnLineFeedConstant, lineFeedConstant)
	return strings.ReplaceAll(decoded, carriageReturnConstant, lineFeedConstant), nil
}

func firstInvalidOffset(content []byte) int {
	offset := 0
	for offset < len(content) {
		decodedRune, runeSize := utf8.DecodeRune(content[offset:])
		if decodedRune == utf8.RuneError && runeSize <= 1 {
			return offset
		}
		offset += runeSize
	}
	return offset
}
