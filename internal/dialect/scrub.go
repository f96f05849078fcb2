package dialect

// scrubState enumerates the lexical contexts the scrubber tracks.
type scrubState int

const (
	stateCode scrubState = iota
	stateLineComment
	stateBlockComment
	stateTripleString
	stateDoubleString
	stateCharLit
)

// Scrub blanks comments, string literals and character literals so the
// marker and heuristic scans only see code. Every blanked byte becomes a
// space and newlines always pass through, so line and column positions in
// the scrubbed text match the input exactly.
func Scrub(src string) string {
	out := make([]byte, 0, len(src))
	state := stateCode
	commentDepth := 0

	emit := func(b byte) {
		if b == '\n' {
			out = append(out, '\n')
			return
		}
		out = append(out, ' ')
	}

	for i := 0; i < len(src); i++ {
		b := src[i]
		switch state {
		case stateCode:
			switch {
			case b == '/' && i+1 < len(src) && src[i+1] == '/':
				state = stateLineComment
				emit(b)
				emit(src[i+1])
				i++
			case b == '/' && i+1 < len(src) && src[i+1] == '*':
				state = stateBlockComment
				commentDepth = 1
				emit(b)
				emit(src[i+1])
				i++
			case b == '"' && i+2 < len(src) && src[i+1] == '"' && src[i+2] == '"':
				state = stateTripleString
				emit(b)
				emit(src[i+1])
				emit(src[i+2])
				i += 2
			case b == '"':
				state = stateDoubleString
				emit(b)
			case b == '\'' && isCharLiteral(src, i):
				state = stateCharLit
				emit(b)
			default:
				// Symbol literals and quoted-code markers keep their text;
				// only true character literals enter the literal state.
				out = append(out, b)
			}

		case stateLineComment:
			if b == '\n' {
				state = stateCode
			}
			emit(b)

		case stateBlockComment:
			switch {
			case b == '/' && i+1 < len(src) && src[i+1] == '*':
				commentDepth++
				emit(b)
				emit(src[i+1])
				i++
			case b == '*' && i+1 < len(src) && src[i+1] == '/':
				commentDepth--
				emit(b)
				emit(src[i+1])
				i++
				if commentDepth == 0 {
					state = stateCode
				}
			default:
				emit(b)
			}

		case stateTripleString:
			if b == '"' && i+2 < len(src) && src[i+1] == '"' && src[i+2] == '"' &&
				(i+3 >= len(src) || src[i+3] != '"') {
				emit(b)
				emit(src[i+1])
				emit(src[i+2])
				i += 2
				state = stateCode
				continue
			}
			emit(b)

		case stateDoubleString:
			switch {
			case b == '\\' && i+1 < len(src):
				emit(b)
				emit(src[i+1])
				i++
			case b == '"':
				emit(b)
				state = stateCode
			case b == '\n':
				// Single-quoted strings cannot span lines; recover so a
				// malformed literal does not swallow the rest of the file.
				emit(b)
				state = stateCode
			default:
				emit(b)
			}

		case stateCharLit:
			switch {
			case b == '\\' && i+1 < len(src):
				emit(b)
				emit(src[i+1])
				i++
			case b == '\'':
				emit(b)
				state = stateCode
			case b == '\n':
				emit(b)
				state = stateCode
			default:
				emit(b)
			}
		}
	}
	return string(out)
}

// isCharLiteral distinguishes a character literal from a symbol literal or
// a quote marker at the opening quote. A quote opens a character literal
// when it is escaped or when exactly one byte sits before the closing
// quote.
func isCharLiteral(src string, i int) bool {
	if i+1 >= len(src) {
		return false
	}
	if src[i+1] == '\\' {
		return true
	}
	return i+2 < len(src) && src[i+2] == '\'' && src[i+1] != '\''
}
