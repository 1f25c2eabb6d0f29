package metrics

import (
	"bytes"
	"strings"
)

// controlKeywords are the branch points counted by Complexity.
var controlKeywords = map[string]struct{}{
	"if": {}, "elif": {}, "elsif": {},
	"for": {}, "foreach": {}, "while": {}, "until": {},
	"switch": {}, "case": {}, "when": {},
	"catch": {}, "except": {}, "rescue": {},
}

// Complexity approximates cyclomatic complexity with a lexical scan.
// Blank content scores 0, anything else starts at 1 and gains one point per
// control keyword, logical operator, spaced ternary and "=>" match arm.
func Complexity(content []byte) int {
	if len(bytes.TrimSpace(content)) == 0 {
		return 0
	}

	score := 1
	for i := 0; i < len(content); {
		b := content[i]
		switch {
		case isIdentByte(b):
			j := i
			for j < len(content) && isIdentByte(content[j]) {
				j++
			}
			if _, ok := controlKeywords[string(content[i:j])]; ok {
				score++
			}
			i = j
		case (b == '&' || b == '|') && i+1 < len(content) && content[i+1] == b:
			score++
			i += 2
		case b == '=' && i+1 < len(content) && content[i+1] == '>':
			score++
			i += 2
		case b == '?' && i > 0 && i+1 < len(content) && isSpaceByte(content[i-1]) && isSpaceByte(content[i+1]):
			score++
			i++
		default:
			i++
		}
	}
	return score
}

// densityOperators and densityKeywords are counted as substrings per line.
var (
	densityOperators = []string{"+", "-", "*", "/", "=", "!", "<", ">", "&", "|", "?", ":", ".", "->", "=>"}
	densityKeywords  = []string{"if", "else", "for", "while", "match", "switch", "case", "return", "throw"}
)

// denseLineScore is the line density above which a code line counts as dense.
const denseLineScore = 50

// Density scores how packed the code is:
// average code line length × deepest bracket nesting × dense lines ÷ code lines.
// Comment-only lines starting with // or # are ignored.
func Density(content []byte) float64 {
	var totalChars, codeLines, denseLines, depth, maxDepth int

	for raw := range bytes.Lines(content) {
		line := strings.TrimSpace(string(raw))
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		codeLines++
		totalChars += len(line)

		depth = max(depth+nestingChange(line), 0)
		maxDepth = max(maxDepth, depth)

		if lineDensity(line) > denseLineScore {
			denseLines++
		}
	}

	if codeLines == 0 {
		return 0
	}
	avg := float64(totalChars) / float64(codeLines)
	return avg * float64(maxDepth) * float64(denseLines) / float64(codeLines)
}

// nestingChange returns opened minus closed brackets outside string literals.
func nestingChange(line string) int {
	change := 0
	inString, escaped := false, false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"', '\'', '`':
			inString = !inString
		case '{', '(', '[':
			if !inString {
				change++
			}
		case '}', ')', ']':
			if !inString {
				change--
			}
		}
	}
	return change
}

func lineDensity(line string) int {
	density := len(line)
	for _, op := range densityOperators {
		density += strings.Count(line, op) * 2
	}
	for _, kw := range densityKeywords {
		density += strings.Count(line, kw) * 3
	}
	density += (strings.Count(line, "(") + strings.Count(line, ")")) * 2
	return density
}

func isIdentByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
