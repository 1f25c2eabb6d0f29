package metrics

import "unicode/utf8"

// emojiRanges are inclusive code point ranges counted as emoji.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // symbols and pictographs
	{0x1F680, 0x1F6FF}, // transport and map
	{0x1F1E6, 0x1F1FF}, // regional indicators
	{0x1F900, 0x1F9FF}, // supplemental symbols
	{0x1FA70, 0x1FAFF},
	{0x2600, 0x26FF}, // misc symbols
	{0x2700, 0x27BF}, // dingbats
	{0x1F004, 0x1F004},
	{0x1F0CF, 0x1F0CF},
	{0x1F170, 0x1F251},
	{0xFE0F, 0xFE0F}, // variation selector
	{0x200D, 0x200D}, // zero width joiner
}

// Emoji counts emoji code points. Invalid bytes are skipped one at a time.
func Emoji(content []byte) int {
	count := 0
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		content = content[size:]
		if r != utf8.RuneError && IsEmoji(r) {
			count++
		}
	}
	return count
}

// IsEmoji reports whether r falls in one of the emoji ranges.
func IsEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}
