package view

// Minecraft-style inline formatting: a section sign followed by one
// code character. Color codes reset active format codes (matching the
// game's behavior); format codes nest inside the active color; §r
// clears everything. Unknown codes are passed through as literal text
// rather than erroring.

// codeChar is the formatting control character.
const codeChar = '§' // §

// colorNames maps color code characters to span names.
var colorNames = map[rune]string{
	'0': "black",
	'1': "dark_blue",
	'2': "dark_green",
	'3': "dark_aqua",
	'4': "dark_red",
	'5': "dark_purple",
	'6': "gold",
	'7': "gray",
	'8': "dark_gray",
	'9': "blue",
	'a': "green",
	'b': "aqua",
	'c': "red",
	'd': "light_purple",
	'e': "yellow",
	'f': "white",
}

// formatNames maps format code characters to span names.
var formatNames = map[rune]string{
	'k': "obfuscated",
	'l': "bold",
	'm': "strikethrough",
	'n': "underline",
	'o': "italic",
}

// expandStyleCodes splits text into segments with their active style
// spans resolved, outermost first.
func expandStyleCodes(text string) []Segment {
	var (
		out     []Segment
		current []rune
		styles  []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		out = append(out, Segment{Text: string(current), Styles: cloneStyles(styles)})
		current = current[:0]
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != codeChar || i+1 >= len(runes) {
			current = append(current, r)
			continue
		}
		code := runes[i+1]
		switch {
		case colorNames[code] != "":
			flush()
			styles = []string{colorNames[code]}
			i++
		case formatNames[code] != "":
			flush()
			if !containsStyle(styles, formatNames[code]) {
				styles = append(cloneStyles(styles), formatNames[code])
			}
			i++
		case code == 'r':
			flush()
			styles = nil
			i++
		default:
			// Unknown code: keep the two characters as literal text.
			current = append(current, r, code)
			i++
		}
	}
	flush()

	if out == nil {
		return []Segment{{Text: ""}}
	}
	return out
}

func cloneStyles(styles []string) []string {
	if len(styles) == 0 {
		return nil
	}
	out := make([]string, len(styles))
	copy(out, styles)
	return out
}

func containsStyle(styles []string, name string) bool {
	for _, s := range styles {
		if s == name {
			return true
		}
	}
	return false
}
