package markup

// LinkFunc receives one inline link, image or reference link found on a
// line. index is the offset of the opening '['. link is the whole
// construct, text is the bracketed label including its brackets, and
// dest is the bracketed or parenthesized destination including its
// delimiters. The destination therefore starts at index+len(text).
type LinkFunc func(index int, link, text, dest string)

// ForEachLink scans line for `[text](dest)` and `[text][ref]` constructs
// and calls fn for each one, left to right. Escaped brackets are ignored,
// brackets nest, and a destination wrapped in <...> may contain ')'.
// Constructs spanning multiple lines are not seen.
func ForEachLink(line string, fn LinkFunc) {
	escaping := false

	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\':
			escaping = !escaping
			continue
		case escaping || line[i] != '[':
			escaping = false
			continue
		}

		textEnd := closingSymbol(line, i)
		if textEnd < 0 {
			continue
		}

		next := i
		if textEnd < len(line) && (line[textEnd] == '(' || line[textEnd] == '[') {
			if destEnd := closingSymbol(line, textEnd); destEnd >= 0 {
				fn(i, line[i:destEnd], line[i:textEnd], line[textEnd:destEnd])
				next = destEnd - 1
			}
		}

		// Resume after the label at least; labels never contain links.
		i = max(next, textEnd-1)
	}
}

// closingSymbol returns the offset just past the delimiter that closes the
// '[' or '(' at index, or -1 when the line ends first.
func closingSymbol(line string, index int) int {
	begin := line[index]
	end := byte(']')
	if begin == '(' {
		end = ')'
	}

	nesting := 0
	escaping := false
	pointy := false

	for i := index + 1; i < len(line); i++ {
		current := line[i]
		switch {
		case current == '\\':
			escaping = !escaping
		case !escaping && current == begin:
			nesting++
		case !escaping && current == end:
			if nesting > 0 {
				nesting--
			} else if !pointy {
				return i + 1
			}
		case i == index+1 && begin == '(' && current == '<':
			pointy = true
		case !escaping && pointy && current == '>':
			pointy = false
			nesting = 0
		default:
			escaping = false
		}
	}

	return -1
}
