package assets

import "fmt"

const ScanPageSize = 123

// markupLen returns length of `&...;` span starting at i, or 0 when
// there is no span. Unmatched `&` is plain visible character.
func markupLen(runes []rune, i int) int {
	if runes[i] != '&' {
		return 0
	}
	for j := i + 1; j < len(runes); j++ {
		if runes[j] == ';' {
			return j - i + 1
		}
	}
	return 0
}

// Paginate splits text into pages of at most pageSize visible characters.
// Markup spans are not visible. Page breaks after the last space that fits,
// text without such space is cut exactly at pageSize.
func Paginate(text string, pageSize int) []string {
	if pageSize < 1 {
		panic(fmt.Sprintf("[assets] Invalid page size %d", pageSize))
	}
	runes := []rune(text)
	pages := make([]string, 0, len(runes)/pageSize+1)

	for start := 0; start < len(runes); {
		end, visible, lastSpace := start, 0, -1
		for end < len(runes) {
			if n := markupLen(runes, end); n != 0 {
				end += n
				continue
			}
			if visible+1 > pageSize {
				break
			}
			if runes[end] == ' ' {
				lastSpace = end
			}
			visible++
			end++
		}
		if end < len(runes) && lastSpace >= 0 {
			end = lastSpace + 1
		}
		pages = append(pages, string(runes[start:end]))
		start = end
	}
	return pages
}

// ScanPages paginates scan text and places title as second page
func ScanPages(text, title string) []string {
	pages := Paginate(text, ScanPageSize)
	if len(pages) == 0 {
		pages = []string{""}
	}
	result := make([]string, 0, len(pages)+1)
	result = append(result, pages[0], title)
	return append(result, pages[1:]...)
}
