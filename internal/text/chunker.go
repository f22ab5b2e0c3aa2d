// Package text splits extracted document text into retrieval-sized chunks.
package text

import (
	"regexp"
	"strings"
)

var headerRe = regexp.MustCompile(`(?m)^#{1,6}\s`)

// Chunk splits text into chunks of at most size characters with the given
// overlap, preferring markdown boundaries: the text is first split at
// headers, then packed paragraph by paragraph, and only paragraphs larger
// than size fall back to a sliding window with overlap.
func Chunk(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	for _, section := range splitSections(text) {
		chunks = append(chunks, chunkSection(section, size, overlap)...)
	}
	return chunks
}

// splitSections splits text at markdown headers, keeping each header with the
// content that follows it.
func splitSections(text string) []string {
	indices := headerRe.FindAllStringIndex(text, -1)

	var sections []string
	last := 0
	for _, loc := range indices {
		if loc[0] > last {
			sections = append(sections, text[last:loc[0]])
		}
		last = loc[0]
	}
	if last < len(text) {
		sections = append(sections, text[last:])
	}
	return sections
}

func chunkSection(section string, size, overlap int) []string {
	section = strings.TrimSpace(section)
	if section == "" {
		return nil
	}
	if len(section) <= size {
		return []string{section}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, para := range strings.Split(section, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if current.Len()+len(para)+2 <= size {
			if current.Len() > 0 {
				current.WriteString("\n\n")
			}
			current.WriteString(para)
			continue
		}

		flush()

		if len(para) > size {
			chunks = append(chunks, slideWindow(para, size, overlap)...)
			continue
		}
		current.WriteString(para)
	}

	flush()
	return chunks
}

// slideWindow splits an oversized paragraph into size-bounded chunks with
// overlap characters shared between consecutive chunks. The cut point backs
// up to the nearest space, newline, or sentence end within the last tenth of
// the window so words stay intact.
func slideWindow(content string, size, overlap int) []string {
	var chunks []string
	contentLen := len(content)

	start := 0
	for start < contentLen {
		end := start + size
		if end > contentLen {
			end = contentLen
		}

		if end < contentLen {
			lookBack := size / 10
			if lookBack > end-start {
				lookBack = end - start
			}
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		chunk := strings.TrimSpace(content[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= contentLen {
			break
		}
		// Guard against a non-advancing window when the cut point backed up
		// close to start.
		if next := end - overlap; next > start {
			start = next
		} else {
			start = end
		}
	}

	return chunks
}
