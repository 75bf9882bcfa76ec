package index

import "strings"

// separators, in priority order: paragraph, line, CJK sentence enders, CJK
// clause separators, then hard character cuts.
var separators = []string{"\n\n", "\n", "。", "！", "？", "，", "、", ""}

// Split cuts text into chunks of roughly chunkSize runes with overlap runes
// shared between neighbours, preferring breaks at the highest-priority
// separator that yields pieces small enough. With zero overlap no chunk
// exceeds chunkSize; carried overlap may push a chunk slightly past it.
func Split(text string, chunkSize, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	pieces := split(text, chunkSize, separators)
	return mergePieces(pieces, chunkSize, overlap)
}

func split(text string, chunkSize int, seps []string) []string {
	if len([]rune(text)) <= chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return hardCut(text, chunkSize)
	}

	sep := seps[0]
	if sep == "" {
		return hardCut(text, chunkSize)
	}

	parts := strings.SplitAfter(text, sep)
	if len(parts) == 1 {
		// Separator absent, fall through to the next one.
		return split(text, chunkSize, seps[1:])
	}

	var out []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len([]rune(p)) > chunkSize {
			out = append(out, split(p, chunkSize, seps[1:])...)
		} else {
			out = append(out, p)
		}
	}
	return out
}

func hardCut(text string, chunkSize int) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

// mergePieces packs small pieces back together into chunks close to chunkSize,
// carrying overlap runes of trailing context into the next chunk. A chunk is
// only emitted once it holds content beyond the carried overlap, so no chunk
// consists of overlap alone.
func mergePieces(pieces []string, chunkSize, overlap int) []string {
	var chunks []string
	var current []rune
	carryLen := 0 // prefix of current that is overlap from the previous chunk

	for _, p := range pieces {
		pr := []rune(p)
		if len(current) > carryLen && len(current)+len(pr) > chunkSize {
			chunks = append(chunks, string(current))
			if overlap > 0 {
				tail := current
				if len(tail) > overlap {
					tail = tail[len(tail)-overlap:]
				}
				current = append([]rune(nil), tail...)
				carryLen = len(current)
			} else {
				current = nil
				carryLen = 0
			}
		}
		current = append(current, pr...)
	}
	if len(current) > carryLen {
		if s := string(current); strings.TrimSpace(s) != "" {
			chunks = append(chunks, s)
		}
	}
	return chunks
}
