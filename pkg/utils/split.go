package utils

// TextChunk is one span of a split document. Start and End are rune offsets
// into the source text.
type TextChunk struct {
	Text  string
	Start int
	End   int
}

// SplitTextWithOffsets splits a long string into chunks of approximately
// 'chunkSize' runes with 'overlap' runes preserved across boundaries.
// This is a simple character-based splitter. Ideally, use a tokenizer-aware splitter.
func SplitTextWithOffsets(text string, chunkSize int, overlap int) []TextChunk {
	runes := []rune(text)
	totalLen := len(runes)

	if totalLen <= chunkSize {
		return []TextChunk{{Text: text, Start: 0, End: totalLen}}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []TextChunk
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, TextChunk{
			Text:  string(runes[i:end]),
			Start: i,
			End:   end,
		})

		if end == totalLen {
			break
		}
	}

	return chunks
}

// SplitText returns only the chunk texts.
func SplitText(text string, chunkSize int, overlap int) []string {
	chunks := SplitTextWithOffsets(text, chunkSize, overlap)
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
