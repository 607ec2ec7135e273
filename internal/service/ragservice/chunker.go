package ragservice

// boundarySlack is how far back from the target cut we are willing to move to
// end a chunk on a sentence boundary.
const boundarySlack = 300

// ChunkText splits text into overlapping windows of roughly target runes.
// When a '.' occurs within boundarySlack runes before the target cut, the
// chunk ends right after it; the next window re-reads the last overlap runes.
func ChunkText(text string, target, overlap int) []string {
	if target <= 0 || text == "" {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= target {
		overlap = target - 1
	}

	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		end := start + target
		if end >= n {
			chunks = append(chunks, string(runes[start:n]))
			break
		}

		cut := end
		for i := end; i > end-boundarySlack && i > start; i-- {
			if runes[i-1] == '.' {
				cut = i
				break
			}
		}

		chunks = append(chunks, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			// Degenerate window; skip the overlap to guarantee progress.
			next = cut
		}
		start = next
	}
	return chunks
}
