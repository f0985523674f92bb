package cart

import (
	"fmt"
	"strconv"
	"strings"
)

// ChunkLimit is the per-message character budget of the hand-off channel.
const ChunkLimit = 5000

// formatYen groups digits the way the page does (1,500).
func formatYen(v int) string {
	s := strconv.Itoa(v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// HandoffText renders the fixed-format plain-text summary sent to the shop:
// a header, one line per cart line, a rule, the total, and the disclaimer
// that prices are provisional until physical inspection. Model and price
// segments are omitted when absent.
func HandoffText(lines []Line) string {
	var b strings.Builder
	b.WriteString("【仮査定依頼】\n")
	total := 0
	for _, l := range lines {
		qty := l.Qty
		if qty < 1 {
			qty = 1
		}
		total += l.Price * qty
		b.WriteString("・")
		b.WriteString(l.Name)
		if l.Model != "" {
			b.WriteString("［" + l.Model + "］")
		}
		fmt.Fprintf(&b, " ×%d", qty)
		if l.Price != 0 {
			fmt.Fprintf(&b, " @%s円", formatYen(l.Price))
		}
		b.WriteString("\n")
	}
	b.WriteString("――――\n")
	fmt.Fprintf(&b, "合計：%s円\n", formatYen(total))
	b.WriteString("※仮査定です。現物確認後に正式査定となります。")
	return b.String()
}

// ChunkText splits text into rune-counted chunks of at most maxChars,
// cutting at line boundaries. Only when the last boundary falls before 60%
// of the budget does a chunk get cut mid-line.
func ChunkText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = ChunkLimit
	}
	var chunks []string
	rest := []rune(text)
	for len(rest) > maxChars {
		cut := -1
		for i := maxChars; i >= 0; i-- {
			if rest[i] == '\n' {
				cut = i
				break
			}
		}
		if cut < maxChars*6/10 {
			cut = maxChars
		}
		chunks = append(chunks, string(rest[:cut]))
		rest = rest[cut:]
		if len(rest) > 0 && rest[0] == '\n' {
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		chunks = append(chunks, string(rest))
	}
	return chunks
}

// HandoffMessages chunks the hand-off text for a length-constrained channel
// and labels each chunk with its position when there is more than one.
func HandoffMessages(text string, maxChars int) []string {
	parts := ChunkText(text, maxChars)
	if len(parts) <= 1 {
		return parts
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprintf("(%d/%d)\n%s", i+1, len(parts), p)
	}
	return out
}
