package redaction

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"sort"
)

const maskByte = 'X'

// textRun is a string operand in a page content stream.
type textRun struct {
	start, end int // operand bytes including delimiters
	hex        bool
	text       []byte
	changed    bool
}

// maskContent replaces every detected character in the string operands of
// content with maskByte and returns the rewritten stream with the number of
// findings. Content without findings is returned unchanged.
func maskContent(ctx context.Context, content []byte, det detector) ([]byte, int, error) {
	runs := scanRuns(content)
	if len(runs) == 0 {
		return content, 0, nil
	}

	text, offsets := pageText(runs)
	spans, err := det.findText(ctx, text)
	if err != nil {
		return nil, 0, fmt.Errorf("inspect text: %w", err)
	}
	if len(spans) == 0 {
		return content, 0, nil
	}

	applyMask(runs, offsets, spans, len(text))
	return rewrite(content, runs), len(spans), nil
}

// pageText joins the runs with newlines, replacing bytes outside printable
// ASCII with spaces so that offsets map one to one onto run bytes.
func pageText(runs []textRun) (string, []int) {
	var buf bytes.Buffer
	offsets := make([]int, len(runs))
	for i, r := range runs {
		offsets[i] = buf.Len()
		for _, c := range r.text {
			if c < 0x20 || c > 0x7e {
				c = ' '
			}
			buf.WriteByte(c)
		}
		buf.WriteByte('\n')
	}
	return buf.String(), offsets
}

func applyMask(runs []textRun, offsets []int, spans []span, limit int) {
	for _, s := range spans {
		start, end := max(s.start, 0), min(s.end, limit)
		for p := start; p < end; p++ {
			i := sort.Search(len(offsets), func(k int) bool { return offsets[k] > p }) - 1
			if i < 0 {
				continue
			}
			local := p - offsets[i]
			if local >= len(runs[i].text) || runs[i].text[local] == ' ' {
				continue
			}
			runs[i].text[local] = maskByte
			runs[i].changed = true
		}
	}
}

func rewrite(content []byte, runs []textRun) []byte {
	var out bytes.Buffer
	prev := 0
	for _, r := range runs {
		if !r.changed {
			continue
		}
		out.Write(content[prev:r.start])
		if r.hex {
			out.WriteByte('<')
			out.WriteString(hex.EncodeToString(r.text))
			out.WriteByte('>')
		} else {
			writeLiteral(&out, r.text)
		}
		prev = r.end
	}
	out.Write(content[prev:])
	return out.Bytes()
}

func writeLiteral(out *bytes.Buffer, text []byte) {
	out.WriteByte('(')
	for _, c := range text {
		switch {
		case c == '(' || c == ')' || c == '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		case c < 0x20 || c > 0x7e:
			fmt.Fprintf(out, "\\%03o", c)
		default:
			out.WriteByte(c)
		}
	}
	out.WriteByte(')')
}

// scanRuns finds the literal and hex string operands of a content stream,
// skipping comments, dictionaries and inline image data.
func scanRuns(b []byte) []textRun {
	var runs []textRun
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '%':
			for i < len(b) && b[i] != '\n' && b[i] != '\r' {
				i++
			}
		case c == '(':
			text, end := readLiteral(b, i)
			runs = append(runs, textRun{start: i, end: end, text: text})
			i = end
		case c == '<':
			if i+1 < len(b) && b[i+1] == '<' {
				i += 2
				continue
			}
			text, end := readHex(b, i)
			runs = append(runs, textRun{start: i, end: end, hex: true, text: text})
			i = end
		case c == 'I' && inlineData(b, i):
			i = skipInlineImage(b, i+2)
		default:
			i++
		}
	}
	return runs
}

func readLiteral(b []byte, start int) ([]byte, int) {
	var out []byte
	depth := 0
	i := start + 1
	for i < len(b) {
		c := b[i]
		switch c {
		case '\\':
			i++
			if i >= len(b) {
				return out, i
			}
			e := b[i]
			switch {
			case e >= '0' && e <= '7':
				v := 0
				for n := 0; n < 3 && i < len(b) && b[i] >= '0' && b[i] <= '7'; n++ {
					v = v*8 + int(b[i]-'0')
					i++
				}
				out = append(out, byte(v))
				continue
			case e == 'n':
				out = append(out, '\n')
			case e == 'r':
				out = append(out, '\r')
			case e == 't':
				out = append(out, '\t')
			case e == 'b':
				out = append(out, '\b')
			case e == 'f':
				out = append(out, '\f')
			case e == '\r':
				if i+1 < len(b) && b[i+1] == '\n' {
					i++
				}
			case e == '\n':
			default:
				out = append(out, e)
			}
			i++
		case '(':
			depth++
			out = append(out, c)
			i++
		case ')':
			if depth == 0 {
				return out, i + 1
			}
			depth--
			out = append(out, c)
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return out, i
}

func readHex(b []byte, start int) ([]byte, int) {
	var digits []byte
	i := start + 1
	for i < len(b) && b[i] != '>' {
		if isHexDigit(b[i]) {
			digits = append(digits, b[i])
		}
		i++
	}
	if i < len(b) {
		i++
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	hex.Decode(out, digits)
	return out, i
}

func inlineData(b []byte, i int) bool {
	return i+2 < len(b) && b[i+1] == 'D' && isSpace(b[i+2]) && (i == 0 || isSpace(b[i-1]))
}

// skipInlineImage returns the index after the EI operator that ends the
// inline image whose data starts at from.
func skipInlineImage(b []byte, from int) int {
	for i := from + 1; i+1 < len(b); i++ {
		if b[i] == 'E' && b[i+1] == 'I' && isSpace(b[i-1]) && (i+2 == len(b) || isSpace(b[i+2])) {
			return i + 2
		}
	}
	return len(b)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\n', '\r', '\t', '\f', 0:
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
