package util

import (
	"fmt"
	"strings"
)

// ParseSourceFile is a named piece of template source.
type ParseSourceFile struct {
	Content string
	URL     string

	lineStarts []int
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &ParseSourceFile{
		Content:    content,
		URL:        url,
		lineStarts: starts,
	}
}

// LocationAt converts a 1-based line and column, as reported by most decoders,
// into a ParseLocation. Out of range positions are clamped to the file bounds.
func (f *ParseSourceFile) LocationAt(line, col int) *ParseLocation {
	if line < 1 || col < 1 {
		return NewParseLocation(f, -1, -1, -1)
	}
	if line > len(f.lineStarts) {
		line = len(f.lineStarts)
	}
	offset := f.lineStarts[line-1] + col - 1
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	return NewParseLocation(f, offset, line-1, col-1)
}

// ParseLocation is a zero-based position inside a ParseSourceFile.
// An Offset of -1 means the position is unknown.
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String renders the location as url@line:col.
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// MoveBy moves the location by delta characters, tracking line breaks.
func (p *ParseLocation) MoveBy(delta int) *ParseLocation {
	source := p.File.Content
	offset, line, col := p.Offset, p.Line, p.Col

	for offset > 0 && delta < 0 {
		offset--
		delta++
		if source[offset] == '\n' {
			line--
			if prior := strings.LastIndex(source[:offset], "\n"); prior >= 0 {
				col = offset - prior - 1
			} else {
				col = offset
			}
		} else {
			col--
		}
	}

	for offset < len(source) && delta > 0 {
		ch := source[offset]
		offset++
		delta--
		if ch == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}

	return NewParseLocation(p.File, offset, line, col)
}

// LineText returns the full source line containing the location.
func (p *ParseLocation) LineText() string {
	if p.Offset < 0 || p.Line < 0 || p.Line >= len(p.File.lineStarts) {
		return ""
	}
	start := p.File.lineStarts[p.Line]
	end := len(p.File.Content)
	if p.Line+1 < len(p.File.lineStarts) {
		end = p.File.lineStarts[p.Line+1] - 1
	}
	return strings.TrimRight(p.File.Content[start:end], "\r")
}

// ParseSourceSpan is a half-open [Start, End) range of source.
type ParseSourceSpan struct {
	Start   *ParseLocation
	End     *ParseLocation
	Details string
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation, details string) *ParseSourceSpan {
	return &ParseSourceSpan{
		Start:   start,
		End:     end,
		Details: details,
	}
}

// Text returns the source covered by the span.
func (p *ParseSourceSpan) Text() string {
	if p.Start.Offset < 0 || p.End.Offset < p.Start.Offset {
		return ""
	}
	return p.Start.File.Content[p.Start.Offset:p.End.Offset]
}

func (p *ParseSourceSpan) String() string {
	if p.Details != "" {
		return fmt.Sprintf("%s (%s)", p.Start, p.Details)
	}
	return p.Start.String()
}
