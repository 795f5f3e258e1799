package parse

import (
	"strconv"

	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/source"
)

func parseFloat(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokKeyword
	tokPunct
)

type token struct {
	Kind tokenKind
	Span source.Span
	Text string
	Num  float64
}

var keywords = map[string]bool{
	"var":      true,
	"function": true,
	"return":   true,
	"true":     true,
	"false":    true,
	"null":     true,
	"for":      true,
	"of":       true,
}

// scanner produces tokens from one normalized source file.
type scanner struct {
	file     *source.File
	reporter diag.Reporter
	off      uint32
}

func newScanner(file *source.File, reporter diag.Reporter) *scanner {
	return &scanner{file: file, reporter: reporter}
}

func (s *scanner) span(start uint32) source.Span {
	return source.Span{File: s.file.ID, Start: start, End: s.off}
}

func (s *scanner) peekByte() (byte, bool) {
	if int(s.off) >= len(s.file.Content) {
		return 0, false
	}
	return s.file.Content[s.off], true
}

func (s *scanner) next() token {
	s.skipSpace()
	start := s.off
	c, ok := s.peekByte()
	if !ok {
		return token{Kind: tokEOF, Span: s.span(start)}
	}

	switch {
	case isIdentStart(c):
		return s.ident(start)
	case c >= '0' && c <= '9':
		return s.number(start)
	case c == '"' || c == '\'':
		return s.str(start, c)
	default:
		return s.punct(start)
	}
}

func (s *scanner) skipSpace() {
	for {
		c, ok := s.peekByte()
		if !ok {
			return
		}
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.off++
		case c == '/' && s.lookahead(1) == '/':
			for {
				c, ok := s.peekByte()
				if !ok || c == '\n' {
					break
				}
				s.off++
			}
		default:
			return
		}
	}
}

func (s *scanner) lookahead(n uint32) byte {
	if int(s.off+n) >= len(s.file.Content) {
		return 0
	}
	return s.file.Content[s.off+n]
}

func (s *scanner) ident(start uint32) token {
	for {
		c, ok := s.peekByte()
		if !ok || !isIdentPart(c) {
			break
		}
		s.off++
	}
	text := string(s.file.Content[start:s.off])
	kind := tokIdent
	if keywords[text] {
		kind = tokKeyword
	}
	return token{Kind: kind, Span: s.span(start), Text: text}
}

func (s *scanner) number(start uint32) token {
	sawDot := false
	for {
		c, ok := s.peekByte()
		if !ok {
			break
		}
		if c == '.' && !sawDot && s.lookahead(1) >= '0' && s.lookahead(1) <= '9' {
			sawDot = true
			s.off++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		s.off++
	}
	text := string(s.file.Content[start:s.off])
	num, err := parseFloat(text)
	if err != nil {
		diag.ReportError(s.reporter, diag.LexBadNumber, s.span(start), "malformed number literal "+text)
	}
	return token{Kind: tokNumber, Span: s.span(start), Text: text, Num: num}
}

func (s *scanner) str(start uint32, quote byte) token {
	s.off++ // opening quote
	var buf []byte
	for {
		c, ok := s.peekByte()
		if !ok || c == '\n' {
			diag.ReportError(s.reporter, diag.LexUnterminatedString, s.span(start), "unterminated string literal")
			break
		}
		s.off++
		if c == quote {
			break
		}
		if c == '\\' {
			if esc, ok := s.peekByte(); ok {
				s.off++
				switch esc {
				case 'n':
					c = '\n'
				case 't':
					c = '\t'
				default:
					c = esc
				}
			}
		}
		buf = append(buf, c)
	}
	return token{Kind: tokString, Span: s.span(start), Text: string(buf)}
}

var puncts = []string{"==", "!=", "&&", "||", "(", ")", "{", "}", "[", "]", ",", ";", ".", "=", "+", "-", "*", "/", "<", ">"}

func (s *scanner) punct(start uint32) token {
	rest := s.file.Content[s.off:]
	for _, p := range puncts {
		if len(rest) >= len(p) && string(rest[:len(p)]) == p {
			s.off += uint32(len(p))
			return token{Kind: tokPunct, Span: s.span(start), Text: p}
		}
	}
	s.off++
	sp := s.span(start)
	diag.ReportError(s.reporter, diag.LexUnknownChar, sp, "unexpected character "+string(rest[:1]))
	return token{Kind: tokPunct, Span: sp, Text: string(rest[:1])}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
