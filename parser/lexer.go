package parser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindComment   = tokenKind("comment")
	tokenKindID        = tokenKind("id")
	tokenKindColon     = tokenKind(":")
	tokenKindEquals    = tokenKind("=")
	tokenKindSemicolon = tokenKind(";")
	tokenKindLAngle    = tokenKind("<")
	tokenKindRAngle    = tokenKind(">")
	tokenKindEOF       = tokenKind("eof")
	tokenKindInvalid   = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newCommentToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindComment,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

func (t *token) String() string {
	switch t.kind {
	case tokenKindEOF:
		return "<eof>"
	case tokenKindID, tokenKindInvalid:
		return fmt.Sprintf("'%v'", t.text)
	case tokenKindComment:
		return fmt.Sprintf("'//%v'", t.text)
	}
	return fmt.Sprintf("'%v'", string(t.kind))
}

const commentMarker = "//"

var lexEntries = []*mlspec.LexEntry{
	{
		Kind:    "line_comment",
		Pattern: `//[^\u{000A}\u{000D}]*`,
	},
	{
		Kind:    "newline",
		Pattern: `\u{000A}|\u{000D}\u{000A}`,
	},
	{
		Kind:    "white_space",
		Pattern: `[\u{0009}\u{0020}]+`,
	},
	{
		Kind:    "identifier",
		Pattern: `[0-9A-Za-z_]+`,
	},
	{
		Kind:    "colon",
		Pattern: mlspec.LexPattern(mlspec.EscapePattern(":")),
	},
	{
		Kind:    "equals",
		Pattern: mlspec.LexPattern(mlspec.EscapePattern("=")),
	},
	{
		Kind:    "semicolon",
		Pattern: mlspec.LexPattern(mlspec.EscapePattern(";")),
	},
	{
		Kind:    "l_angle",
		Pattern: mlspec.LexPattern(mlspec.EscapePattern("<")),
	},
	{
		Kind:    "r_angle",
		Pattern: mlspec.LexPattern(mlspec.EscapePattern(">")),
	},
}

var (
	clexspec    *mlspec.CompiledLexSpec
	clexspecErr error
)

func init() {
	clexspec, clexspecErr = compileLexSpec()
}

func compileLexSpec() (*mlspec.CompiledLexSpec, error) {
	s, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    "tl",
		Entries: lexEntries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			for i, cErr := range cErrs {
				if i > 0 {
					fmt.Fprintf(&b, "\n")
				}
				fmt.Fprintf(&b, "%v: %v", cErr.Kind, cErr.Cause)
				if cErr.Detail != "" {
					fmt.Fprintf(&b, ": %v", cErr.Detail)
				}
			}
			return nil, fmt.Errorf("cannot compile the lexer: %v", b.String())
		}
		return nil, err
	}
	return s, nil
}

// lexer turns a region into tokens. Rows it reports are absolute file rows: the lexer adds
// rowOffset to every row the driver reports.
type lexer struct {
	d         *mldriver.Lexer
	rowOffset int

	// end is the position just past the last token other than white spaces and newlines.
	// The driver gives no position to EOF, so the EOF token takes this one.
	end Position
}

func newLexer(src []byte, rowOffset int) (*lexer, error) {
	if clexspecErr != nil {
		return nil, clexspecErr
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(clexspec), bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	return &lexer{
		d:         d,
		rowOffset: rowOffset,
		end:       newPosition(rowOffset+1, 1),
	}, nil
}

// next returns the next token, skipping white spaces and newlines. Comments are returned
// because whether they matter depends on where they appear.
func (l *lexer) next() (*token, error) {
	for {
		tok, err := l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return newEOFToken(l.end), nil
		}
		pos := newPosition(l.rowOffset+tok.Row+1, tok.Col+1)
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), pos), nil
		}

		kind := clexspec.KindNames[tok.KindID].String()
		if kind == "white_space" || kind == "newline" {
			continue
		}
		l.end = newPosition(pos.Row, pos.Col+utf8.RuneCount(tok.Lexeme))

		switch kind {
		case "line_comment":
			text := strings.TrimPrefix(string(tok.Lexeme), commentMarker)
			return newCommentToken(strings.TrimRight(text, " \t"), pos), nil
		case "identifier":
			return newIDToken(string(tok.Lexeme), pos), nil
		case "colon":
			return newSymbolToken(tokenKindColon, pos), nil
		case "equals":
			return newSymbolToken(tokenKindEquals, pos), nil
		case "semicolon":
			return newSymbolToken(tokenKindSemicolon, pos), nil
		case "l_angle":
			return newSymbolToken(tokenKindLAngle, pos), nil
		case "r_angle":
			return newSymbolToken(tokenKindRAngle, pos), nil
		default:
			return newInvalidToken(string(tok.Lexeme), pos), nil
		}
	}
}
