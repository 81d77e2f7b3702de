package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/repr"
	verr "github.com/nihei9/tlgen/error"
	"github.com/sirupsen/logrus"
)

type ParserOption func(p *parser)

// Logger makes the parser log every match at the debug level.
func Logger(l logrus.FieldLogger) ParserOption {
	return func(p *parser) {
		p.logger = l
	}
}

// ParseRegion returns the matches of a region in source order. The first syntax error aborts
// the parse; it is returned as a *verr.SpecError whose Cause is a *SyntaxError.
func ParseRegion(r *Region, opts ...ParserOption) ([]Match, error) {
	p, err := newParser(r.Src, r.LineOffset)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger != nil {
		p.logger = p.logger.WithField("section", r.Section.String())
	}
	return p.parse()
}

// ParseTypeExpr parses a standalone type expression such as vector<vector<int32>>.
func ParseTypeExpr(src string) (*TypeExpr, error) {
	p, err := newParser([]byte(src), 0)
	if err != nil {
		return nil, err
	}
	return p.parseStandaloneTypeExpr()
}

func raiseSyntaxError(synErr *SyntaxError, tok *token) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: fmt.Sprintf("unexpected %v", tok),
		Row:    tok.pos.Row,
		Col:    tok.pos.Col,
	})
}

type parser struct {
	lex       *lexer
	lines     []string
	rowOffset int
	buf       []*token
	lastTok   *token
	logger    logrus.FieldLogger

	// While skipComments is true, comment tokens are discarded. It is set inside a definition
	// where comments are not part of the grammar.
	skipComments bool
}

func newParser(src []byte, rowOffset int) (*parser, error) {
	lex, err := newLexer(src, rowOffset)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(src), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &parser{
		lex:       lex,
		lines:     lines,
		rowOffset: rowOffset,
	}, nil
}

func (p *parser) parse() (matches []Match, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			panic(v)
		}
		matches = nil
		retErr = err
	}()
	return p.parseRegion(), nil
}

func (p *parser) parseStandaloneTypeExpr() (expr *TypeExpr, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			panic(v)
		}
		expr = nil
		retErr = err
	}()
	p.skipComments = true
	expr = p.parseTypeExpr()
	if !p.consume(tokenKindEOF) {
		raiseSyntaxError(synErrTrailingTokens, p.peek())
	}
	return expr, nil
}

func (p *parser) parseRegion() []Match {
	matches := []Match{}
	for {
		var m Match
		switch tok := p.peek(); tok.kind {
		case tokenKindEOF:
			return matches
		case tokenKindComment:
			p.consume(tokenKindComment)
			m = &CommentMatch{
				Text: p.lastTok.text,
				Row:  p.lastTok.pos.Row,
			}
		case tokenKindID:
			m = p.parseDefinition()
		default:
			raiseSyntaxError(synErrNoDefinitionName, tok)
		}
		if p.logger != nil {
			p.logger.Debugf("matched %v", repr.String(m))
		}
		matches = append(matches, m)
	}
}

func (p *parser) parseDefinition() *DefinitionMatch {
	p.skipComments = true
	defer func() {
		p.skipComments = false
	}()

	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoDefinitionName, p.peek())
	}
	nameTok := p.lastTok

	params := []*Param{}
	for p.peek().kind == tokenKindID {
		params = append(params, p.parseParam())
	}

	if !p.consume(tokenKindEquals) {
		raiseSyntaxError(synErrNoEquals, p.peek())
	}
	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoTrailingName, p.peek())
	}
	trailing := p.lastTok.text
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(synErrNoSemicolon, p.peek())
	}
	semicolonRow := p.lastTok.pos.Row

	// The rest of the line following the semicolon is not part of any match.
	p.skipComments = false
	if tok := p.peek(); tok.kind == tokenKindComment && tok.pos.Row == semicolonRow {
		p.consume(tokenKindComment)
	}

	return &DefinitionMatch{
		Name:         nameTok.text,
		Params:       params,
		TrailingName: trailing,
		SourceLine:   p.sourceLine(nameTok.pos.Row),
		Row:          nameTok.pos.Row,
	}
}

func (p *parser) parseParam() *Param {
	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoDefinitionName, p.peek())
	}
	nameTok := p.lastTok
	if !p.consume(tokenKindColon) {
		// `name = Type` lacks only the equal sign in front of the trailing name.
		if p.peek().kind == tokenKindSemicolon {
			raiseSyntaxError(synErrNoEquals, nameTok)
		}
		raiseSyntaxError(synErrNoColon, p.peek())
	}
	return &Param{
		Name: nameTok.text,
		Type: p.parseTypeExpr(),
	}
}

func (p *parser) parseTypeExpr() *TypeExpr {
	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoParamType, p.peek())
	}
	expr := &TypeExpr{
		Name: p.lastTok.text,
	}
	if p.consume(tokenKindLAngle) {
		expr.Arg = p.parseTypeExpr()
		if !p.consume(tokenKindRAngle) {
			raiseSyntaxError(synErrUnclosedTypeArg, p.peek())
		}
	}
	return expr
}

func (p *parser) sourceLine(row int) string {
	i := row - p.rowOffset - 1
	if i < 0 || i >= len(p.lines) {
		return ""
	}
	return strings.TrimSpace(p.lines[i])
}

func (p *parser) peek() *token {
	for {
		if len(p.buf) == 0 {
			tok, err := p.lex.next()
			if err != nil {
				panic(err)
			}
			p.buf = append(p.buf, tok)
		}
		tok := p.buf[0]
		if tok.kind == tokenKindInvalid {
			panic(&verr.SpecError{
				Cause:  synErrInvalidToken,
				Detail: tok.text,
				Row:    tok.pos.Row,
				Col:    tok.pos.Col,
			})
		}
		if tok.kind == tokenKindComment && p.skipComments {
			p.buf = p.buf[1:]
			continue
		}
		return tok
	}
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind != expected {
		return false
	}
	p.buf = p.buf[1:]
	p.lastTok = tok
	return true
}
