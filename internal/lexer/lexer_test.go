package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loxi/internal/lexer"
	"loxi/internal/report"
	"loxi/internal/token"
)

func scan(t *testing.T, src string) ([]token.Token, *report.Reporter) {
	t.Helper()
	rep := report.New()
	toks := lexer.New(src, rep).Scan()
	return toks, rep
}

func TestScanEmptySourceYieldsOnlyEOF(t *testing.T) {
	toks, rep := scan(t, "")
	require.Len(t, toks, 1)
	assert.Equal(t, token.EOF, toks[0].Kind)
	assert.False(t, rep.HadError)
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, rep := scan(t, "(){},.-+;*? : ! != = == < <= > >= /")
	require.False(t, rep.HadError)

	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR,
		token.QUESTION, token.COLON, token.BANG, token.BANG_EQUAL, token.EQUAL,
		token.EQUAL_EQUAL, token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.SLASH, token.EOF,
	}, kinds)
}

func TestScanStringLiteral(t *testing.T) {
	toks, rep := scan(t, `"hello world"`)
	require.False(t, rep.HadError)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Literal)
}

func TestScanUnterminatedStringIsLexicalError(t *testing.T) {
	_, rep := scan(t, `"unterminated`)
	assert.True(t, rep.HadError)
}

func TestScanNumberLiteral(t *testing.T) {
	toks, rep := scan(t, "123.45")
	require.False(t, rep.HadError)
	require.Len(t, toks, 2)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, "123.45", toks[0].Lexeme)
}

func TestScanLineCommentIsDiscarded(t *testing.T) {
	toks, rep := scan(t, "var x = 1; // trailing comment\nvar y = 2;")
	require.False(t, rep.HadError)
	for _, tok := range toks {
		assert.NotEqual(t, "// trailing comment", tok.Lexeme)
	}
}

func TestScanNonNestableBlockComment(t *testing.T) {
	toks, rep := scan(t, "/* outer /* inner */ still_here */")
	require.False(t, rep.HadError)
	// the comment ends at the first "*/", so "still_here" and the trailing
	// "*/" are scanned as ordinary tokens, not swallowed by nesting.
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
	assert.Equal(t, "still_here", toks[0].Lexeme)
}

func TestScanUnterminatedBlockCommentIsLexicalError(t *testing.T) {
	_, rep := scan(t, "/* never closed")
	assert.True(t, rep.HadError)
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, rep := scan(t, "and class else false for fun if nil or print return super this true var while notakeyword")
	require.False(t, rep.HadError)
	want := []token.Kind{
		token.AND, token.CLASS, token.ELSE, token.FALSE, token.FOR, token.FUN, token.IF,
		token.NIL, token.OR, token.PRINT, token.RETURN, token.SUPER, token.THIS, token.TRUE,
		token.VAR, token.WHILE, token.IDENTIFIER, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equalf(t, k, toks[i].Kind, "token %d (%q)", i, toks[i].Lexeme)
	}
}

func TestScanBreakIsNotReserved(t *testing.T) {
	toks, rep := scan(t, "break")
	require.False(t, rep.HadError)
	require.Len(t, toks, 2)
	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
}

func TestScanUnexpectedCharacterIsLexicalErrorButContinues(t *testing.T) {
	toks, rep := scan(t, "1 $ 2")
	assert.True(t, rep.HadError)
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds)
}

// TestScanRoundTripsOffsetsAndLines checks that every non-EOF token's
// lexeme matches the source slice at its recorded offset, and that line
// numbers never decrease.
func TestScanRoundTripsOffsetsAndLines(t *testing.T) {
	src := "var a = 1;\nvar b = \"two\";\nprint a + b;"
	toks, rep := scan(t, src)
	require.False(t, rep.HadError)

	lastLine := 1
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		require.GreaterOrEqual(t, tok.Line, lastLine)
		lastLine = tok.Line
		if tok.Kind == token.STRING {
			// lexeme includes the surrounding quotes; literal does not.
			assert.Equal(t, src[tok.Offset:tok.Offset+len(tok.Lexeme)], tok.Lexeme)
			continue
		}
		assert.Equal(t, src[tok.Offset:tok.Offset+len(tok.Lexeme)], tok.Lexeme)
	}
}
