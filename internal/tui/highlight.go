package tui

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/chipkajb/mr-bot/internal/model"
)

// token is a syntax-highlighted span of a line.
type token struct {
	Text  string
	Color string // ANSI color string, empty for default
}

// highlightRecords applies syntax highlighting to the text of each record,
// choosing a lexer from the file path. Returns one token slice per record;
// records come back as single plain tokens when no lexer matches or
// tokenization fails.
func highlightRecords(path string, records []model.LineRecord) [][]token {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	lexer := lexerForFile(path)
	if lexer == nil {
		return plainTokens(texts)
	}

	iterator, err := lexer.Tokenise(nil, strings.Join(texts, "\n"))
	if err != nil {
		return plainTokens(texts)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	result := make([][]token, 0, len(texts))
	var current []token

	for _, t := range iterator.Tokens() {
		parts := strings.Split(t.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = nil
			}
			if part != "" {
				current = append(current, token{Text: part, Color: tokenColor(style, t.Type)})
			}
		}
	}
	result = append(result, current)

	for len(result) < len(texts) {
		result = append(result, nil)
	}
	return result[:len(texts)]
}

func plainTokens(texts []string) [][]token {
	result := make([][]token, len(texts))
	for i, t := range texts {
		result[i] = []token{{Text: t}}
	}
	return result
}

func lexerForFile(path string) chroma.Lexer {
	lexer := lexers.Match(path)
	if lexer == nil {
		if ext := filepath.Ext(path); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
