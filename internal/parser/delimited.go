package parser

import (
	"github.com/noodle-lang/noodlec/internal/lexer"
)

type delimitedConfig struct {
	Closing   lexer.TokenType
	Separator lexer.TokenType

	AllowEmpty    bool
	AllowTrailing bool

	// Element names what a list entry is, for "expected X" messages.
	Element string
}

type delimitedResult[T any] struct {
	Items    []T
	Trailing bool
}

// parseDelimited parses `item (sep item)* sep?` up to cfg.Closing. curTok must
// be on the first element (or the closing token for an empty list). On
// success curTok is left on the closing token.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, parseItem func(idx int) (T, bool)) (delimitedResult[T], bool) {
	var result delimitedResult[T]

	if cfg.Separator == "" {
		cfg.Separator = lexer.COMMA
	}

	if cfg.Closing == "" {
		panic("parseDelimited requires a closing token")
	}

	element := cfg.Element
	if element == "" {
		element = "element"
	}

	if p.curTok.Type == cfg.Closing {
		if cfg.AllowEmpty {
			return result, true
		}
		p.reportExpected(element, p.curTok)
		return result, false
	}

	for {
		item, ok := parseItem(len(result.Items))
		if !ok {
			return result, false
		}
		result.Items = append(result.Items, item)

		switch p.peekTok.Type {
		case cfg.Separator:
			p.nextToken() // move to separator
			p.nextToken() // move to next potential element

			if p.curTok.Type == cfg.Closing {
				if cfg.AllowTrailing {
					result.Trailing = true
					return result, true
				}
				p.reportExpected(element, p.curTok)
				return result, false
			}
			continue
		case cfg.Closing:
			p.nextToken()
			return result, true
		default:
			p.reportExpected(lexer.Describe(cfg.Separator)+" or "+lexer.Describe(cfg.Closing), p.peekTok)
			return result, false
		}
	}
}
