package lsp

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/noodle-lang/noodlec/internal/lexer"
)

// TextDocumentPositionParams represents a position in a text document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Location represents a location in a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// lookup parses position params and finds the declaration of the
// identifier under the cursor.
func (s *Server) lookup(msg *jsonrpcMessage) (*Document, *symbol, lexer.Span, *jsonrpcMessage) {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil, nil, lexer.Span{}, replyError(msg, codeInvalidParams, "Invalid params: %v", err)
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Program == nil {
		return nil, nil, lexer.Span{}, nil
	}

	offset := positionToOffset(doc.Content, params.Position)
	ident := identAt(doc.Program, offset)
	if ident == nil {
		return doc, nil, lexer.Span{}, nil
	}
	return doc, resolve(doc.symbols, ident.Name, offset), ident.Span(), nil
}

func (s *Server) handleHover(msg *jsonrpcMessage) *jsonrpcMessage {
	doc, sym, span, errReply := s.lookup(msg)
	if errReply != nil {
		return errReply
	}
	if sym == nil {
		return reply(msg, nullResult)
	}

	r := nodeRange(doc.Content, span)
	return reply(msg, &Hover{
		Contents: MarkupContent{
			Kind:  "markdown",
			Value: fmt.Sprintf("```noodle\n%s\n```", sym.detail),
		},
		Range: &r,
	})
}

func (s *Server) handleDefinition(msg *jsonrpcMessage) *jsonrpcMessage {
	doc, sym, _, errReply := s.lookup(msg)
	if errReply != nil {
		return errReply
	}
	if sym == nil {
		return reply(msg, nullResult)
	}

	// Imports resolve to the binding, not the imported module.
	return reply(msg, &Location{
		URI:   doc.URI,
		Range: nodeRange(doc.Content, sym.span),
	})
}

// CompletionList represents a list of completion items.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

type CompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

const (
	completionKindMethod        = 2
	completionKindFunction      = 3
	completionKindField         = 5
	completionKindVariable      = 6
	completionKindClass         = 7
	completionKindModule        = 9
	completionKindKeyword       = 14
	completionKindTypeParameter = 25
)

func (s *Server) handleCompletion(msg *jsonrpcMessage) *jsonrpcMessage {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return replyError(msg, codeInvalidParams, "Invalid params: %v", err)
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return reply(msg, CompletionList{Items: []CompletionItem{}})
	}

	offset := positionToOffset(doc.Content, params.Position)
	return reply(msg, CompletionList{Items: completions(doc, offset)})
}

// completions offers class members after a dot, otherwise the names in
// scope followed by the keywords.
func completions(doc *Document, offset int) []CompletionItem {
	items := []CompletionItem{}

	if offset > 0 && offset <= len(doc.Content) && doc.Content[offset-1] == '.' {
		for i := range doc.symbols {
			sym := &doc.symbols[i]
			if sym.isMember() {
				items = append(items, CompletionItem{Label: sym.name, Kind: completionKind(sym.kind), Detail: sym.detail})
			}
		}
		return items
	}

	visible := visibleAt(doc.symbols, offset)
	sort.Slice(visible, func(i, j int) bool { return visible[i].name < visible[j].name })
	for _, sym := range visible {
		items = append(items, CompletionItem{Label: sym.name, Kind: completionKind(sym.kind), Detail: sym.detail})
	}
	for _, kw := range lexer.Keywords() {
		items = append(items, CompletionItem{Label: kw, Kind: completionKindKeyword})
	}
	return items
}

func completionKind(kind symbolKind) int {
	switch kind {
	case symFunction:
		return completionKindFunction
	case symClass:
		return completionKindClass
	case symField:
		return completionKindField
	case symMethod:
		return completionKindMethod
	case symImport:
		return completionKindModule
	case symTypeParam:
		return completionKindTypeParameter
	default:
		return completionKindVariable
	}
}
