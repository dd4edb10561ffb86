package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// extractMarkdownText reduces a markdown document to plain text by walking
// the parsed AST: inline text and code content survive, formatting does
// not. Block boundaries become newlines so the transcript parser still
// sees its line-oriented structure.
func extractMarkdownText(source []byte) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
	)
	doc := md.Parser().Parse(text.NewReader(source))

	var out strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				out.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					out.WriteByte('\n')
				}
			}
		case *ast.FencedCodeBlock:
			if entering {
				writeCodeLines(&out, node, source)
			}
		case *ast.CodeBlock:
			if entering {
				writeCodeLines(&out, node, source)
			}
		case *ast.Heading, *ast.Paragraph, *ast.ListItem, *ast.Blockquote:
			if !entering {
				out.WriteByte('\n')
			}
		case *extast.TableCell:
			if !entering {
				out.WriteByte(' ')
			}
		case *extast.TableRow, *extast.TableHeader:
			if !entering {
				out.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out.String()), nil
}

func writeCodeLines(out *strings.Builder, node ast.Node, source []byte) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		out.Write(segment.Value(source))
	}
	out.WriteByte('\n')
}
