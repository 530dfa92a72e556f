package corosync

import (
	"context"
	"fmt"
	"strings"

	ast "github.com/honeybbq/corosyncconf/pkg/ast/corosync"
	"github.com/honeybbq/corosyncconf/pkg/cserrors"
)

// indent is one nesting level in rendered output.
const indent = "    "

// PlainTextRenderer 将 section 树渲染为 corosync.conf 纯文本。
// Output is deterministic: attributes in insertion order, then child
// sections in document order, four spaces per nesting level. Parsing
// canonical text and rendering it back is byte identical.
type PlainTextRenderer struct{}

func NewPlainTextRenderer() *PlainTextRenderer {
	return &PlainTextRenderer{}
}

// Render 实现 renderer.Renderer。
func (r *PlainTextRenderer) Render(ctx context.Context, doc *ast.Section) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if doc == nil {
		return "", cserrors.Newf(cserrors.KindInternal, "document is nil")
	}

	var b strings.Builder
	renderInto(&b, doc, 0)
	return b.String(), nil
}

func renderInto(b *strings.Builder, section *ast.Section, depth int) {
	prefix := strings.Repeat(indent, depth)

	childDepth := depth
	if !section.IsRoot() {
		fmt.Fprintf(b, "%s%s {\n", prefix, section.Name())
		childDepth++
	}

	inner := strings.Repeat(indent, childDepth)
	for _, attr := range section.Attributes() {
		fmt.Fprintf(b, "%s%s: %s\n", inner, attr.Name, attr.Value)
	}
	for _, child := range section.Sections() {
		renderInto(b, child, childDepth)
	}

	if !section.IsRoot() {
		fmt.Fprintf(b, "%s}\n", prefix)
	}
}
