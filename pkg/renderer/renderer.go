package renderer

import "context"

// Renderer 定义配置文本渲染接口，使用泛型约束文档类型。
type Renderer[T any] interface {
	Render(ctx context.Context, doc T) (string, error)
}

// Parser 将配置文本解析成领域文档。
type Parser[T any] interface {
	Parse(ctx context.Context, text string) (T, error)
}
