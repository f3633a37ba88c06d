package render

// Renderer renders one kind of use case result
type Renderer[T any] interface {
	Render(result T) error
}
