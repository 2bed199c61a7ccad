package steps

import (
	"github.com/carsonhq/carson-bot/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("comment_filter", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewCommentFilter(deps), nil
	})

	r.Register("status_resolver", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewStatusResolver(deps)
	})
}
