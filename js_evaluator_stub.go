//go:build !js_eval

package sel

// NewJSEvaluator returns nil unless built with the js_eval tag; rules fall
// back to ErrNoEvaluator handling in that case.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = newJSEvaluatorConfig(opts)
	return nil
}

func jsEvaluatorAvailable() bool { return false }
