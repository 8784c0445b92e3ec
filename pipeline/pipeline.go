// Package pipeline chains preprocessing steps and a final model behind a
// single estimator surface. Steps are applied in declared order, each step
// feeding the next, which keeps a transform+fit workflow to one Fit call
// and one Predict call.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/pkg/errors"
)

// Step pairs a name with a pipeline component. Every step except the last
// must be a model.Transformer; the last step may be a supervised estimator
// or another transformer.
type Step struct {
	Name      string
	Component interface{}
}

// Pipeline applies its steps in order: transformers first, the final step
// last. It exposes the scikit-learn composite API, including step__param
// routing for hyperparameters.
type Pipeline struct {
	model.BaseEstimator

	steps []Step
}

// =============================================================================
// Construction
// =============================================================================

// New builds a Pipeline from the given steps. It validates that at least one
// step is present, that names are non-empty and unique, that every step
// before the last transforms, and that the final step is either a supervised
// estimator or a transformer.
func New(steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, errors.NewValidationError("steps", "pipeline needs at least one step", len(steps))
	}

	seen := make(map[string]struct{}, len(steps))
	for i, step := range steps {
		if step.Name == "" {
			return nil, errors.NewValidationError("steps", fmt.Sprintf("step %d has an empty name", i), step.Name)
		}
		if strings.Contains(step.Name, "__") {
			return nil, errors.NewValidationError("steps", "step names must not contain '__'", step.Name)
		}
		if _, dup := seen[step.Name]; dup {
			return nil, errors.NewValidationError("steps", fmt.Sprintf("duplicate step name %q", step.Name), step.Name)
		}
		seen[step.Name] = struct{}{}

		if step.Component == nil {
			return nil, errors.NewValidationError("steps", fmt.Sprintf("step %q has a nil component", step.Name), nil)
		}

		if i < len(steps)-1 {
			if _, ok := step.Component.(model.Transformer); !ok {
				return nil, errors.NewValidationError("steps",
					fmt.Sprintf("step %q must be a transformer (only the final step may be a model)", step.Name),
					fmt.Sprintf("%T", step.Component))
			}
		}
	}

	final := steps[len(steps)-1].Component
	_, isFitter := final.(model.Fitter)
	_, isTransformer := final.(model.Transformer)
	if !isFitter && !isTransformer {
		return nil, errors.NewValidationError("steps",
			fmt.Sprintf("final step %q is neither an estimator nor a transformer", steps[len(steps)-1].Name),
			fmt.Sprintf("%T", final))
	}

	p := &Pipeline{steps: make([]Step, len(steps))}
	copy(p.steps, steps)
	return p, nil
}

// Steps returns a copy of the pipeline's steps in order.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// NamedStep returns the component registered under the given name.
func (p *Pipeline) NamedStep(name string) (interface{}, error) {
	for _, step := range p.steps {
		if step.Name == name {
			return step.Component, nil
		}
	}
	return nil, errors.NewValueError("Pipeline.NamedStep", fmt.Sprintf("unknown step %q", name))
}

func (p *Pipeline) final() Step {
	return p.steps[len(p.steps)-1]
}

// =============================================================================
// Fitting and prediction
// =============================================================================

// Fit fits each transformer in order, feeding its output to the next step,
// and finally fits the last step on the fully transformed data. A supervised
// final step receives y; a transformer final step ignores it.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	current, err := p.fitTransformers(X)
	if err != nil {
		return err
	}

	final := p.final()
	switch c := final.Component.(type) {
	case model.Fitter:
		if y == nil {
			return errors.NewValueError("Pipeline.Fit", fmt.Sprintf("final step %q needs a target", final.Name))
		}
		if err := c.Fit(current, y); err != nil {
			return err
		}
	case model.Transformer:
		if err := c.Fit(current); err != nil {
			return err
		}
	}

	p.SetFitted()
	return nil
}

// fitTransformers runs FitTransform through every step before the last and
// returns the transformed data.
func (p *Pipeline) fitTransformers(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for _, step := range p.steps[:len(p.steps)-1] {
		t := step.Component.(model.Transformer)
		next, err := t.FitTransform(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// applyTransformers runs Transform through every step before the last.
func (p *Pipeline) applyTransformers(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for _, step := range p.steps[:len(p.steps)-1] {
		t := step.Component.(model.Transformer)
		next, err := t.Transform(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// Predict transforms X through every step before the last and predicts with
// the final step.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}

	current, err := p.applyTransformers(X)
	if err != nil {
		return nil, err
	}

	final := p.final()
	predictor, ok := final.Component.(model.Predictor)
	if !ok {
		return nil, errors.NewValueError("Pipeline.Predict", fmt.Sprintf("final step %q does not predict", final.Name))
	}
	return predictor.Predict(current)
}

// PredictProba transforms X and returns the final step's probability
// estimates. The final step must be a classifier.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "PredictProba")
	}

	current, err := p.applyTransformers(X)
	if err != nil {
		return nil, err
	}

	final := p.final()
	clf, ok := final.Component.(interface {
		PredictProba(X mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, errors.NewValueError("Pipeline.PredictProba", fmt.Sprintf("final step %q has no probability estimates", final.Name))
	}
	return clf.PredictProba(current)
}

// Transform applies every step, including the final one, which must be a
// transformer.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}

	current, err := p.applyTransformers(X)
	if err != nil {
		return nil, err
	}

	final := p.final()
	t, ok := final.Component.(model.Transformer)
	if !ok {
		return nil, errors.NewValueError("Pipeline.Transform", fmt.Sprintf("final step %q does not transform", final.Name))
	}
	return t.Transform(current)
}

// FitTransform fits the whole pipeline and returns the transformed data.
// The final step must be a transformer; y is accepted for signature parity
// with Fit and ignored.
func (p *Pipeline) FitTransform(X, y mat.Matrix) (mat.Matrix, error) {
	final := p.final()
	t, ok := final.Component.(model.Transformer)
	if !ok {
		return nil, errors.NewValueError("Pipeline.FitTransform", fmt.Sprintf("final step %q does not transform", final.Name))
	}

	current, err := p.fitTransformers(X)
	if err != nil {
		return nil, err
	}
	out, err := t.FitTransform(current)
	if err != nil {
		return nil, err
	}

	p.SetFitted()
	return out, nil
}

// Score transforms X and delegates scoring to the final step.
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	if !p.IsFitted() {
		return 0, errors.NewNotFittedError("Pipeline", "Score")
	}

	current, err := p.applyTransformers(X)
	if err != nil {
		return 0, err
	}

	final := p.final()
	scorer, ok := final.Component.(model.Scorer)
	if !ok {
		return 0, errors.NewValueError("Pipeline.Score", fmt.Sprintf("final step %q does not score", final.Name))
	}
	return scorer.Score(current, y)
}

// =============================================================================
// Parameter management
// =============================================================================

// GetParams returns every step's hyperparameters flattened into a single
// map under step__param keys.
func (p *Pipeline) GetParams() map[string]interface{} {
	params := make(map[string]interface{})
	for _, step := range p.steps {
		getter, ok := step.Component.(model.ParamGetter)
		if !ok {
			continue
		}
		for name, value := range getter.GetParams() {
			params[step.Name+"__"+name] = value
		}
	}
	return params
}

// SetParams routes step__param keys to the named steps and resets the
// pipeline's fitted state. Keys are validated before anything is applied,
// so a bad key leaves every step untouched.
func (p *Pipeline) SetParams(params map[string]interface{}) error {
	if len(params) == 0 {
		return nil
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	grouped := make(map[string]map[string]interface{})
	for _, key := range keys {
		parts := strings.SplitN(key, "__", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return errors.NewValidationError(key, "pipeline parameters use the step__param form", params[key])
		}
		stepName, paramName := parts[0], parts[1]

		component, err := p.NamedStep(stepName)
		if err != nil {
			return errors.NewValidationError(key, fmt.Sprintf("unknown step %q", stepName), params[key])
		}
		if _, ok := component.(model.ParamSetter); !ok {
			return errors.NewValidationError(key, fmt.Sprintf("step %q does not accept parameters", stepName), params[key])
		}

		if grouped[stepName] == nil {
			grouped[stepName] = make(map[string]interface{})
		}
		grouped[stepName][paramName] = params[key]
	}

	// Apply in declared step order so behavior does not depend on map order.
	for _, step := range p.steps {
		stepParams, ok := grouped[step.Name]
		if !ok {
			continue
		}
		if err := step.Component.(model.ParamSetter).SetParams(stepParams); err != nil {
			return err
		}
	}

	p.Reset()
	return nil
}

// Clone returns an unfitted pipeline with every step cloned. Components
// without clone support are carried over as shared handles.
func (p *Pipeline) Clone() model.Estimator {
	steps := make([]Step, len(p.steps))
	for i, step := range p.steps {
		component := step.Component
		switch c := component.(type) {
		case model.TransformerCloner:
			component = c.CloneTransformer()
		case model.Cloner:
			component = c.Clone()
		}
		steps[i] = Step{Name: step.Name, Component: component}
	}
	return &Pipeline{steps: steps}
}

// String returns a compact description of the pipeline.
func (p *Pipeline) String() string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name
	}
	return fmt.Sprintf("Pipeline(steps=[%s])", strings.Join(names, ", "))
}
