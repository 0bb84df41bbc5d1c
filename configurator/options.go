package configurator

import "go.uber.org/zap"

// WizardOption configures a Wizard.
type WizardOption func(*options)

type options struct {
	policy       ClassificationPolicy
	logger       *zap.Logger
	onTransition func(from, to Step)
}

// WithClassificationPolicy sets which classification groups are mandatory.
// The default is PolicyAllGroups.
func WithClassificationPolicy(policy ClassificationPolicy) WizardOption {
	return func(o *options) {
		o.policy = policy
	}
}

// WithLogger sets the logger used for detail fetches.
func WithLogger(logger *zap.Logger) WizardOption {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransitionHook registers a function called after every step change,
// including the close on save or cancel (to is StepClosed).
func WithTransitionHook(fn func(from, to Step)) WizardOption {
	return func(o *options) {
		o.onTransition = fn
	}
}
