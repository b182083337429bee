// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package wizard implements the forward-only multi-step verification flows.

Architecture:

  - Flow: An ordered list of named steps and the index of the current one.
  - Submit: Advances by exactly one step when the submitted step is current
    and its check passes. Any failure leaves the index untouched.
  - Store: Persists flows per client so a reload resumes on the same step.

There is no backward transition. The only way out of a flow is [Store.Delete].
Verification code expiry belongs to the external backend, not to this layer.
*/
package wizard

import (
	"errors"
	"fmt"
)

// Kind names a flow type.
type Kind string

const (
	KindRegister      Kind = "register"
	KindPasswordReset Kind = "password-reset"
)

// Registration steps.
const (
	StepRole         = "role"
	StepPhone        = "phone"
	StepVerification = "verification"
	StepDetails      = "details"
	StepComplete     = "complete"
	StepReset        = "reset"
	StepDone         = "done"
)

var (
	// ErrWrongStep is returned when a step other than the current one is submitted.
	ErrWrongStep = errors.New("wizard: step is not current")

	// ErrFinished is returned when submitting to a flow already on its last step.
	ErrFinished = errors.New("wizard: flow already finished")
)

// Steps returns the ordered step names of kind.
func Steps(kind Kind) []string {
	switch kind {
	case KindRegister:
		return []string{StepRole, StepPhone, StepVerification, StepDetails, StepComplete}
	case KindPasswordReset:
		return []string{StepPhone, StepVerification, StepReset, StepDone}
	default:
		return nil
	}
}

// Flow is the persisted state of one wizard.
//
// Data carries values collected by earlier steps (phone digits, account type,
// verification code) that later steps need.
type Flow struct {
	Kind  Kind              `json:"kind"`
	Steps []string          `json:"steps"`
	Index int               `json:"index"`
	Data  map[string]string `json:"data,omitempty"`
}

// New starts a flow of kind on its first step.
func New(kind Kind) (*Flow, error) {
	steps := Steps(kind)
	if steps == nil {
		return nil, fmt.Errorf("wizard: unknown kind %q", kind)
	}
	return &Flow{Kind: kind, Steps: steps, Data: map[string]string{}}, nil
}

// Current returns the name of the current step.
func (flow *Flow) Current() string {
	return flow.Steps[flow.Index]
}

// Finished reports whether the flow reached its terminal step.
func (flow *Flow) Finished() bool {
	return flow.Index == len(flow.Steps)-1
}

// Get returns a value collected by an earlier step.
func (flow *Flow) Get(key string) string {
	return flow.Data[key]
}

/*
Submit runs check for step and advances on success.

Description: The step must be current and the flow unfinished. check receives
a scratch copy of Data; its writes are committed only when it returns nil, so
a failing step leaves both the index and the collected data unchanged.

Parameters:
  - step: string
  - check: func(data map[string]string) error

Returns:
  - error: [ErrWrongStep], [ErrFinished], or the error returned by check
*/
func (flow *Flow) Submit(step string, check func(data map[string]string) error) error {
	if flow.Finished() {
		return ErrFinished
	}
	if step != flow.Current() {
		return ErrWrongStep
	}

	scratch := make(map[string]string, len(flow.Data)+2)
	for k, v := range flow.Data {
		scratch[k] = v
	}

	if check != nil {
		if err := check(scratch); err != nil {
			return err
		}
	}

	flow.Data = scratch
	flow.Index++
	return nil
}
