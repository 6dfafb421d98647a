// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"strings"
)

// Validity is the result of running one or more validation rules: either
// valid, or invalid with a non-empty ordered list of failure reasons.
// Validity forms a monoid under Combine: combining two valid results is
// valid, and combining anything with an invalid result accumulates the
// failures, left operand's failures first. Independent rules report
// through this type so that a single signal can surface every rule it
// violates at once.
type Validity struct {
	failures []error
}

// Valid returns a validity with no failures
func Valid() Validity {
	return Validity{}
}

// Invalid returns a validity carrying the given failures. Nil entries
// are dropped so rules can report unconditionally.
func Invalid(errs ...error) Validity {
	v := Validity{}
	for _, err := range errs {
		v.Add(err)
	}
	return v
}

// Ok returns true when no failures have been recorded
func (v Validity) Ok() bool {
	return len(v.failures) == 0
}

// Add records a failure. Adding nil is a no-op.
func (v *Validity) Add(err error) {
	if err == nil {
		return
	}
	v.failures = append(v.failures, err)
}

// Combine appends the other validity's failures after this one's
func (v Validity) Combine(other Validity) Validity {
	if other.Ok() {
		return v
	}
	ret := Validity{
		failures: make([]error, 0, len(v.failures)+len(other.failures)),
	}
	ret.failures = append(ret.failures, v.failures...)
	ret.failures = append(ret.failures, other.failures...)
	return ret
}

// Failures returns the recorded failures in evaluation order
func (v Validity) Failures() []error {
	return v.failures
}

// Err returns nil when valid, or a RuleViolations carrying every failure
func (v Validity) Err() error {
	if v.Ok() {
		return nil
	}
	return &RuleViolations{Violations: v.failures}
}

// RuleViolations carries the complete accumulated failure set from a
// composite validation. Individual failures remain reachable through
// errors.Is/errors.As via multi-error unwrapping.
type RuleViolations struct {
	Violations []error
}

func (e *RuleViolations) Error() string {
	tmpMsgs := make([]string, len(e.Violations))
	for idx, err := range e.Violations {
		tmpMsgs[idx] = err.Error()
	}
	return "rule violations: " + strings.Join(tmpMsgs, "; ")
}

func (e *RuleViolations) Unwrap() []error {
	return e.Violations
}
