// Copyright 2024 The Bone-Models Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcell

import "fmt"

// SteadyStateError indicates that the nonlinear solver did not converge to
// an admissible steady state
type SteadyStateError struct {
	Model string
	Msg   string
}

func (o *SteadyStateError) Error() string {
	return fmt.Sprintf("%s: steady state computation failed: %s", o.Model, o.Msg)
}

// IntegrationError indicates an ODE solver failure; Last holds the state at
// the last accepted point
type IntegrationError struct {
	Model  string
	T0, T1 float64
	Last   []float64
	Msg    string
}

func (o *IntegrationError) Error() string {
	return fmt.Sprintf("%s: integration over [%g,%g] failed: %s", o.Model, o.T0, o.T1, o.Msg)
}

// QueueError indicates that the bone packet queue violated volume
// conservation or received inconsistent rates
type QueueError struct {
	Msg string
}

func (o *QueueError) Error() string {
	return fmt.Sprintf("bone packet queue: %s", o.Msg)
}
