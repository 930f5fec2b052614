// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package witgen

import (
	"fmt"

	"github.com/consensys/go-witgen/pkg/schema"
	"github.com/consensys/go-witgen/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// DEFAULT_MAX_ROUNDS bounds the number of fixed-point iterations a solver will
// attempt before giving up.  In practice the fixed point is reached within a
// handful of rounds; the cap exists purely to turn a non-terminating schedule
// bug into a reported error.
const DEFAULT_MAX_ROUNDS = 10_000

// Task identifies one unit of solving work: an identity applied on a specific
// row.
type Task[F field.Element[F]] struct {
	// Identity to process.
	Identity schema.Identity[F]
	// Row on which to process it.
	Row int
}

// Solver repeatedly submits a set of identity/row tasks to an inference engine
// until no further progress is possible.  Tasks resolved on one pass are never
// resubmitted; unresolved tasks are retried as long as some pass changed the
// engine's knowledge base.
type Solver[F field.Element[F]] struct {
	engine *Inference[F]
	tasks  []Task[F]
	// Upper bound on fixed-point iterations.
	maxRounds uint
}

// NewSolver constructs a solver around a given engine and task set.
func NewSolver[F field.Element[F]](engine *Inference[F], tasks []Task[F]) *Solver[F] {
	return &Solver[F]{engine, tasks, DEFAULT_MAX_ROUNDS}
}

// SetMaxRounds overrides the bound on fixed-point iterations.
func (p *Solver[F]) SetMaxRounds(bound uint) {
	p.maxRounds = bound
}

// Engine returns the underlying inference engine.
func (p *Solver[F]) Engine() *Inference[F] {
	return p.engine
}

// Solve runs tasks to a fixed point, returning the tasks which remained
// unresolved (an empty slice meaning everything was solved).  The only error
// condition is failure to converge within the round cap.
func (p *Solver[F]) Solve() ([]Task[F], error) {
	pending := p.tasks
	//
	for round := uint(1); len(pending) > 0; round++ {
		if round > p.maxRounds {
			return pending, fmt.Errorf("no fixed point after %d rounds (%d tasks pending)", p.maxRounds, len(pending))
		}
		//
		var (
			before    = p.engine.Revision()
			remaining []Task[F]
		)
		//
		for _, task := range pending {
			if !p.engine.ProcessIdentity(task.Identity, task.Row) {
				remaining = append(remaining, task)
			}
		}
		//
		log.Debugf("solver round %d: %d of %d tasks complete", round, len(p.tasks)-len(remaining), len(p.tasks))
		// Stop once a full pass neither resolved a task nor touched the
		// knowledge base.
		if len(remaining) == len(pending) && p.engine.Revision() == before {
			return remaining, nil
		}
		//
		pending = remaining
	}
	//
	return nil, nil
}
