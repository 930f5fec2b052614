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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-witgen/pkg/schema"
	"github.com/consensys/go-witgen/pkg/util"
	"github.com/consensys/go-witgen/pkg/util/field/goldilocks"
	"github.com/consensys/go-witgen/pkg/witgen"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// solveCmd runs the inference engine over one of the built-in demonstration
// constraint systems and prints the derived witness computation code.
var solveCmd = &cobra.Command{
	Use:   "solve [fib|bytes]",
	Short: "derive witness computation code for a demo constraint system.",
	Long: `Run the inference engine over a built-in constraint system, deriving code which
	 computes all witness cells from the designated inputs, and print that code.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		demo := "fib"
		//
		if len(args) > 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		} else if len(args) == 1 {
			demo = args[0]
		}
		//
		var (
			engine *witgen.Inference[goldilocks.Element]
			tasks  []witgen.Task[goldilocks.Element]
		)
		//
		switch demo {
		case "fib":
			engine, tasks = fibonacciDemo(int(GetUint(cmd, "rows")))
		case "bytes":
			engine, tasks = byteDecompositionDemo()
		default:
			fmt.Printf("unknown demo %q\n", demo)
			os.Exit(1)
		}
		//
		solver := witgen.NewSolver(engine, tasks)
		//
		remaining, err := solver.Solve()
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		for _, effect := range engine.Code() {
			fmt.Println(effect.String())
		}
		//
		if len(remaining) > 0 {
			fmt.Printf("// %d identity/row pairs unresolved\n", len(remaining))
		}
	},
}

// fibonacciDemo constructs a two-column Fibonacci-style recurrence (X' = Y and
// Y' = X + Y) over a given number of rows, with the first row designated as
// input.
func fibonacciDemo(rows int) (*witgen.Inference[goldilocks.Element], []witgen.Task[goldilocks.Element]) {
	var (
		colX = schema.NewColumn(0, "X", schema.COMMITTED)
		colY = schema.NewColumn(1, "Y", schema.COMMITTED)
		//
		i1 = &schema.Polynomial[goldilocks.Element]{ID: 1, Expr: schema.Subtract[goldilocks.Element](
			schema.NextCol[goldilocks.Element](colX),
			schema.Col[goldilocks.Element](colY))}
		i2 = &schema.Polynomial[goldilocks.Element]{ID: 2, Expr: schema.Subtract[goldilocks.Element](
			schema.NextCol[goldilocks.Element](colY),
			schema.Sum[goldilocks.Element](schema.Col[goldilocks.Element](colX), schema.Col[goldilocks.Element](colY)))}
		//
		engine = witgen.NewInference[goldilocks.Element](
			witgen.NoFixedColumns[goldilocks.Element]{},
			witgen.NoRangeConstraints[goldilocks.Element]{},
			witgen.Cell{Column: colX.ID, Name: colX.Name, Row: 0},
			witgen.Cell{Column: colY.ID, Name: colY.Name, Row: 0},
		)
		//
		tasks []witgen.Task[goldilocks.Element]
	)
	//
	for row := 0; row < rows; row++ {
		tasks = append(tasks,
			witgen.Task[goldilocks.Element]{Identity: i1, Row: row},
			witgen.Task[goldilocks.Element]{Identity: i2, Row: row})
	}
	//
	return engine, tasks
}

// byteDecompositionDemo constructs a system decomposing an input word A into
// two byte limbs A0, A1 (constrained via a byte lookup) such that A = A0 +
// 256 * A1.
func byteDecompositionDemo() (*witgen.Inference[goldilocks.Element], []witgen.Task[goldilocks.Element]) {
	var (
		colA  = schema.NewColumn(0, "A", schema.COMMITTED)
		colA0 = schema.NewColumn(1, "A0", schema.COMMITTED)
		colA1 = schema.NewColumn(2, "A1", schema.COMMITTED)
		//
		ranges = byteRanges{colA0.ID: {}, colA1.ID: {}}
		//
		i1 = &schema.Polynomial[goldilocks.Element]{ID: 1, Expr: schema.Subtract[goldilocks.Element](
			schema.Sum[goldilocks.Element](
				schema.Col[goldilocks.Element](colA0),
				schema.Product[goldilocks.Element](schema.Const64[goldilocks.Element](256), schema.Col[goldilocks.Element](colA1))),
			schema.Col[goldilocks.Element](colA))}
		//
		engine = witgen.NewInference[goldilocks.Element](
			witgen.NoFixedColumns[goldilocks.Element]{}, ranges,
			witgen.Cell{Column: colA.ID, Name: colA.Name, Row: 0},
		)
		//
		tasks = []witgen.Task[goldilocks.Element]{{Identity: i1, Row: 0}}
	)
	//
	return engine, tasks
}

// byteRanges constrains a set of columns (by identifier) to byte values.
type byteRanges map[uint]struct{}

// RangeConstraint implementation for the witgen.RangeConstraintSource
// interface.
func (p byteRanges) RangeConstraint(column schema.Column) util.Option[witgen.RangeConstraint[goldilocks.Element]] {
	if _, ok := p[column.ID]; ok {
		return util.Some(witgen.NewMaskConstraint64[goldilocks.Element](0xff))
	}
	//
	return util.None[witgen.RangeConstraint[goldilocks.Element]]()
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().Uint("rows", 4, "number of rows to solve")
}
