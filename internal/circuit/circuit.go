package circuit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Instruction is one line of a circuit, or a REPEAT block.
type Instruction struct {
	Name    string
	Args    []float64
	Targets []Target

	// Repeat and Body are set only on REPEAT blocks.
	Repeat int
	Body   *Circuit
}

// Info returns the gate description of the instruction.
func (in Instruction) Info() GateInfo {
	info, _ := Gate(in.Name)
	return info
}

// Products splits the targets of an MPP instruction into its products.
func (in Instruction) Products() [][]Target {
	var out [][]Target
	var cur []Target
	joined := false
	for _, t := range in.Targets {
		if t.Kind == CombinerTarget {
			joined = true
			continue
		}
		if !joined && cur != nil {
			out = append(out, cur)
			cur = nil
		}
		cur = append(cur, t)
		joined = false
	}
	if cur != nil {
		out = append(out, cur)
	}
	return out
}

// NumMeasurements counts the scalar outcomes the instruction produces.
func (in Instruction) NumMeasurements() int {
	switch in.Info().Kind {
	case Measurement:
		return len(in.Targets)
	case ProductMeasurement:
		return len(in.Products())
	case Block:
		return in.Repeat * in.Body.NumMeasurements()
	}
	return 0
}

func (in Instruction) canFuse(next Instruction) bool {
	if in.Name != next.Name || !slices.Equal(in.Args, next.Args) {
		return false
	}
	info, ok := Gate(in.Name)
	return ok && info.Fusable
}

// line renders a non-block instruction.
func (in Instruction) line() string {
	var sb strings.Builder
	sb.WriteString(in.Name)
	if len(in.Args) > 0 {
		sb.WriteByte('(')
		for i, a := range in.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(FormatFloat(a))
		}
		sb.WriteByte(')')
	}
	afterCombiner := false
	for _, t := range in.Targets {
		if t.Kind == CombinerTarget {
			sb.WriteByte('*')
			afterCombiner = true
			continue
		}
		if !afterCombiner {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.String())
		afterCombiner = false
	}
	return sb.String()
}

// FormatFloat renders an instruction argument the shortest way that
// round-trips.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Circuit is an append-only instruction stream.
type Circuit struct {
	instructions []Instruction

	// barrier is the index of the first instruction that may absorb fused
	// targets. Instructions before it are sealed.
	barrier int

	// marks are the positions handed out by Mark, ascending.
	marks []int
}

// New returns an empty circuit.
func New() *Circuit {
	return &Circuit{}
}

// Instructions returns the instruction list. Callers must not modify it.
func (c *Circuit) Instructions() []Instruction {
	return c.instructions
}

// Len returns the number of top-level instructions.
func (c *Circuit) Len() int {
	return len(c.instructions)
}

// Append adds an instruction, fusing it into the previous one when both share
// a fusable name and identical arguments.
func (c *Circuit) Append(in Instruction) {
	in.Name = Canonical(in.Name)
	n := len(c.instructions)
	if n > c.barrier && in.Body == nil && c.instructions[n-1].canFuse(in) {
		last := &c.instructions[n-1]
		last.Targets = append(last.Targets, in.Targets...)
		return
	}
	in.Targets = slices.Clone(in.Targets)
	in.Args = slices.Clone(in.Args)
	c.instructions = append(c.instructions, in)
}

// AppendRepeat appends body as a REPEAT block.
func (c *Circuit) AppendRepeat(n int, body *Circuit) {
	c.instructions = append(c.instructions, Instruction{Name: "REPEAT", Repeat: n, Body: body})
}

// Mark seals the instructions emitted so far against fusion and returns the
// current length, for use with RepeatSince.
func (c *Circuit) Mark() int {
	c.barrier = len(c.instructions)
	if len(c.marks) == 0 || c.marks[len(c.marks)-1] != c.barrier {
		c.marks = append(c.marks, c.barrier)
	}
	return c.barrier
}

// RepeatSizeError reports a block whose measurement count differs from the
// block emitted before it, so record offsets inside it cannot be reused on
// every iteration.
type RepeatSizeError struct {
	Block    int
	Previous int
}

func (e *RepeatSizeError) Error() string {
	return fmt.Sprintf("repeat block has %d measurements, previous block has %d", e.Block, e.Previous)
}

// RepeatSince replaces every instruction after mark with a REPEAT block that
// runs them n times. n == 1 leaves the circuit unchanged.
//
// When n > 1 and an earlier mark exists, the instructions between that mark
// and this one must measure as many outcomes as the block itself. Otherwise a
// RepeatSizeError is returned and the circuit is left as it was.
func (c *Circuit) RepeatSince(mark, n int) error {
	if n < 1 {
		return fmt.Errorf("repeat count %d must be positive", n)
	}
	if mark < 0 || mark > len(c.instructions) {
		return fmt.Errorf("repeat mark %d out of range [0, %d]", mark, len(c.instructions))
	}
	if n == 1 || mark == len(c.instructions) {
		return nil
	}

	block := countMeasurements(c.instructions[mark:])
	if prev, ok := c.markBefore(mark); ok {
		if got := countMeasurements(c.instructions[prev:mark]); got != block {
			return &RepeatSizeError{Block: block, Previous: got}
		}
	}

	body := &Circuit{instructions: slices.Clone(c.instructions[mark:])}
	c.instructions = c.instructions[:mark]
	c.AppendRepeat(n, body)
	c.barrier = len(c.instructions)
	c.marks = slices.DeleteFunc(c.marks, func(m int) bool { return m > mark })
	return nil
}

func (c *Circuit) markBefore(mark int) (int, bool) {
	for i := len(c.marks) - 1; i >= 0; i-- {
		if c.marks[i] < mark {
			return c.marks[i], true
		}
	}
	return 0, false
}

func countMeasurements(ins []Instruction) int {
	total := 0
	for _, in := range ins {
		total += in.NumMeasurements()
	}
	return total
}

// NumMeasurements counts scalar outcomes, expanding REPEAT blocks.
func (c *Circuit) NumMeasurements() int {
	return countMeasurements(c.instructions)
}

// NumQubits returns one more than the largest qubit index referenced.
func (c *Circuit) NumQubits() int {
	n := 0
	for _, in := range c.instructions {
		if in.Body != nil {
			n = max(n, in.Body.NumQubits())
			continue
		}
		for _, t := range in.Targets {
			if t.IsQubit() {
				n = max(n, t.Value+1)
			}
		}
	}
	return n
}

// NumDetectors counts DETECTOR instructions, expanding REPEAT blocks.
func (c *Circuit) NumDetectors() int {
	total := 0
	for _, in := range c.instructions {
		switch {
		case in.Body != nil:
			total += in.Repeat * in.Body.NumDetectors()
		case in.Name == "DETECTOR":
			total++
		}
	}
	return total
}

// NumObservables returns one more than the largest observable index.
func (c *Circuit) NumObservables() int {
	n := 0
	for _, in := range c.instructions {
		switch {
		case in.Body != nil:
			n = max(n, in.Body.NumObservables())
		case in.Name == "OBSERVABLE_INCLUDE" && len(in.Args) > 0:
			n = max(n, int(in.Args[0])+1)
		}
	}
	return n
}

// String renders the circuit in Stim's text format.
func (c *Circuit) String() string {
	var sb strings.Builder
	c.write(&sb, "")
	return strings.TrimSuffix(sb.String(), "\n")
}

func (c *Circuit) write(sb *strings.Builder, indent string) {
	for _, in := range c.instructions {
		sb.WriteString(indent)
		if in.Body != nil {
			fmt.Fprintf(sb, "REPEAT %d {\n", in.Repeat)
			in.Body.write(sb, indent+"    ")
			sb.WriteString(indent)
			sb.WriteString("}\n")
			continue
		}
		sb.WriteString(in.line())
		sb.WriteByte('\n')
	}
}
