package logical

// Zip describes combining the rows of two or more inputs positionally: the
// i-th row of the output is the concatenation of the i-th rows of all inputs.
type Zip struct {
	// Sources are the upstream operators, in order. There must be at least
	// two.
	Sources []Operator
}

var _ Operator = (*Zip)(nil)

// Name returns the display name.
func (z *Zip) Name() string { return "Zip" }

// Inputs implements [Operator].
func (z *Zip) Inputs() []Operator { return z.Sources }

// Kind implements [Operator].
func (z *Zip) Kind() OperatorKind { return KindZip }

func (z *Zip) isOperator() {}
