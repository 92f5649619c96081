package audit

// Input is one observation to evaluate.
type Input struct {
	Output      float64 `yaml:"output"`
	VisibleTime float64 `yaml:"visible_time"`
	Entropy     float64 `yaml:"entropy"`
}

// Guardrails carries the optional governance inputs. Values are clamped to [0, 1]
// during evaluation.
type Guardrails struct {
	Safety          float64 `yaml:"safety"`
	Proportionality float64 `yaml:"proportionality"`
}

// Result is the outcome of Evaluator.Evaluate.
// GuardFactor, Score and Flag are only set when guardrails were supplied.
type Result struct {
	Index       float64  `yaml:"index"`
	GuardFactor *float64 `yaml:"guard_factor,omitempty"`
	Score       *float64 `yaml:"score,omitempty"`
	Flag        string   `yaml:"flag,omitempty"`
}

// Scored reports whether guardrail fields are present.
func (r Result) Scored() bool {
	return r.GuardFactor != nil && r.Score != nil
}

// Evaluator binds a flag policy and a mode. The zero value uses the threshold
// ladder in execute mode. Evaluator holds no state between calls.
type Evaluator struct {
	Policy FlagPolicy
	Mode   Mode
}

// NewEvaluator creates an Evaluator for the named policy and mode.
// The mode string is parsed leniently (see ParseMode); the policy name is not.
func NewEvaluator(policy, mode string) (*Evaluator, error) {
	p, err := ParseFlagPolicy(policy)
	if err != nil {
		return nil, err
	}
	return &Evaluator{Policy: p, Mode: ParseMode(mode)}, nil
}

// Evaluate computes the index for in and, when g is non-nil, the guard factor,
// score and flag. Returns an error wrapping ErrInvalidArgument on bad input.
func (e *Evaluator) Evaluate(in Input, g *Guardrails) (Result, error) {
	idx, err := ComputeIndex(in.Output, in.VisibleTime, in.Entropy)
	if err != nil {
		return Result{}, err
	}
	res := Result{Index: idx}
	if g == nil {
		return res, nil
	}
	guard := ComputeGuardFactor(g.Safety, g.Proportionality)
	score := ComputeScore(idx, guard)
	res.GuardFactor = &guard
	res.Score = &score
	res.Flag = e.policy().Flag(idx, guard, score, ParseMode(string(e.Mode)))
	return res, nil
}

func (e *Evaluator) policy() FlagPolicy {
	if e.Policy == nil {
		return ThresholdLadderPolicy{}
	}
	return e.Policy
}
