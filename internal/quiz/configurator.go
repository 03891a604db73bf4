package quiz

// Configurator is the pre-session draft the learner edits. It is the only
// state a quiz has before CreateSession.
type Configurator struct {
	cfg Config
}

// NewConfigurator starts from DefaultConfig.
func NewConfigurator() *Configurator {
	return &Configurator{cfg: DefaultConfig()}
}

// State is always StateConfiguring.
func (c *Configurator) State() State { return StateConfiguring }

// Config returns the draft configuration.
func (c *Configurator) Config() Config { return c.cfg }

// SetQuestionCount sets the draft question count. Validation happens on Start.
func (c *Configurator) SetQuestionCount(n int) { c.cfg.QuestionCount = n }

// SetStartDifficulty sets the draft starting tier.
func (c *Configurator) SetStartDifficulty(d Difficulty) { c.cfg.StartDifficulty = d }

// ToggleAdaptive flips adaptive mode.
func (c *Configurator) ToggleAdaptive() { c.cfg.Adaptive = !c.cfg.Adaptive }

// CycleQuestionCount moves to the next recognized count, wrapping around.
func (c *Configurator) CycleQuestionCount(step int) {
	idx := 0
	for i, n := range QuestionCounts {
		if n == c.cfg.QuestionCount {
			idx = i
		}
	}
	idx = (idx + step + len(QuestionCounts)) % len(QuestionCounts)
	c.cfg.QuestionCount = QuestionCounts[idx]
}

// CycleDifficulty moves to the next tier, wrapping around.
func (c *Configurator) CycleDifficulty(step int) {
	all := AllDifficulties()
	idx := 0
	for i, d := range all {
		if d == c.cfg.StartDifficulty {
			idx = i
		}
	}
	idx = (idx + step + len(all)) % len(all)
	c.cfg.StartDifficulty = all[idx]
}

// Start validates the draft and creates the session.
func (c *Configurator) Start() (*Session, error) {
	return CreateSession(c.cfg)
}
