package engine

// settle runs full passes over every registered case until one changes
// nothing or the pass cap is hit. It returns the number of passes run and
// whether the loop reached a fixed point. Reward flags set during a pass
// only mark the loop dirty; they never start a nested loop.
func (e *Engine) settle() (int, bool) {
	defer func() { e.pass = 0 }()

	var changed []string
	for pass := 1; pass <= e.maxPasses; pass++ {
		e.pass = pass
		e.dirty = false
		changed = e.runPass()

		e.logger.Debug("re-evaluation pass", "pass", pass, "changed", changed, "dirty", e.dirty)
		if len(changed) == 0 && !e.dirty {
			return pass, true
		}
	}

	e.logger.Error("re-evaluation did not converge",
		"max_passes", e.maxPasses, "last_changed", changed)
	return e.maxPasses, false
}

// runPass advances every case once, in registration order, and returns the
// ids of the cases that changed.
func (e *Engine) runPass() []string {
	var changed []string
	for _, id := range e.reg.CaseIDs() {
		def, ok := e.reg.Case(id)
		if !ok {
			continue
		}
		if e.advance(def) {
			changed = append(changed, id)
		}
	}
	return changed
}
