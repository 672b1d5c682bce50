package bot

import "github.com/rs/zerolog"

// pollOperator flips a toggle when its key combination goes down. Holding
// the keys across polls does not flip it again.
func (o *Orchestrator) pollOperator() {
	if pressed := o.chordPressed(o.cfg.OverlayKeys); pressed && !o.overlayHeld {
		o.overlayOn = !o.overlayOn
		o.sim.SendText("debug overlay " + onOff(o.overlayOn))
		o.logger.Info().Bool("overlay", o.overlayOn).Msg("operator toggled overlay")
		o.overlayHeld = true
	} else if !pressed {
		o.overlayHeld = false
	}

	if pressed := o.chordPressed(o.cfg.VerbosityKeys); pressed && !o.verboseHeld {
		o.verbose = !o.verbose
		o.verbosity(o.verbose)
		o.sim.SendText("verbose logging " + onOff(o.verbose))
		o.logger.Info().Bool("verbose", o.verbose).Msg("operator toggled verbosity")
		o.verboseHeld = true
	} else if !pressed {
		o.verboseHeld = false
	}
}

func (o *Orchestrator) chordPressed(keys []string) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if !o.sim.KeyPressed(k) {
			return false
		}
	}
	return true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// globalVerbosity switches the zerolog global level to trace and back
func globalVerbosity() func(bool) {
	saved := zerolog.GlobalLevel()
	return func(verbose bool) {
		if verbose {
			saved = zerolog.GlobalLevel()
			zerolog.SetGlobalLevel(zerolog.TraceLevel)
			return
		}
		zerolog.SetGlobalLevel(saved)
	}
}
