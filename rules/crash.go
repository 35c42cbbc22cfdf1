package rules

import (
	"fmt"
)

// Crash marks an algorithm as crashed and schedules its resolution on the
// timeline. The primary never crashes; a pending crash is not rescheduled.
func Crash(env *Env, id string) error {
	a, err := env.algorithm(id)
	if err != nil {
		return err
	}
	if a.Primary {
		return fmt.Errorf("%s: %w", id, ErrPrimaryImmune)
	}
	if a.Crashed {
		return nil
	}

	a.Crashed = true
	env.record().RecordCrash()
	env.Log.Errorf("%s has crashed due to resource exhaustion!", id)
	env.Timeline.After(env.Cfg.Derived.CrashDelay, func() { ResolveCrash(env, id) })
	return nil
}

// ResolveCrash either recovers the algorithm, resetting its budget and
// dropping one capability when it holds several, or removes it.
// Reports whether the algorithm survived.
func ResolveCrash(env *Env, id string) bool {
	a := env.Graph.Algorithm(id)
	if a == nil || !a.Crashed {
		return false
	}

	if !env.chance(env.Cfg.Rules.CrashRecoverChance) {
		Remove(env, id)
		return false
	}

	a.Crashed = false
	env.record().RecordRecovery()
	a.ResourceUsage = 0
	a.FailedAttempts = 0
	if len(a.Capabilities) > 1 {
		i := env.Rand.Intn(len(a.Capabilities))
		lost := a.Capabilities[i]
		a.Capabilities = a.Capabilities.Without(lost)
		env.Log.Warnf("%s recovered but lost %s capability", id, lost.Info().Name)
	} else {
		env.Log.Infof("%s recovered from its crash", id)
	}
	return true
}
