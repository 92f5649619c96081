package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/effindex/audit"
)

// evaluationFlags are the guardrail and flagging flags shared by compute and batch.
type evaluationFlags struct {
	safety           float64 // Safety coefficient [0..1]
	proportionality  float64 // Proportionality / guardrail fit [0..1]
	guardrailProfile string  // Named default safety/proportionality pair
	mode             string  // execute | explore
	flagPolicy       string  // threshold-ladder | strict-guardrail-policy
}

func (f *evaluationFlags) register(cmd *cobra.Command) {
	def := audit.GuardrailProfiles[audit.ProfileAudit]
	cmd.Flags().Float64Var(&f.safety, "safety", def.Safety, "Safety coefficient [0..1] (default from --guardrail-profile)")
	cmd.Flags().Float64Var(&f.proportionality, "proportionality", def.Proportionality, "Proportionality / guardrail fit [0..1] (default from --guardrail-profile)")
	cmd.Flags().StringVar(&f.guardrailProfile, "guardrail-profile", "", "Guardrail defaults: audit (0.9/0.9) or simulator (1.0/1.0); empty uses defaults.yaml")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Scoring mode for the threshold ladder: execute or explore")
	cmd.Flags().StringVar(&f.flagPolicy, "flag-policy", "", "Flag policy: threshold-ladder or strict-guardrail-policy")
}

// resolve combines explicit flags with cfg. A flag value is used only when the
// user set it; otherwise the defaults file (or built-in default) wins.
func (f *evaluationFlags) resolve(cmd *cobra.Command, cfg Config) (*audit.Evaluator, audit.Guardrails, error) {
	profile := cfg.Defaults.GuardrailProfile
	if cmd.Flags().Changed("guardrail-profile") {
		profile = f.guardrailProfile
	}
	g, err := audit.LookupProfile(cfg.Profiles, profile)
	if err != nil {
		return nil, audit.Guardrails{}, err
	}
	if cmd.Flags().Changed("safety") {
		g.Safety = f.safety
	}
	if cmd.Flags().Changed("proportionality") {
		g.Proportionality = f.proportionality
	}

	mode := cfg.Defaults.Mode
	if cmd.Flags().Changed("mode") {
		mode = f.mode
	}
	if mode != "" && !audit.IsValidMode(mode) {
		logrus.Warnf("unknown mode %q; using %s", mode, audit.ModeExecute)
	}

	policy := cfg.Defaults.FlagPolicy
	if cmd.Flags().Changed("flag-policy") {
		policy = f.flagPolicy
	}
	ev, err := audit.NewEvaluator(policy, mode)
	if err != nil {
		return nil, audit.Guardrails{}, fmt.Errorf("--flag-policy: %w", err)
	}
	logrus.Debugf("guardrails: profile=%s safety=%g proportionality=%g mode=%s policy=%s",
		profile, g.Safety, g.Proportionality, ev.Mode, ev.Policy.Name())
	return ev, g, nil
}
