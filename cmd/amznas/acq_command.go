package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"amznas/internal/acquire"
	"amznas/internal/session"
)

func newAcqCommand(ctx *commandContext) *cobra.Command {
	var (
		langFlag   string
		spkrFlag   string
		resFlag    string
		itemFlag   string
		uttFlag    string
		seconds    int
		lx         bool
		zero       bool
		noDisp     bool
		autozero   int
	)

	cmd := &cobra.Command{
		Use:   "acq",
		Short: "Record a new acquisition into today's session",
		Long: `Record one acquisition: allocate the next token for the stimulus,
write the device sidecar, run the recorder, and append the run to the
session document. Without --seconds the recording runs until Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lang, err := resolveIdent(langFlag, cfg.Defaults.Lang, "language")
			if err != nil {
				return err
			}
			spkr, err := resolveIdent(spkrFlag, "", "speaker")
			if err != nil {
				return err
			}
			res, err := resolveIdent(resFlag, cfg.Defaults.Researcher, "researcher")
			if err != nil {
				return err
			}

			item := strings.TrimSpace(itemFlag)
			if zero {
				item = session.ZeroItem
			} else if item == "" {
				return fmt.Errorf("stimulus label is required (--item, or --zero for a baseline run)")
			}

			o, err := ctx.buildOrchestrator()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := o.Acquire(runCtx, acquire.AcquireRequest{
				Lang:       lang,
				Spkr:       spkr,
				Researcher: res,
				Item:       item,
				Utterance:  uttFlag,
				Seconds:    seconds,
				Lx:         lx,
				Display:    !noDisp,
				Autozero:   autozeroMode(autozero),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded %s (token %d)\n", result.WavPath, result.Token)
			if len(result.Means) > 0 {
				fmt.Fprintln(out, "Baseline means stored in session document")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Language code (3 letters; defaults from config)")
	cmd.Flags().StringVarP(&spkrFlag, "spkr", "s", "", "Speaker code (3 letters)")
	cmd.Flags().StringVarP(&resFlag, "res", "r", "", "Researcher code (3 letters; defaults from config)")
	cmd.Flags().StringVarP(&itemFlag, "item", "i", "", "Stimulus label")
	cmd.Flags().StringVarP(&uttFlag, "utt", "u", "", "Utterance prompt text for the device sidecar")
	cmd.Flags().IntVarP(&seconds, "seconds", "t", 0, "Recording duration; 0 records until interrupted")
	cmd.Flags().BoolVar(&lx, "lx", false, "Enable the EGG (Lx) channel")
	cmd.Flags().BoolVar(&zero, "zero", false, "Record a baseline measurement instead of a stimulus")
	cmd.Flags().BoolVar(&noDisp, "no-disp", false, "Skip the display step after recording")
	cmd.Flags().IntVar(&autozero, "autozero", 0, "Baseline token for display adjustment; negative disables")
	_ = cmd.MarkFlagRequired("spkr")

	return cmd
}
