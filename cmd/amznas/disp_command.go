package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"amznas/internal/acquire"
	"amznas/internal/config"
)

func newDispCommand(ctx *commandContext) *cobra.Command {
	var (
		langFlag string
		spkrFlag string
		resFlag  string
		dateFlag string
		itemFlag string
		wavFile  string
		token    int
		lx       bool
		autozero int
	)

	cmd := &cobra.Command{
		Use:   "disp",
		Short: "Display an existing acquisition",
		Long: `Look up an acquisition by stimulus and token, subtract the session's
baseline measurement from the airflow channels, and show the result.
--token -1 addresses the most recent recording of the stimulus.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			o, err := ctx.buildOrchestrator()
			if err != nil {
				return err
			}

			req := acquire.DisplayRequest{
				Date:     strings.TrimSpace(dateFlag),
				Item:     strings.TrimSpace(itemFlag),
				Token:    tokenRef(token),
				Lx:       lx,
				Autozero: autozeroMode(autozero),
			}

			if wavFile != "" {
				path, err := config.ExpandPath(wavFile)
				if err != nil {
					return err
				}
				req.WavFile = path
			} else {
				if req.Item == "" {
					return fmt.Errorf("stimulus label is required (--item, or --wavfile for a loose file)")
				}
				if req.Lang, err = resolveIdent(langFlag, cfg.Defaults.Lang, "language"); err != nil {
					return err
				}
				if req.Spkr, err = resolveIdent(spkrFlag, "", "speaker"); err != nil {
					return err
				}
				if req.Researcher, err = resolveIdent(resFlag, cfg.Defaults.Researcher, "researcher"); err != nil {
					return err
				}
			}

			return o.Display(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Language code (3 letters; defaults from config)")
	cmd.Flags().StringVarP(&spkrFlag, "spkr", "s", "", "Speaker code (3 letters)")
	cmd.Flags().StringVarP(&resFlag, "res", "r", "", "Researcher code (3 letters; defaults from config)")
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Session date, YYYYMMDD (defaults to today)")
	cmd.Flags().StringVarP(&itemFlag, "item", "i", "", "Stimulus label")
	cmd.Flags().StringVarP(&wavFile, "wavfile", "w", "", "Display this file directly, bypassing the session lookup")
	cmd.Flags().IntVarP(&token, "token", "n", -1, "Token number; negative counts back from the most recent")
	cmd.Flags().BoolVar(&lx, "lx", false, "Treat channel 2 as the EGG (Lx) signal")
	cmd.Flags().IntVar(&autozero, "autozero", 0, "Baseline token for adjustment; negative disables")

	return cmd
}
