package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"amznas/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			rows := [][]string{
				{"paths.data_dir", cfg.Paths.DataDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"recorder.binary", cfg.Recorder.Binary},
				{"recorder.device_version", cfg.Recorder.DeviceVersion},
				{"recorder.sample_rate", strconv.Itoa(cfg.Recorder.SampleRate)},
				{"defaults.lang", cfg.Defaults.Lang},
				{"defaults.researcher", cfg.Defaults.Researcher},
				{"display.command", cfg.Display.Command},
				{"display.cutoff", strconv.Itoa(cfg.Display.Cutoff)},
				{"display.order", strconv.Itoa(cfg.Display.Order)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable(
				[]string{"setting", "value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "set <setting> <value>",
		Short: "Change one setting and save the configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			key, value := strings.ToLower(strings.TrimSpace(args[0])), args[1]
			if err := applySetting(cfg, key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			confirm := func(prompt string) (string, error) {
				if yes {
					return "yes", nil
				}
				fmt.Fprint(out, prompt)
				return readLine(cmd.InOrStdin())
			}
			prompt := fmt.Sprintf("Set %s = %q and save to %s? [y/n] ", key, value, ctx.configPath)
			saved, err := config.SaveIfConfirmed(cfg, ctx.configPath, prompt, confirm)
			if err != nil {
				return err
			}
			if saved {
				fmt.Fprintf(out, "Saved %s\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Not saved")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Save without prompting")
	return cmd
}

func applySetting(cfg *config.Config, key, value string) error {
	switch key {
	case "paths.data_dir":
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return err
		}
		cfg.Paths.DataDir = expanded
	case "paths.log_dir":
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return err
		}
		cfg.Paths.LogDir = expanded
	case "recorder.binary":
		cfg.Recorder.Binary = value
	case "recorder.device_version":
		cfg.Recorder.DeviceVersion = value
	case "recorder.sample_rate":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("sample rate must be an integer: %w", err)
		}
		cfg.Recorder.SampleRate = rate
	case "defaults.lang":
		cfg.Defaults.Lang = strings.ToLower(value)
	case "defaults.researcher":
		cfg.Defaults.Researcher = strings.ToLower(value)
	case "display.command":
		cfg.Display.Command = value
	case "display.cutoff":
		cutoff, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cutoff must be an integer: %w", err)
		}
		cfg.Display.Cutoff = cutoff
	case "display.order":
		order, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("order must be an integer: %w", err)
		}
		cfg.Display.Order = order
	case "logging.format":
		cfg.Logging.Format = value
	case "logging.level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set the recorder binary and default identifiers.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}
