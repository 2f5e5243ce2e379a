package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"amznas/internal/ident"
	"amznas/internal/session"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect recorded sessions",
	}

	sessionCmd.AddCommand(newSessionListCommand(ctx))
	sessionCmd.AddCommand(newSessionShowCommand(ctx))

	return sessionCmd
}

var datePattern = regexp.MustCompile(`^\d{8}$`)

type sessionInfo struct {
	lang       string
	spkr       string
	date       string
	recordings int
}

func newSessionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions in the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sessions, err := scanSessions(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintf(out, "No sessions under %s\n", cfg.Paths.DataDir)
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				name := ident.LanguageName(ident.Code(s.lang))
				rows = append(rows, []string{
					s.lang, name, s.spkr, s.date, strconv.Itoa(s.recordings),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"lang", "language", "spkr", "date", "recordings"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

// scanSessions walks the three fixed levels of the acquisition tree:
// data_dir/<lang>/<spkr>/<YYYYMMDD>. Anything not matching the layout is
// skipped rather than reported; the data directory routinely accumulates
// stray files during fieldwork.
func scanSessions(dataDir string) ([]sessionInfo, error) {
	langs, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan data directory: %w", err)
	}

	var sessions []sessionInfo
	for _, langEntry := range langs {
		if !langEntry.IsDir() {
			continue
		}
		if _, err := ident.Parse(langEntry.Name()); err != nil {
			continue
		}
		langDir := filepath.Join(dataDir, langEntry.Name())
		spkrs, err := os.ReadDir(langDir)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", langDir, err)
		}
		for _, spkrEntry := range spkrs {
			if !spkrEntry.IsDir() {
				continue
			}
			if _, err := ident.Parse(spkrEntry.Name()); err != nil {
				continue
			}
			spkrDir := filepath.Join(langDir, spkrEntry.Name())
			dates, err := os.ReadDir(spkrDir)
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", spkrDir, err)
			}
			for _, dateEntry := range dates {
				if !dateEntry.IsDir() || !datePattern.MatchString(dateEntry.Name()) {
					continue
				}
				count, err := countRecordings(filepath.Join(spkrDir, dateEntry.Name()))
				if err != nil {
					return nil, err
				}
				sessions = append(sessions, sessionInfo{
					lang:       langEntry.Name(),
					spkr:       spkrEntry.Name(),
					date:       dateEntry.Name(),
					recordings: count,
				})
			}
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.lang != b.lang {
			return a.lang < b.lang
		}
		if a.spkr != b.spkr {
			return a.spkr < b.spkr
		}
		return a.date < b.date
	})
	return sessions, nil
}

func countRecordings(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			count++
		}
	}
	return count, nil
}

func newSessionShowCommand(ctx *commandContext) *cobra.Command {
	var (
		langFlag string
		spkrFlag string
		dateFlag string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the acquisition log of one session",
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
			date := strings.TrimSpace(dateFlag)
			if date == "" {
				date = time.Now().Format("20060102")
			}
			if !datePattern.MatchString(date) {
				return fmt.Errorf("date %q must be YYYYMMDD", date)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			sess := session.New(cfg.Paths.DataDir, lang, spkr, date)
			record, err := session.NewStore(sess, logger).Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s\n", sess.Name())
			if len(record.Acq) == 0 {
				fmt.Fprintln(out, "No acquisitions logged")
				return nil
			}

			rows := make([][]string, 0, len(record.Acq))
			for _, entry := range record.Acq {
				rows = append(rows, []string{
					entry.Item,
					strconv.Itoa(entry.Token),
					entry.Researcher,
					entry.Fname,
					yesNo(len(entry.Channels) > 0),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"item", "token", "researcher", "file", "baseline"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Language code (3 letters; defaults from config)")
	cmd.Flags().StringVarP(&spkrFlag, "spkr", "s", "", "Speaker code (3 letters)")
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Session date, YYYYMMDD (defaults to today)")
	_ = cmd.MarkFlagRequired("spkr")

	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
