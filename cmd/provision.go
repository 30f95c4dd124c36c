package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/stylelint-provision/pkg/config"
	"github.com/fulmenhq/stylelint-provision/pkg/logger"
	"github.com/fulmenhq/stylelint-provision/pkg/manifest"
	"github.com/fulmenhq/stylelint-provision/pkg/prompt"
	"github.com/fulmenhq/stylelint-provision/pkg/provision"
	"github.com/fulmenhq/stylelint-provision/pkg/safeio"
)

func addProvisionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Var(&presetFlag{}, "preset", "Preset to extend: a built-in name, or name=version (repeatable)")
	f.Bool("no-presets", false, "Extend no presets and skip the preset question")
	f.String("script-name", provision.DefaultScriptName, "npm script that runs stylelint")
	f.Bool("pretest", false, "Add a pretest script that runs the lint script")
	f.String("format-script-name", "", "Add an autofix script under this name")
	f.String("lint-config", "", "stylelint config as a JSON object, or @file to read it from a file")
	f.String("linter-version", provision.DefaultLinterVersion, "Version specifier for the stylelint dev dependency")
	f.String("after", provision.DefaultAfter, "Command run in each project after package.json changed")
	f.Var(&answerFlag{}, "answer", "Pre-answer a question, e.g. stylelintPreset=standard (repeatable)")
	f.Bool("non-interactive", false, "Fail instead of prompting for missing answers")
	f.Bool("dry-run", false, "Print the resulting package.json instead of writing it")
	f.Bool("skip-after", false, "Do not run the post-provision command")
	f.Bool("require-clean", false, "Refuse to write into git worktrees with uncommitted changes")
	f.Int("max-workers", 0, "Directories provisioned in parallel (0 = unlimited)")
	f.String("config", "", "Config file (default: .stylelint-provision.{yaml,yml,json,toml} in the project, cwd or $HOME)")

	cmd.MarkFlagsMutuallyExclusive("preset", "no-presets")
}

// provisionSettings is the merged view of config file, environment and flags.
type provisionSettings struct {
	opts           provision.Options
	answers        prompt.Answers
	dryRun         bool
	skipAfter      bool
	requireClean   bool
	maxWorkers     int
	nonInteractive bool
	jsonOutput     bool
}

func runProvision(cmd *cobra.Command, args []string) error {
	dirs, err := resolveDirs(args)
	if err != nil {
		return err
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{File: cfgFile, Dirs: config.DefaultSearchDirs(dirs[0])})
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		logger.Debug("Loaded configuration", logger.String("file", cfg.Source))
	}

	s, err := settingsFrom(cmd, cfg)
	if err != nil {
		return err
	}
	if err := s.opts.Validate(); err != nil {
		return err
	}

	var p prompt.Prompter = prompt.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr())
	if s.nonInteractive {
		p = prompt.NonInteractive{}
	}

	runner := provision.NewRunner(p, cmd.OutOrStdout())
	runner.DryRun = s.dryRun
	runner.SkipAfter = s.skipAfter
	runner.RequireClean = s.requireClean
	runner.MaxWorkers = s.maxWorkers
	if s.jsonOutput {
		runner.Out = nil
	}

	logger.Debug("Provisioning stylelint",
		logger.Strings("dirs", dirs),
		logger.String("presets", s.opts.Presets.String()),
		logger.Bool("dry_run", s.dryRun))

	start := time.Now()
	results, err := runner.Run(cmd.Context(), dirs, provision.Stylelint(s.opts), s.answers)
	if err != nil {
		return err
	}
	logger.Debug("Provisioning finished", logger.Duration("elapsed", time.Since(start)))

	if s.jsonOutput {
		return writeJSONReport(cmd.OutOrStdout(), results, s.dryRun)
	}
	writeTextReport(cmd.OutOrStdout(), results, s.dryRun)
	return nil
}

func resolveDirs(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	dirs := make([]string, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		abs, err := safeio.ResolveDir(a)
		if err != nil {
			return nil, fmt.Errorf("project directory %s: %w", a, err)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		dirs = append(dirs, abs)
	}
	return dirs, nil
}

// settingsFrom applies explicitly set flags over the loaded configuration.
func settingsFrom(cmd *cobra.Command, cfg *config.Config) (provisionSettings, error) {
	f := cmd.Flags()
	s := provisionSettings{
		opts:         cfg.Options(),
		answers:      prompt.Answers(cfg.Answers).Clone(),
		skipAfter:    cfg.SkipAfter,
		requireClean: cfg.RequireClean,
		maxWorkers:   cfg.MaxWorkers,
	}

	if f.Changed("script-name") {
		s.opts.ScriptName, _ = f.GetString("script-name")
	}
	if f.Changed("pretest") {
		s.opts.Pretest, _ = f.GetBool("pretest")
	}
	if f.Changed("format-script-name") {
		s.opts.FormatScriptName, _ = f.GetString("format-script-name")
	}
	if f.Changed("linter-version") {
		s.opts.LinterVersion, _ = f.GetString("linter-version")
	}
	if f.Changed("after") {
		s.opts.After, _ = f.GetString("after")
	}
	if f.Changed("preset") {
		sel, err := f.Lookup("preset").Value.(*presetFlag).Selection()
		if err != nil {
			return s, fmt.Errorf("%w: --preset: %w", provision.ErrInvalidOptions, err)
		}
		s.opts.Presets = sel
	}
	if noPresets, _ := f.GetBool("no-presets"); noPresets {
		s.opts.Presets = provision.CustomPresets()
	}
	if f.Changed("lint-config") {
		raw, _ := f.GetString("lint-config")
		lc, err := parseLintConfig(raw)
		if err != nil {
			return s, err
		}
		s.opts.LintConfig = lc
	}
	if f.Changed("answer") {
		for k, v := range f.Lookup("answer").Value.(*answerFlag).values {
			s.answers[k] = v
		}
	}
	if f.Changed("skip-after") {
		s.skipAfter, _ = f.GetBool("skip-after")
	}
	if f.Changed("require-clean") {
		s.requireClean, _ = f.GetBool("require-clean")
	}
	if f.Changed("max-workers") {
		s.maxWorkers, _ = f.GetInt("max-workers")
	}
	if s.maxWorkers < 0 {
		return s, fmt.Errorf("%w: max workers must not be negative", provision.ErrInvalidOptions)
	}

	dryRun, _ := f.GetBool("dry-run")
	noOp, _ := f.GetBool("no-op")
	s.dryRun = dryRun || noOp
	s.nonInteractive, _ = f.GetBool("non-interactive")
	s.jsonOutput, _ = f.GetBool("json")
	return s, nil
}

// parseLintConfig accepts JSON object text, or @path to read it from a file
// under the working directory.
func parseLintConfig(value string) (map[string]any, error) {
	text := value
	if path, ok := strings.CutPrefix(value, "@"); ok {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		data, err := safeio.ReadFileContained(wd, path)
		if err != nil {
			return nil, fmt.Errorf("%w: --lint-config %s: %w", provision.ErrInvalidOptions, path, err)
		}
		text = string(data)
	}

	doc, err := manifest.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: --lint-config: %w", provision.ErrInvalidOptions, err)
	}
	return map[string]any(doc), nil
}

func fileStatus(f provision.FileResult, dryRun bool) string {
	var status string
	switch {
	case f.Created:
		status = "created"
	case f.Changed:
		status = "updated"
	default:
		return "unchanged"
	}
	if dryRun {
		return "would be " + status
	}
	return status
}

func writeTextReport(w io.Writer, results []provision.Result, dryRun bool) {
	for _, r := range results {
		for _, f := range r.Files {
			_, _ = fmt.Fprintf(w, "%s: %s %s\n", r.Dir, f.File, fileStatus(f, dryRun))
		}
		for _, a := range r.After {
			_, _ = fmt.Fprintf(w, "%s: ran %q\n", r.Dir, a)
		}
	}
}

type jsonFile struct {
	File    string `json:"file"`
	Status  string `json:"status"`
	Content string `json:"content,omitempty"`
}

type jsonResult struct {
	Dir         string     `json:"dir"`
	Files       []jsonFile `json:"files"`
	After       []string   `json:"after,omitempty"`
	Stylesheets int        `json:"stylesheets"`
	DurationMS  int64      `json:"duration_ms"`
}

func writeJSONReport(w io.Writer, results []provision.Result, dryRun bool) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		jr := jsonResult{
			Dir:         r.Dir,
			Files:       make([]jsonFile, len(r.Files)),
			After:       r.After,
			Stylesheets: r.Stylesheets,
			DurationMS:  r.Duration.Milliseconds(),
		}
		for j, f := range r.Files {
			jf := jsonFile{File: f.File, Status: fileStatus(f, dryRun)}
			if dryRun {
				jf.Content = f.Content
			}
			jr.Files[j] = jf
		}
		out[i] = jr
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
