package provision

import (
	"fmt"

	"github.com/aymerick/raymond"
)

// SourceDirVar is the npm environment variable holding directories.src.
const SourceDirVar = "$npm_package_directories_src"

// Triple-stash keeps script names like "lint:css&&x" out of HTML escaping.
var (
	lintTemplate    = raymond.MustParse("{{{linter}}} " + SourceDirVar)
	fixTemplate     = raymond.MustParse("{{{linter}}} --fix " + SourceDirVar)
	pretestTemplate = raymond.MustParse("npm run {{{script}}}")
)

// Scripts returns the npm scripts the provisioner adds.
func Scripts(opts Options) (map[string]any, error) {
	ctx := map[string]string{"linter": LinterPackage, "script": opts.ScriptName}

	scripts := make(map[string]any, 3)

	lint, err := lintTemplate.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("render lint script: %w", err)
	}
	scripts[opts.ScriptName] = lint

	if opts.Pretest {
		pretest, err := pretestTemplate.Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("render pretest script: %w", err)
		}
		scripts["pretest"] = pretest
	}

	if opts.FormatScriptName != "" {
		fix, err := fixTemplate.Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("render format script: %w", err)
		}
		scripts[opts.FormatScriptName] = fix
	}

	return scripts, nil
}
