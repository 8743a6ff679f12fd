package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/colony/internal/cli/config"
	"github.com/leapstack-labs/colony/internal/cli/output"
	"github.com/leapstack-labs/colony/internal/engine"
	"github.com/leapstack-labs/colony/internal/report"
)

// Check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the colony for problems",
		Long: `Inspect the colony project and report anything that would make a step
fail or behave unexpectedly:

- Configuration file and settings
- Grid directory and stray marker files
- Life log readability
- README status markers
- Agreement between the life log and the history database`,
		Example: `  # Run all checks
  colony doctor

  # Output as JSON
  colony doctor --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
	return cmd
}

func runDoctor(cmd *cobra.Command) error {
	base := NewCommandContextWithoutEngine(cmd)
	cfg := base.Cfg
	var checks []output.Check
	add := func(name, status, format string, args ...any) {
		checks = append(checks, output.Check{Name: name, Status: status, Message: fmt.Sprintf(format, args...)})
	}

	if file := config.GetConfigFileUsed(); file != "" {
		add("config", statusPass, "loaded %s", file)
	} else {
		add("config", statusWarn, "no colony.yaml found, using defaults (run 'colony init')")
	}
	if err := cfg.Validate(); err != nil {
		add("settings", statusError, "%v", err)
	} else {
		add("settings", statusPass, "valid")
	}

	gridExists := true
	if err := config.ValidateDirectories(cfg); err != nil {
		gridExists = false
		add("grid", statusWarn, "%s", strings.SplitN(err.Error(), "\n", 2)[0])
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		add("history", statusError, "%v", err)
		return reportDoctor(base.Renderer, checks)
	}
	defer cleanup()

	checks = append(checks, colonyChecks(cmdCtx.Engine, cfg, gridExists, cmd)...)
	return reportDoctor(cmdCtx.Renderer, checks)
}

func colonyChecks(eng *engine.Engine, cfg *config.Config, gridExists bool, cmd *cobra.Command) []output.Check {
	var checks []output.Check
	add := func(name, status, format string, args ...any) {
		checks = append(checks, output.Check{Name: name, Status: status, Message: fmt.Sprintf(format, args...)})
	}

	if gridExists {
		cur, err := eng.Current()
		if err != nil {
			add("grid", statusError, "%v", err)
		} else {
			add("grid", statusPass, "%d live cells in %s", cur.Len(), cfg.GridDir)
		}

		malformed, err := eng.Grid().Malformed()
		switch {
		case err != nil:
			add("markers", statusError, "%v", err)
		case len(malformed) > 0:
			add("markers", statusWarn, "ignoring %d malformed marker files: %s", len(malformed), strings.Join(malformed, ", "))
		default:
			add("markers", statusPass, "all marker names are well formed")
		}
	}

	logCount, err := eng.Log().CountGenerations()
	if err != nil {
		add("life log", statusError, "%v", err)
	} else {
		add("life log", statusPass, "%d generations in %s", logCount, cfg.LogPath)
	}

	if cfg.ReadmePath != "" {
		readme := &report.Readme{Path: cfg.ReadmePath, StartMarker: cfg.Readme.StartMarker, EndMarker: cfg.Readme.EndMarker}
		ok, rerr := readme.HasMarkers()
		switch {
		case rerr != nil:
			add("readme", statusWarn, "%v", rerr)
		case !ok:
			add("readme", statusWarn, "%s is missing or lacks the status markers; it will not be updated", cfg.ReadmePath)
		default:
			add("readme", statusPass, "status markers found")
		}
	}

	store := eng.History()
	if store == nil {
		add("history", statusPass, "disabled")
		return checks
	}
	histCount, herr := store.CountGenerations(cmd.Context())
	switch {
	case herr != nil:
		add("history", statusError, "%v", herr)
	case err == nil && histCount != logCount:
		add("history", statusWarn, "history has %d generations but the life log has %d", histCount, logCount)
	default:
		add("history", statusPass, "%d generations recorded", histCount)
	}
	return checks
}

func reportDoctor(r *output.Renderer, checks []output.Check) error {
	out := output.DoctorOutput{Checks: checks}
	for _, c := range checks {
		switch c.Status {
		case statusError:
			out.Errors++
		case statusWarn:
			out.Warnings++
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Colony Health"))
		r.Println("")
		title := cases.Title(language.English)
		for _, c := range checks {
			r.Printf("- **%s** (%s): %s\n", title.String(c.Name), c.Status, c.Message)
		}
		r.Println("")
		r.Printf("**Errors:** %d, **Warnings:** %d\n", out.Errors, out.Warnings)
	default:
		r.Header(1, "Colony Health")
		for _, c := range checks {
			status := "success"
			if c.Status != statusPass {
				status = c.Status
			}
			r.StatusLine(c.Name, status, c.Message)
		}
		r.Println("")
		if out.Errors == 0 && out.Warnings == 0 {
			r.Success("No problems found")
		}
	}

	if out.Errors > 0 {
		return fmt.Errorf("doctor found %d errors", out.Errors)
	}
	return nil
}
