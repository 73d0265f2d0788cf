package app

import (
	"context"
	"fmt"

	"github.com/vk/confboot/internal/condition"
	"github.com/vk/confboot/internal/ctxlog"
	"github.com/vk/confboot/internal/engine"
	"github.com/vk/confboot/internal/importer"
	"github.com/vk/confboot/internal/propsource"
	"github.com/vk/confboot/internal/selector"
)

// Run executes the resolution and selection pipeline based on the provided
// configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	result, err := a.resolve(ctx)
	if err != nil {
		return fmt.Errorf("config data resolution failed: %w", err)
	}
	a.printResolution(result)

	if a.registry == nil {
		a.logger.Debug("No candidates registry configured, selection not required.")
		return nil
	}

	selection, report, err := a.selectModules(ctx, result)
	if err != nil {
		return fmt.Errorf("module selection failed: %w", err)
	}
	a.printSelection(selection, report)

	a.logger.Debug("App.Run method finished.")
	return nil
}

// resolve runs the config data engine over the process environment plus any
// command-line location overrides.
func (a *App) resolve(ctx context.Context) (*engine.Result, error) {
	var existing []*propsource.MapSource
	if len(a.config.Locations) > 0 {
		cmdline := propsource.NewMapSource("commandLineArgs")
		for i, loc := range a.config.Locations {
			cmdline.Add(
				fmt.Sprintf("%s[%d]", engine.LocationProperty, i),
				loc,
				propsource.DescribedOrigin("command line"),
			)
		}
		existing = append(existing, cmdline)
	}
	existing = append(existing, engine.NewEnvironmentSource(a.environ))

	policy := importer.FailOnNotFound
	if a.config.IgnoreNotFound {
		policy = importer.IgnoreNotFound
	}
	eng := engine.New(engine.Options{
		Fs:                 a.fs,
		ExistingSources:    existing,
		AdditionalProfiles: a.config.Profiles,
		Policy:             policy,
	})
	return eng.Run(ctx)
}

// selectModules evaluates the cheap filter tier over the candidates registry
// and returns the ordered selection.
func (a *App) selectModules(ctx context.Context, result *engine.Result) (*selector.Selection, *condition.Report, error) {
	webType, err := condition.DeduceWebApplicationType(result.Binder(), a.classifier)
	if err != nil {
		return nil, nil, err
	}
	condCtx := &condition.Context{
		Binder:             result.Binder(),
		Classifier:         a.classifier,
		Fs:                 a.fs,
		WebApplicationType: webType,
		CloudPlatform:      result.ActivationContext.CloudPlatform(),
	}
	sel := selector.New(a.registry, a.index, condCtx, nil, nil)
	entry := selector.EntryPoint{Name: "application", Key: a.config.EntryPointKey}
	if err := sel.Process(ctx, entry); err != nil {
		return nil, nil, err
	}
	selection, err := sel.Select(ctx)
	if err != nil {
		return nil, nil, err
	}
	return selection, sel.Report(), nil
}

func (a *App) printResolution(result *engine.Result) {
	fmt.Fprintf(a.outW, "Active profiles: %v\n", result.ActivationContext.Profiles().Accepted())
	fmt.Fprintf(a.outW, "Property sources (highest precedence first):\n")
	for _, src := range result.Sources {
		fmt.Fprintf(a.outW, "  - %s\n", src.Name())
	}
}

func (a *App) printSelection(selection *selector.Selection, report *condition.Report) {
	fmt.Fprintf(a.outW, "Selected modules:\n")
	for _, module := range selection.Modules {
		fmt.Fprintf(a.outW, "  - %s (via %s)\n", module, selection.AttributedTo[module])
	}
	for _, candidate := range report.Candidates() {
		if report.Matched(candidate) {
			continue
		}
		for _, rec := range report.Outcomes(candidate) {
			if !rec.Outcome.Matched {
				a.logger.Debug("Candidate filtered out.", "candidate", candidate, "reason", rec.Outcome.Message)
			}
		}
	}
}
