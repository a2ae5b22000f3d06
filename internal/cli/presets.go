package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/hexwire/pkg/domain"
)

// SavePreset stores p under p.Name, replacing any preset with that name.
func SavePreset(ctx context.Context, app *App, p domain.Preset, w io.Writer) error {
	presets, err := app.Presets()
	if err != nil {
		return err
	}
	if err := presets.Save(ctx, p); err != nil {
		return fmt.Errorf("error saving preset: %w", err)
	}
	printSystemMessage(w, "Preset '%s' saved.", p.Name)
	return nil
}

// ListPresets prints every preset sorted by name.
func ListPresets(ctx context.Context, app *App, w io.Writer) error {
	presets, err := app.Presets()
	if err != nil {
		return err
	}
	list, err := presets.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing presets: %w", err)
	}
	if len(list) == 0 {
		printSystemMessage(w, "No presets.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTARGET\tDATA")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s:%d\t%s\n", p.Name, p.Host, p.Port, p.Payload)
	}
	return tw.Flush()
}

// ShowPreset prints one preset.
func ShowPreset(ctx context.Context, app *App, name string, w io.Writer) error {
	presets, err := app.Presets()
	if err != nil {
		return err
	}
	p, err := presets.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("error loading preset %q: %w", name, err)
	}

	fmt.Fprintf(w, "Name:    %s\n", p.Name)
	fmt.Fprintf(w, "Target:  %s:%d\n", p.Host, p.Port)
	fmt.Fprintf(w, "Data:    %s\n", p.Payload)
	if p.TimeoutMS > 0 {
		fmt.Fprintf(w, "Timeout: %dms\n", p.TimeoutMS)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
	return nil
}
