package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/plugin"
)

// InspectCmd implements the 'inspect' command. It resolves every configured
// instance the same way a run would and prints the effective settings, which
// makes name-grammar inference visible without generating anything.
type InspectCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

// instanceView is the printable resolved configuration of one instance.
type instanceView struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Filename       string `json:"filename"`
	SourceFilename string `json:"source_filename"`
	Location       string `json:"location"`
	Phase          string `json:"phase"`
	Refresh        string `json:"refresh"`
}

func (i *InspectCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyLogging(cfg.Logging, root.Verbose)
	if err := cfg.Validate(); err != nil {
		return err
	}

	run := lifecycle.NewRun(loadProject(cfg), cfg.Build.Directory, false)
	plugins, err := plugin.RegisterAll(run, cfg.Readmes)
	if err != nil {
		return err
	}

	views := make([]instanceView, 0, len(plugins))
	for _, p := range plugins {
		rc, err := p.Config(run)
		if err != nil {
			return err
		}
		views = append(views, instanceView{
			Name:           p.PluginName(),
			Type:           string(rc.Format.ID),
			Filename:       rc.Filename,
			SourceFilename: rc.SourceFilename,
			Location:       string(rc.Location),
			Phase:          string(rc.Phase),
			Refresh:        string(rc.Refresh),
		})
	}

	if i.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	for _, v := range views {
		fmt.Printf("%s:\n", v.Name)
		fmt.Printf("  type:     %s\n", v.Type)
		fmt.Printf("  filename: %s\n", v.Filename)
		fmt.Printf("  source:   %s\n", v.SourceFilename)
		fmt.Printf("  location: %s\n", v.Location)
		fmt.Printf("  phase:    %s\n", v.Phase)
		fmt.Printf("  refresh:  %s\n", v.Refresh)
	}
	return nil
}
