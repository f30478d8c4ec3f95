package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/engine"
	"github.com/chazu/wingsmith/pkg/step"
)

// loadProject evaluates and validates the design script at path and applies
// the configured overrides.
func loadProject(path string) (*design.Project, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.Printf("evaluating %s", path)
	res, err := engine.NewEngine().Run(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "%s: warning: %s\n", path, w)
	}
	if !res.OK() {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, path+": "+e.Error())
		}
		return nil, errors.New(strings.Join(msgs, "\n"))
	}

	p := res.Project
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if perf := viper.GetString("performance"); perf != "" {
		v, err := bspline.ParsePerformance(perf)
		if err != nil {
			return nil, err
		}
		p.Settings.Performance = v
	}
	log.Printf("%d airfoils, %d wings, %d segments at %s resolution",
		p.AirfoilCount(), len(p.Wings()), p.SegmentCount(), p.Settings.Performance)
	return p, nil
}

// exportOptions builds STEP header options from the configuration.
func exportOptions() step.Options {
	return step.Options{
		Author:       viper.GetString("author"),
		Organization: viper.GetString("organization"),
	}
}

// outputPath picks the destination for a command: the explicit flag value,
// otherwise the script's base name with ext inside the configured output
// directory.
func outputPath(flag, script, ext string) string {
	if flag != "" {
		return flag
	}
	base := strings.TrimSuffix(filepath.Base(script), filepath.Ext(script)) + ext
	return filepath.Join(viper.GetString("output"), base)
}
