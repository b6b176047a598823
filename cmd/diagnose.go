package cmd

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/spf13/cobra"

	"github.com/scourlabs/scour/internal/config"
	"github.com/scourlabs/scour/internal/core"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Show environment and configuration diagnostics",
	Long: `Print what scour knows about this machine and its own setup: platform,
disk headroom, the config in effect, loaded cleaners and guard
settings. Useful when a rule does not match what you expect.`,
	RunE: runDiagnose,
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Println(paint(styleTitle, "scour "+appVersion))

	info, infoErr := host.InfoWithContext(ctx)

	platform := runtime.GOOS + "/" + runtime.GOARCH
	if v := core.OSVersion(); v != "" {
		platform += "  " + v
	} else if infoErr == nil {
		platform += "  " + info.Platform + " " + info.PlatformVersion
	}
	fmt.Printf("  platform   %s\n", platform)
	fmt.Printf("  os tags    %s\n", strings.Join(core.Tags(), ", "))

	if infoErr == nil {
		up := time.Duration(info.Uptime) * time.Second
		fmt.Printf("  host       %s, up %s\n", info.Hostname, up.Round(time.Minute))
	}

	if home, err := homedir.Dir(); err == nil {
		if du, err := disk.UsageWithContext(ctx, home); err == nil {
			fmt.Printf("  disk       %s free of %s on %s\n",
				humanize.IBytes(du.Free), humanize.IBytes(du.Total), du.Path)
		}
	}

	s, err := loadSetup()
	if err != nil {
		return err
	}
	defer s.Close()

	cfgSource := configPath
	if cfgSource == "" {
		cfgSource = config.DefaultPath()
	}

	fmt.Println()
	fmt.Printf("  config     %s\n", cfgSource)
	fmt.Printf("  cleaners   %d loaded from %s", s.reg.Len(), s.cfg.CleanersDir)
	if n := len(s.reg.LoadErrors()); n > 0 {
		fmt.Print(paint(styleWarn, fmt.Sprintf("  (%d skipped)", n)))
	}
	fmt.Println()

	guardMode := "permissive"
	if s.cfg.ConservativeGuard {
		guardMode = "conservative"
	}
	fmt.Printf("  guard      %s", guardMode)
	if s.cfg.CheckOpenFiles {
		fmt.Print(", open-file checks on")
	}
	fmt.Println()

	fmt.Printf("  delete     shred=%v, min depth %d\n", s.cfg.Shred, s.cfg.MinDepth)
	fmt.Printf("  run        %d workers, command timeout %s\n", s.cfg.Workers, s.cfg.CommandTimeout.Std())
	fmt.Printf("  whitelist  %d user patterns\n", len(s.cfg.Whitelist))
	fmt.Printf("  audit log  %s\n", s.cfg.AuditLog)

	for _, e := range s.reg.LoadErrors() {
		fmt.Println(paint(styleWarn, fmt.Sprintf("  skipped    %v", e)))
	}
	return nil
}
