package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scriptrt/scriptrt"
	"github.com/scriptrt/scriptrt/jsworker"
	"github.com/scriptrt/scriptrt/router"
)

// checkManifestHandlers validates §8 Invariant 1 for every route in m:
// the bundle must export a callable property for each referenced handler
// name before the router is built or swapped in.
func checkManifestHandlers(m *scriptrt.Manifest, code string) error {
	return jsworker.CheckHandlers(code, m.HandlerNames())
}

var runPort int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build, serve, and watch the current project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(".", runPort)
	},
}

func init() {
	runCmd.Flags().IntVar(&runPort, "port", 3000, "listen port")
}

func runServer(dir string, port int) error {
	manifestPath, base, err := findManifest(dir)
	if err != nil {
		return err
	}

	loadAndCompile := func() (*scriptrt.Manifest, string, error) {
		code, _, err := buildProject(dir, false)
		if err != nil {
			return nil, "", err
		}
		f, err := os.Open(manifestPath)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		m, err := scriptrt.LoadManifest(f)
		if err != nil {
			return nil, "", err
		}
		if err := checkManifestHandlers(m, code); err != nil {
			return nil, "", err
		}
		return m, code, nil
	}

	manifest, code, err := loadAndCompile()
	if err != nil {
		return err
	}
	r, err := router.New(code, manifest.RouterRoutes())
	if err != nil {
		return err
	}

	cfg := scriptrt.NewConfig(base)
	cfg.Address = fmt.Sprintf(":%d", port)
	cfg.PoolSize = 12

	logger := scriptrt.NewLogger(cfg.AppName, cfg.LogFormat)
	pool := jsworker.New(cfg.PoolSize)

	rt := scriptrt.NewRuntime(cfg, logger, pool)
	rt.AddHost(manifest.Name, r)

	watcher, err := scriptrt.Watch(dir, cfg.WatchDebounce, func() {
		newManifest, newCode, err := loadAndCompile()
		if err != nil {
			logger.Errorf("rebuild failed, keeping previous router: %v", err)
			return
		}
		if err := r.Swap(newCode, newManifest.RouterRoutes()); err != nil {
			logger.Errorf("swap failed, keeping previous router: %v", err)
			return
		}
		logger.Infof("swapped router for host %s", manifest.Name)
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	logger.Infof("listening on %s", cfg.Address)
	return rt.Serve()
}
