package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/familyfit/familyfit/internal/config"
	"github.com/familyfit/familyfit/internal/logging"
	"github.com/familyfit/familyfit/internal/router"
	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the wiring shared by every command.
type app struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	store  session.Store
	client *client.Client
	guard  *router.Guard
}

func newApp(v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogFile, version)
	if err != nil {
		return nil, err
	}
	store := session.WithTokenOverride(session.NewFileStore(cfg.StateDir), cfg.Token)
	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		client: client.New(cfg.APIURL, store, client.WithLogger(log)),
		guard:  router.NewGuard(router.DefaultTable(), store, cfg.EnforceAuth),
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var a *app

	cmd := &cobra.Command{
		Use:           "familyfit",
		Short:         "FamilyFit family health tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			var err error
			a, err = newApp(v)
			if err != nil {
				return err
			}
			a.log.Debugw("command start", "command", cmd.Name(), "api_url", a.cfg.APIURL)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(a)
		},
	}
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelp(cmd.OutOrStdout(), cmd.Root())
	})

	if err := config.BindFlags(v, cmd.PersistentFlags()); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	get := func() *app { return a }
	cmd.AddCommand(loginCmd(get))
	cmd.AddCommand(logoutCmd(get))
	cmd.AddCommand(whoamiCmd(get))
	cmd.AddCommand(openCmd(get))
	cmd.AddCommand(versionCmd())
	return cmd
}
