package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/config"
	"github.com/mireadev/cso2go/internal/dumper"
	"github.com/mireadev/cso2go/internal/master"
	"github.com/mireadev/cso2go/internal/metrics"
	"github.com/mireadev/cso2go/internal/netutil"
	"github.com/mireadev/cso2go/internal/user"
)

const ConfigPath = "config/masterserver.yaml"

// Exit codes fixed by the CLI contract.
const (
	exitOK            = 0
	exitInterfaceFail = 1
	exitFlagConflict  = 2
)

type cliFlags struct {
	ipAddress     string
	ifaceName     string
	portMaster    uint16
	portHolepunch uint16
	logPackets    bool
}

func main() {
	flags := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, flags); err != nil {
		if errors.Is(err, netutil.ErrInterfaceNotFound) {
			slog.Error("no usable interface", "err", err)
			os.Exit(exitInterfaceFail)
		}
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
	os.Exit(exitOK)
}

func parseFlags() cliFlags {
	var flags cliFlags
	pflag.StringVarP(&flags.ipAddress, "ip-address", "i", "", "IP address to listen on")
	pflag.StringVarP(&flags.ifaceName, "interface", "I", "", "network interface to listen on")
	pflag.Uint16VarP(&flags.portMaster, "port-master", "p", 0, "TCP port of the master server")
	pflag.Uint16VarP(&flags.portHolepunch, "port-holepunch", "P", 0, "UDP port of the holepunch endpoint")
	pflag.BoolVarP(&flags.logPackets, "log-packets", "l", false, "dump every packet to disk")
	pflag.Parse()

	if flags.ipAddress != "" && flags.ifaceName != "" {
		fmt.Fprintln(os.Stderr, "at most one of --ip-address and --interface may be given")
		os.Exit(exitFlagConflict)
	}
	return flags
}

// bindAddress resolves the address to listen on: explicit IP, named
// interface, config value, or an interactive pick.
func bindAddress(flags cliFlags, cfg config.Master) (string, error) {
	switch {
	case flags.ipAddress != "":
		return flags.ipAddress, nil
	case flags.ifaceName != "":
		ip, err := netutil.ResolveInterface(flags.ifaceName)
		if err != nil {
			return "", err
		}
		return ip.String(), nil
	case cfg.BindAddress != "":
		return cfg.BindAddress, nil
	default:
		ip, err := netutil.PromptSelect(os.Stdin, os.Stdout)
		if err != nil {
			return "", err
		}
		return ip.String(), nil
	}
}

func run(ctx context.Context, flags cliFlags) error {
	// .env first, so the config env overlay sees it. Missing file is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfgPath := ConfigPath
	if p := os.Getenv("CSO2GO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadMaster(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))
	slog.Info("cso2go master server starting")

	if flags.portMaster != 0 {
		cfg.PortMaster = flags.portMaster
	}
	if flags.portHolepunch != 0 {
		cfg.PortHolepunch = flags.portHolepunch
	}
	if flags.logPackets {
		cfg.LogPackets = true
	}

	addr, err := bindAddress(flags, cfg)
	if err != nil {
		return err
	}
	slog.Info("config loaded", "bind", addr,
		"port_master", cfg.PortMaster, "port_holepunch", cfg.PortHolepunch,
		"user_service", cfg.UserService.BaseURL(), "log_packets", cfg.LogPackets)

	g, gctx := errgroup.WithContext(ctx)

	var sink master.PacketSink
	var droppedFrames func() uint64
	if cfg.LogPackets {
		dump, err := dumper.New(cfg.DumpDir)
		if err != nil {
			return fmt.Errorf("creating packet dumper: %w", err)
		}
		sink = dump
		droppedFrames = dump.Dropped
		g.Go(func() error { return ignoreCanceled(dump.Run(gctx)) })
	}

	m := metrics.New(droppedFrames)
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return ignoreCanceled(m.Serve(gctx, cfg.MetricsAddr)) })
		monitor, err := metrics.NewMonitor(m)
		if err != nil {
			return fmt.Errorf("creating process monitor: %w", err)
		}
		g.Go(func() error { return ignoreCanceled(monitor.Run(gctx)) })
	}

	users := user.NewClient(cfg.UserService.BaseURL())
	probe := user.NewProbe(users)
	probe.OnChange(m.SetUpstreamAlive)
	g.Go(func() error { return ignoreCanceled(probe.Run(gctx)) })

	directory := channel.NewDirectory(directorySpecs(cfg))

	server := master.NewServer(master.ServerConfig{
		Addr:          net.JoinHostPort(addr, fmt.Sprint(cfg.PortMaster)),
		HolepunchPort: cfg.PortHolepunch,
		Sink:          sink,
		Metrics:       m,
	}, directory, users)
	g.Go(func() error {
		if err := ignoreCanceled(server.Run(gctx)); err != nil {
			return fmt.Errorf("master server: %w", err)
		}
		return nil
	})

	holepunch := master.NewHolepunch(net.JoinHostPort(addr, fmt.Sprint(cfg.PortHolepunch)))
	g.Go(func() error {
		if err := ignoreCanceled(holepunch.Run(gctx)); err != nil {
			return fmt.Errorf("holepunch endpoint: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func directorySpecs(cfg config.Master) []channel.ServerSpec {
	specs := make([]channel.ServerSpec, 0, len(cfg.ChannelServers))
	for _, cs := range cfg.ChannelServers {
		specs = append(specs, channel.ServerSpec{Name: cs.Name, Channels: cs.Channels})
	}
	return specs
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ignoreCanceled maps the expected shutdown error to nil so a clean stop
// exits 0.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
