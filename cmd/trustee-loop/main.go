// Command trustee-loop is the CLI entrypoint: trustee-loop
// <section-name>, reading its configuration file location from
// CONFIG_FILE (or the -config flag), binding the single-instance
// guard, and running protocol cycles forever until SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/voteosis/trustee/internal/actions"
	"github.com/voteosis/trustee/internal/board/localfs"
	"github.com/voteosis/trustee/internal/driver"
	"github.com/voteosis/trustee/internal/envelope"
	"github.com/voteosis/trustee/internal/obslog"
	"github.com/voteosis/trustee/internal/trusteeconfig"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to the flat trustee configuration file")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "info"), "log level")
	logFormat := flag.String("log-format", envOr("LOG_FORMAT", "text"), "log format (text or json)")
	logOutput := flag.String("log-output", os.Getenv("LOG_OUTPUT"), "log destination (stdout or a file path)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: trustee-loop <section-name>")
		return 1
	}
	section := flag.Arg(0)

	log := obslog.New(obslog.Config{Level: *logLevel, Format: *logFormat, Output: *logOutput})
	log.WithField("section", section).Info("trustee loop starting")

	if *configPath == "" {
		log.Error("no configuration file: set -config or CONFIG_FILE")
		return 1
	}

	cfgFile, err := trusteeconfig.LoadFile(*configPath)
	if err != nil {
		log.WithError(err).Error("load configuration")
		return 1
	}

	release, err := bindSingleton(cfgFile.SingletonPort)
	if err != nil {
		log.WithError(err).Error("single-instance guard")
		return 1
	}
	defer release()

	identity, err := trusteeconfig.LoadIdentity(cfgFile)
	if err != nil {
		log.WithError(err).Error("load identity")
		return 1
	}

	privKey, err := envelope.ParseRSAPrivateKeyFromPEM([]byte(identity.PrivateKeyPEM))
	if err != nil {
		log.WithError(err).Error("parse private key")
		return 1
	}

	tc := &actions.TrusteeContext{
		// In-process reference board. The remote transport addressed by
		// dataStorePath/repoBaseUri is an external collaborator; a real
		// deployment substitutes its board.Board implementation here.
		Board:        localfs.New(localfs.NewRemote()),
		PrivateKey:   privKey,
		PublicKeyPEM: identity.PublicKeyPEM,
		AESMasterKey: identity.AESMasterKey,
		Peers:        identity.Peers,
		OfflineSplit: cfgFile.OfflineSplit,
		PoolSize:     8,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("signal received, finishing current cycle")
		cancel()
	}()

	driver.New(tc, log).Run(ctx)
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// bindSingleton implements the single-instance guard: a
// loopback TCP bind that fails fast if a sibling instance already
// holds the port. port == 0 disables the guard.
func bindSingleton(port int) (release func(), err error) {
	if port == 0 {
		return func() {}, nil
	}
	ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		return nil, fmt.Errorf("trustee-loop: port %d already bound by another instance: %w", port, err)
	}
	return func() { ln.Close() }, nil
}
