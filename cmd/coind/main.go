// coind runs a single coin node: it mines against its local mempool, applies
// inbound blocks and transactions, and reports lifecycle events over a
// websocket. Real peer-to-peer transport is out of scope, so the node runs
// with no peers on a ChannelMailbox that nothing else feeds or drains: coind
// is a self-contained demonstration of the node loop rather than a node meant
// to actually converge with others over a network.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/btcsuite/btclog"
	flags "github.com/jessevdk/go-flags"
	"github.com/jrick/logrotate/rotator"

	"github.com/wgoldie/coin/chain"
	"github.com/wgoldie/coin/mempool"
	"github.com/wgoldie/coin/mining"
	"github.com/wgoldie/coin/node"
	"github.com/wgoldie/coin/notify"
	"github.com/wgoldie/coin/protocol"
	"github.com/wgoldie/coin/walletkey"
	"github.com/wgoldie/coin/wire"
)

const appName = "coind"

type config struct {
	ConfigFile   string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir      string `short:"b" long:"datadir" description:"Directory to store wallet key and logs"`
	LogDir       string `long:"logdir" description:"Directory to log output"`
	MinerPath    string `long:"minerpath" description:"Path to the coin-miner binary" required:"true"`
	Difficulty   int    `long:"difficulty" description:"Number of leading ASCII '0' bytes a mined block hash must have" default:"4"`
	TargetHeight uint64 `long:"targetheight" description:"Chain height at which coind exits" default:"10"`
	NotifyAddr   string `long:"notifyaddr" description:"Address to serve the websocket event feed on" default:"127.0.0.1:8337"`
	Debug        string `long:"debuglevel" description:"Logging level: trace, debug, info, warn, error, critical" default:"info"`
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, "."+appName)
}

func loadConfig() (*config, error) {
	cfg := config{
		DataDir: defaultDataDir(),
	}
	preParser := flags.NewParser(&cfg, flags.HelpFlag)
	if _, err := preParser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			return nil, err
		}
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = filepath.Join(cfg.DataDir, appName+".conf")
	}
	iniParser := flags.NewIniParser(flags.NewParser(&cfg, flags.Default))
	if err := iniParser.ParseFile(cfg.ConfigFile); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			return nil, err
		}
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "logs")
	}
	return &cfg, nil
}

func initLogging(cfg *config) (func(), error) {
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, err
	}
	r, err := rotator.New(filepath.Join(cfg.LogDir, appName+".log"), 10*1024, false, 3)
	if err != nil {
		return nil, err
	}
	backend := btclog.NewBackend(r)

	level, ok := btclog.LevelFromString(cfg.Debug)
	if !ok {
		level = btclog.LevelInfo
	}
	for name, use := range map[string]func(btclog.Logger){
		"CHND": chain.UseLogger,
		"MMPL": mempool.UseLogger,
		"PROT": protocol.UseLogger,
		"MING": mining.UseLogger,
		"NOTF": notify.UseLogger,
		"NODE": node.UseLogger,
	} {
		l := backend.Logger(name)
		l.SetLevel(level)
		use(l)
	}
	return func() { r.Close() }, nil
}

func loadOrCreateKey(cfg *config) (*walletkey.KeyPair, error) {
	keyPath := filepath.Join(cfg.DataDir, "wallet.key")
	if raw, err := os.ReadFile(keyPath); err == nil {
		return walletkey.FromHex(string(raw))
	}
	key, err := walletkey.Generate()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key.Serialize())), 0600); err != nil {
		return nil, err
	}
	return key, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := initLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	key, err := loadOrCreateKey(cfg)
	if err != nil {
		return fmt.Errorf("loading wallet key: %w", err)
	}

	hub := notify.NewHub()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/events", hub)
		if err := http.ListenAndServe(cfg.NotifyAddr, mux); err != nil {
			fmt.Fprintf(os.Stderr, "notify server stopped: %v\n", err)
		}
	}()

	n, err := node.New(node.Config{
		ID:              wire.Address(appName),
		Difficulty:      cfg.Difficulty,
		TargetHeight:    cfg.TargetHeight,
		MinerPath:       cfg.MinerPath,
		RecipientPubKey: key.PublicKey(),
		Verify:          walletkey.Verify,
		Notify:          hub.Broadcast,
		PollInterval:    250 * time.Millisecond,
	}, node.NewChannelMailbox(64))
	if err != nil {
		return fmt.Errorf("constructing node: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	final, err := n.Run(ctx)
	if err != nil && err != context.Canceled {
		return fmt.Errorf("node run: %w", err)
	}

	head := final.Chain.BestHead()
	fmt.Printf("coind: reached height %d, best head %s\n", head.Height, head.Block.Header.BlockHash)
	fmt.Printf("coind: our balance %s\n", chain.FormatAmount(head.Ledger.Balance(key.PublicKey())))
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "coind: %v\n", err)
		os.Exit(1)
	}
}
