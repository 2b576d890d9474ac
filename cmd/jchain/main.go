// jchain composes a request payload from a base document and a modifications
// document, resolving references against captured responses.
//
// Usage:
//
//	jchain -base team.json -mods team_mods.yaml -source userResponse=user.json
//	jchain -base b.json -mods m.json -history prev1.json -history prev2.json -indent
//
// Flags:
//
//	-base FILE          base document (.json, .yaml, .yml)
//	-mods FILE          modifications document, path -> value, applied in order
//	-source NAME=FILE   named response, repeatable; order sets unnamed search order
//	-history FILE       prior composed payload, repeatable, searched in order
//	-config FILE        session config (strict_references)
//	-strict             fail on malformed reference tokens
//	-indent             pretty-print the output
//	-v                  log at debug level
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/calumari/jchain"
	"github.com/calumari/jchain/fixture"
	"github.com/calumari/jchain/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

type sourceFlag struct {
	name string
	path string
}

func main() {
	var (
		basePath    = flag.String("base", "", "base document")
		modsPath    = flag.String("mods", "", "modifications document")
		configPath  = flag.String("config", "", "session config file")
		strict      = flag.Bool("strict", false, "fail on malformed reference tokens")
		indent      = flag.Bool("indent", false, "pretty-print the output")
		verbose     = flag.Bool("v", false, "debug logging")
		showVersion = flag.Bool("version", false, "print version and exit")
		sources     []sourceFlag
		history     []string
	)
	flag.Func("source", "named response `NAME=FILE` (repeatable)", func(s string) error {
		name, path, ok := strings.Cut(s, "=")
		if !ok || name == "" || path == "" {
			return fmt.Errorf("expected NAME=FILE, got %q", s)
		}
		sources = append(sources, sourceFlag{name: name, path: path})
		return nil
	})
	flag.Func("history", "prior composed payload `FILE` (repeatable)", func(s string) error {
		history = append(history, s)
		return nil
	})
	flag.Parse()

	if *showVersion {
		fmt.Println("jchain", version)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *basePath == "" || *modsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: jchain -base FILE -mods FILE [-source NAME=FILE]... [-history FILE]...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := &session.Config{}
	if *configPath != "" {
		var err error
		if cfg, err = session.LoadConfig(*configPath); err != nil {
			fatal(logger, err)
		}
	}

	out, err := run(*basePath, *modsPath, sources, history, *strict || cfg.StrictReferences, logger)
	if err != nil {
		fatal(logger, err)
	}

	var data []byte
	if *indent {
		data, err = jchain.MarshalIndent(out, "  ")
	} else {
		data, err = jchain.Marshal(out)
	}
	if err != nil {
		fatal(logger, fmt.Errorf("encoding output: %w", err))
	}
	fmt.Println(string(data))
}

func run(basePath, modsPath string, sources []sourceFlag, history []string, strict bool, logger *slog.Logger) (jchain.D, error) {
	base, err := fixture.LoadDocument(basePath)
	if err != nil {
		return nil, err
	}
	mods, err := fixture.LoadDocument(modsPath)
	if err != nil {
		return nil, err
	}

	opts := []jchain.Option{jchain.WithLogger(logger)}
	if strict {
		opts = append(opts, jchain.WithStrictReferences())
	}
	for _, src := range sources {
		body, err := fixture.LoadRaw(src.path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, jchain.WithRawSource(src.name, body))
	}
	for _, path := range history {
		doc, err := fixture.Load(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, jchain.WithHistory(doc))
	}

	return jchain.Compose(base, mods, opts...)
}

func fatal(logger *slog.Logger, err error) {
	logger.Error("compose failed", slog.Any("error", err))
	os.Exit(1)
}
