// Copyright 2025 The Jokak Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the jokak tile combiner server and CLI.

Jokak turns a pile of letter tiles into as many dictionary words as possible.
Each round it picks the assemblable word built from the rarest letters,
removes its tiles and repeats. Longer word lists run first and later lists
work with whatever is left.

# Usage

Start the msgpack server with default settings:

	jokak

Use a custom data directory and enable debug logging:

	jokak -data /path/to/wordlists -d

Interactive CLI:

	jokak -c

Combine an exported inventory page once and exit, optionally one grade only:

	jokak -html inventory.html -grade rare

Write msgpack caches of the text word lists for faster startup:

	jokak -cache

# Configuration

A TOML file is created with defaults on first run at
[UserConfigDir]/jokak/config.toml:

	[engine]
	strip_whitespace = true
	sort_tiles = true
	deadline_ms = 0
	max_tiles = 0

	[dict]
	data_dir = "data/"

	[[dict.tiers]]
	name = "len6"
	file = "len6_words.txt"
	length = 6

	[[dict.tiers]]
	name = "len5"
	file = "len5_words.txt"
	length = 5

	[server]
	max_html_bytes = 4194304
	max_words_limit = 200

	[cli]
	show_leftover = true
	color = true

# Command Line Flags

	-config string
	    Path to a config file
	-data string
	    Directory holding the word lists (overrides dict.data_dir)
	-tiers string
	    Comma separated tier names to use (default all)
	-d  Enable debug logging
	-c  Run the interactive CLI instead of the server
	-html string
	    Combine an inventory export and exit
	-grade string
	    With -html, only print this grade (normal, advanced, rare)
	-cache
	    Write .mpk caches next to text word lists and exit
	-version
	    Show current version

The IPC protocol is described in package server.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/internal/cli"
	"github.com/kkuko-utils/jokak/internal/logger"
	"github.com/kkuko-utils/jokak/internal/utils"
	"github.com/kkuko-utils/jokak/pkg/combine"
	"github.com/kkuko-utils/jokak/pkg/config"
	"github.com/kkuko-utils/jokak/pkg/dictionary"
	"github.com/kkuko-utils/jokak/pkg/inventory"
	"github.com/kkuko-utils/jokak/pkg/server"
	"github.com/kkuko-utils/jokak/pkg/solver"
	"github.com/samber/lo"
)

const (
	Version = "0.3.0"
	AppName = "jokak"
	gh      = "https://github.com/kkuko-utils/jokak"
)

// sigHandler cancels the run on the first interrupt and exits on the second.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(1)
	}()
}

// main only manages the flow between config, dictionaries and the chosen front end.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to a config file")
	dataDir := flag.String("data", "", "Directory holding the word lists (overrides dict.data_dir)")
	tierList := flag.String("tiers", "", "Comma separated tier names to use (default all)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for trying tiles by hand")
	htmlFile := flag.String("html", "", "Combine an inventory export and exit")
	gradeName := flag.String("grade", "", "With -html, only print this grade (normal, advanced, rare)")
	buildCache := flag.Bool("cache", false, "Write .mpk caches next to text word lists and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetDefault(logger.NewWithConfig("", log.DebugLevel, true, true, log.TextFormatter))
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(configPath))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Error("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	requested := appConfig.Dict.DataDir
	if *dataDir != "" {
		requested = *dataDir
	}
	resolvedDataDir, err := pathResolver.GetDataDir(requested)
	if err != nil {
		log.Fatalf("Failed to resolve data dir: %v", err)
	}
	log.Debugf("Using data dir at: %s (config dir %s)", resolvedDataDir, pathResolver.GetConfigDir())

	loader := dictionary.NewLoader(resolvedDataDir, appConfig.Dict.Tiers)
	if err := loader.LoadAll(ctx); err != nil {
		log.Fatalf("Failed to load word lists: %v", err)
	}

	if *buildCache {
		written, err := loader.BuildCache()
		if err != nil {
			log.Fatalf("Failed to write caches: %v", err)
		}
		for _, path := range written {
			fmt.Fprintln(os.Stderr, path)
		}
		return
	}

	tiers := lo.Compact(lo.Map(strings.Split(*tierList, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if _, err := loader.Tiers(tiers...); err != nil {
		log.Fatalf("Invalid -tiers: %v", err)
	}

	var observer combine.Observer
	if *debugMode {
		observer = func(st combine.Step) {
			log.Debug("extract", "pass", st.Pass, "round", st.Round, "word", st.Word, "score", st.Score, "left", st.After)
		}
	}
	s := solver.New(loader, appConfig.Engine, observer)

	if *htmlFile != "" || *cliMode {
		handler := cli.NewInputHandler(s, appConfig.CLI, tiers, os.Stdin, os.Stdout)
		if *htmlFile != "" {
			var only []inventory.Grade
			if *gradeName != "" {
				g, err := inventory.ParseGrade(*gradeName)
				if err != nil {
					log.Fatalf("Invalid -grade: %v", err)
				}
				only = append(only, g)
			}
			if err := handler.RunHTML(ctx, *htmlFile, only...); err != nil {
				log.Fatalf("Failed to combine %s: %v", *htmlFile, err)
			}
			return
		}
		if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv := server.NewServer(s, appConfig.Server, os.Stdin, os.Stdout)
	showStartupInfo(resolvedDataDir, loader.Stats())

	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ Jokak ] Turns letter tiles into words")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints basic info about the loaded word lists to stderr.
func showStartupInfo(dataDir string, stats dictionary.LoaderStats) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	banner := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Border(lipgloss.NormalBorder()).Render(AppName + " " + Version)
	fmt.Fprintln(os.Stderr, banner)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("data dir: ( %s )", dataDir)
	for _, t := range stats.Tiers {
		log.Info("tier", "name", t.Name, "length", t.Length, "words", t.Words)
	}
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
