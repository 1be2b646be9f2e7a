// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package main

import (
	"io/ioutil"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/michaelotis/nheqminer/corelog"
)

const (
	flagConfig  = "config"
	flagVerbose = "verbose"
)

func main() {
	app := &App{}
	cliApp := &cli.App{
		Name:     "blocktool",
		Usage:    "inspect encoded block headers, blocks and merkle trees",
		Flags:    app.InitFlags(),
		Before:   app.InitCfg,
		Commands: app.getCommands(),
	}

	err := cliApp.Run(os.Args)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

// App carries the state shared by all blocktool commands.
type App struct {
	config Config
	log    zerolog.Logger
}

// Config is the optional YAML configuration of the tool.
type Config struct {
	Log corelog.Config `yaml:"log"`
}

func (app *App) InitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "path to an optional YAML config file",
		},
		&cli.BoolFlag{
			Name:    flagVerbose,
			Aliases: []string{"v"},
			Usage:   "enable debug logging",
		},
	}
}

func (app *App) InitCfg(c *cli.Context) error {
	app.config.Log = corelog.Config{}.Default()

	if path := c.String(flagConfig); path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if err := yaml.Unmarshal(raw, &app.config); err != nil {
			return cli.Exit(err, 1)
		}
	}

	level := corelog.DefaultLevel
	if c.Bool(flagVerbose) {
		level = zerolog.DebugLevel
	}
	app.log = corelog.New("blocktool", level, app.config.Log)
	return nil
}

func (app *App) getCommands() cli.Commands {
	return []*cli.Command{
		{
			Name:   "decode-header",
			Usage:  "decode a hex-encoded block header of either chain family",
			Flags:  app.DecodeHeaderFlags(),
			Action: app.DecodeHeaderCmd,
		},
		{
			Name:   "merkle-root",
			Usage:  "build the merkle tree over a list of leaf hashes",
			Flags:  app.MerkleRootFlags(),
			Action: app.MerkleRootCmd,
		},
		{
			Name:   "solution-size",
			Usage:  "print the canonical equihash solution size for n and k",
			Flags:  app.SolutionSizeFlags(),
			Action: app.SolutionSizeCmd,
		},
	}
}
