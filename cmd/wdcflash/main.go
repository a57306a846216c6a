// Command wdcflash drives the WDC bootloader wire protocol over a
// serial link: raw byte injection, sync, flash clear/check, execute,
// memory/flash read and write, and bootloader self-update.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/ecnxdev/wdcflash/internal/leutil"
	"github.com/ecnxdev/wdcflash/internal/orchestrator"
	"github.com/ecnxdev/wdcflash/internal/parser"
	"github.com/ecnxdev/wdcflash/internal/serialport"
	"github.com/ecnxdev/wdcflash/internal/session"
)

func main() {
	app := &cli.App{
		Name:      "wdcflash",
		Usage:     "upload and control firmware on WDC 65C02/65C816 boards",
		ArgsUsage: "[FILENAME]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "baudrate", Aliases: []string{"b"}, Value: 115200},
			&cli.StringFlag{Name: "device", Aliases: []string{"d"}},
			&cli.StringFlag{Name: "address", Aliases: []string{"a"}},
			&cli.IntFlag{Name: "length", Aliases: []string{"l"}},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Required: true},
			&cli.BoolFlag{Name: "flash", Aliases: []string{"k"}},
			&cli.BoolFlag{Name: "execute", Aliases: []string{"x"}},
			&cli.BoolFlag{Name: "no-reset", Aliases: []string{"r"}},
			&cli.IntFlag{Name: "sync", Aliases: []string{"s"}, Value: 4},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Count: new(int)},
			&cli.StringFlag{Name: "hex-string"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	log := session.NewLogger(cfg.Verbosity)

	if cfg.Device == "" {
		dev, err := pickDevice()
		if err != nil {
			return errors.Wrap(err, "device selection")
		}
		cfg.Device = dev
	}

	orch, err := orchestrator.Open(cfg, log)
	if err != nil {
		return errors.Wrap(err, "open board")
	}
	defer orch.Close()

	if cfg.Mode == session.ModeWrite || cfg.Mode == session.ModeUpdate {
		if cfg.Filename == "" {
			return fmt.Errorf("mode %q requires a FILENAME argument", cfg.Mode)
		}
		raw, err := os.ReadFile(cfg.Filename)
		if err != nil {
			return errors.Wrap(err, "read input file")
		}
		opts := parser.Options{HasAddress: cfg.HasAddress, Address: cfg.Address}
		prog, err := parser.Parse(cfg.Filename, raw, opts)
		if err != nil {
			return errors.Wrap(err, "parse input file")
		}
		orch.LoadImage(prog, raw)
	}

	return orch.Run()
}

func buildConfig(c *cli.Context) (*session.Config, error) {
	cfg := &session.Config{
		Filename:  c.Args().First(),
		Baudrate:  c.Int("baudrate"),
		Device:    c.String("device"),
		HasLength: c.IsSet("length"),
		Length:    uint32(c.Int("length")),
		Mode:      session.Mode(c.String("mode")),
		Flash:     c.Bool("flash"),
		Execute:   c.Bool("execute"),
		NoReset:   c.Bool("no-reset"),
		SyncDelay: c.Int("sync"),
		Verbosity: c.Count("verbose"),
		HexString: c.String("hex-string"),
	}
	if c.IsSet("address") {
		tuple, err := leutil.ParseHexAddress(c.String("address"))
		if err != nil {
			return nil, errors.Wrap(err, "--address")
		}
		cfg.HasAddress = true
		cfg.Address = leutil.LEBytesToUint(tuple[:])
	}
	return cfg, nil
}

// pickDevice enumerates candidate serial devices and prompts the
// operator to choose one when --device was not given.
func pickDevice() (string, error) {
	devices, err := serialport.ListDevices()
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", fmt.Errorf("no serial devices found")
	}
	if len(devices) == 1 {
		return devices[0], nil
	}
	fmt.Fprintln(os.Stderr, "select a serial device:")
	for i, d := range devices {
		fmt.Fprintf(os.Stderr, "  [%d] %s\n", i, d)
	}
	reader := bufio.NewReader(os.Stdin)
	var choice int
	for {
		fmt.Fprint(os.Stderr, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		if _, err := fmt.Sscanf(line, "%d", &choice); err == nil && choice >= 0 && choice < len(devices) {
			return devices[choice], nil
		}
	}
}
