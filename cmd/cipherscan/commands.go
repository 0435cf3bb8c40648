package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
	"gopkg.in/yaml.v3"

	"CipherScan/pkg/filehandler"
	"CipherScan/pkg/server"
	"CipherScan/pkg/workbench"
)

func (a *app) imageCommand() *ffcli.Command {
	fs := newFlagSet("image")
	bits := fs.Int("bits", 0, "Bits decoded per plane (0 uses the configured budget)")
	pixels := fs.Int("pixels", 0, "Pixels read before truncation (0 uses the configured limit)")
	payloads := fs.Bool("payloads", true, "Also look for length-prefixed and jsteg payloads (default from config)")

	return &ffcli.Command{
		Name:       "image",
		ShortUsage: appName + " image [flags] <image>",
		ShortHelp:  "Decode text from the LSB and MSB planes of an image",
		FlagSet:    fs,
		Options:    envOptions(),
		Exec: func(ctx context.Context, args []string) error {
			path, err := fileArg(args)
			if err != nil {
				return err
			}
			if err := a.setup(true); err != nil {
				return err
			}
			if *bits > 0 {
				a.conf.Image.BitBudget = *bits
			}
			if *pixels > 0 {
				a.conf.Image.PixelLimit = *pixels
			}
			if flagsSet(fs)["payloads"] {
				a.conf.Image.Payloads = *payloads
			}

			a.out.info("Analyzing image: %s", path)
			return a.report(a.workbench().ImageAnalysis(ctx, workbench.NewSession(workbench.ImagePanel, path)))
		},
	}
}

func (a *app) hiddenCommand() *ffcli.Command {
	fs := newFlagSet("hidden")
	pdfOut := fs.String("pdf", "", "Save the hidden data to this PDF")
	qrOut := fs.String("qr", "", "Save the hidden data as a QR code PNG")

	return &ffcli.Command{
		Name:       "hidden",
		ShortUsage: appName + " hidden [flags] <image>",
		ShortHelp:  "Read the HiddenData metadata entry of an image",
		FlagSet:    fs,
		Options:    envOptions(),
		Exec: func(ctx context.Context, args []string) error {
			path, err := fileArg(args)
			if err != nil {
				return err
			}
			if err := a.setup(true); err != nil {
				return err
			}
			return a.report(a.workbench().ImageHiddenData(ctx, workbench.NewSession(workbench.ImagePanel, path), *pdfOut, *qrOut))
		},
	}
}

func (a *app) pdfCommand() *ffcli.Command {
	fs := newFlagSet("pdf")

	return &ffcli.Command{
		Name:       "pdf",
		ShortUsage: appName + " pdf <document.pdf>",
		ShortHelp:  "List the document information of a PDF",
		FlagSet:    fs,
		Options:    envOptions(),
		Exec: func(ctx context.Context, args []string) error {
			path, err := fileArg(args)
			if err != nil {
				return err
			}
			if err := a.setup(true); err != nil {
				return err
			}
			return a.report(a.workbench().PDFAnalysis(ctx, workbench.NewSession(workbench.PDFPanel, path)))
		},
	}
}

func (a *app) pdfCleanCommand() *ffcli.Command {
	fs := newFlagSet("pdf-clean")
	outDir := fs.String("out", "", "Directory receiving the cleaned PDF")
	name := fs.String("name", "", "File name of the cleaned PDF (default from config)")

	return &ffcli.Command{
		Name:       "pdf-clean",
		ShortUsage: appName + " pdf-clean -out <dir> <document.pdf>",
		ShortHelp:  "Write a copy of a PDF without document metadata",
		FlagSet:    fs,
		Options:    envOptions(),
		Exec: func(ctx context.Context, args []string) error {
			path, err := fileArg(args)
			if err != nil {
				return err
			}
			if err := a.setup(true); err != nil {
				return err
			}
			if *name != "" {
				a.conf.Report.CleanedName = *name
			}
			return a.report(a.workbench().PDFClean(ctx, workbench.NewSession(workbench.PDFPanel, path), *outDir))
		},
	}
}

func (a *app) watermarkCommand() *ffcli.Command {
	fs := newFlagSet("watermark")
	outDir := fs.String("out", "", "Directory receiving the highlighted image (default: next to the input)")
	threshold := fs.Int("threshold", 200, "Edge value above which a grid point is outlined (default from config)")
	step := fs.Int("step", 0, "Grid spacing in pixels (0 uses the config)")

	return &ffcli.Command{
		Name:       "watermark",
		ShortUsage: appName + " watermark [flags] <image>",
		ShortHelp:  "Outline strong edges to point at possible watermarks",
		FlagSet:    fs,
		Options:    envOptions(),
		Exec: func(ctx context.Context, args []string) error {
			path, err := fileArg(args)
			if err != nil {
				return err
			}
			if err := a.setup(true); err != nil {
				return err
			}
			if flagsSet(fs)["threshold"] {
				if *threshold < 0 || *threshold > 255 {
					return fmt.Errorf("threshold must be between 0 and 255, got %d", *threshold)
				}
				a.conf.Watermark.Threshold = uint8(*threshold)
			}
			if *step > 0 {
				a.conf.Watermark.GridStep = *step
			}
			return a.report(a.workbench().Watermark(ctx, workbench.NewSession(workbench.WatermarkPanel, path), *outDir))
		},
	}
}

func (a *app) audioCommand() *ffcli.Command {
	fs := newFlagSet("audio")
	pdfOut := fs.String("pdf", "", "Save the decoded text to this PDF")
	printable := fs.Bool("printable", false, "Drop non-printable characters like the image decoder does")
	maxBits := fs.Int("max-bits", 0, "Stop after this many sample bits (0 reads the whole data chunk)")

	return &ffcli.Command{
		Name:       "audio",
		ShortUsage: appName + " audio [flags] <clip.wav>",
		ShortHelp:  "Decode text from the sample LSBs of a WAV file",
		FlagSet:    fs,
		Options:    envOptions(),
		Exec: func(ctx context.Context, args []string) error {
			path, err := fileArg(args)
			if err != nil {
				return err
			}
			if err := a.setup(true); err != nil {
				return err
			}
			if *printable {
				a.conf.Audio.Printable = true
			}
			if *maxBits > 0 {
				a.conf.Audio.MaxBits = *maxBits
			}
			return a.report(a.workbench().AudioAnalysis(ctx, workbench.NewSession(workbench.AudioPanel, path), *pdfOut))
		},
	}
}

func (a *app) scanCommand() *ffcli.Command {
	fs := newFlagSet("scan")
	dir := fs.String("dir", "", "Directory of files to scan")
	recursive := fs.Bool("recursive", false, "Walk -dir recursively, keeping supported extensions only")
	url := fs.String("url", "", "URL to download and scan")
	urlFile := fs.String("urlfile", "", "File containing URLs to download and scan")
	outDir := fs.String("outdir", "cipherscan_output", "Directory for results and downloaded files")

	return &ffcli.Command{
		Name:       "scan",
		ShortUsage: appName + " scan [-dir <dir>] [-url <url>] [-urlfile <file>] [files...]",
		ShortHelp:  "Run every analyzer and extractor on files, directories or URLs",
		FlagSet:    fs,
		Options:    envOptions(),
		Exec: func(ctx context.Context, args []string) error {
			if *dir == "" && *url == "" && *urlFile == "" && len(args) == 0 {
				return fmt.Errorf("nothing to scan: give files, -dir, -url or -urlfile")
			}
			if err := a.setup(true); err != nil {
				return err
			}
			if err := os.MkdirAll(*outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			var targets []string
			downloadDir := filepath.Join(*outDir, "downloads")

			if *urlFile != "" {
				a.out.info("Processing URLs from file: %s", *urlFile)
				urls, err := filehandler.ReadLines(*urlFile)
				if err != nil {
					return fmt.Errorf("failed to read URL file: %w", err)
				}
				for _, u := range urls {
					u = strings.TrimSpace(u)
					if u == "" || strings.HasPrefix(u, "#") {
						continue
					}
					if path, ok := a.download(ctx, u, downloadDir); ok {
						targets = append(targets, path)
					}
				}
			}

			if *url != "" {
				path, ok := a.download(ctx, *url, downloadDir)
				if !ok {
					return errReported
				}
				targets = append(targets, path)
			}

			for _, arg := range args {
				if !filehandler.IsURL(arg) {
					targets = append(targets, arg)
					continue
				}
				if path, ok := a.download(ctx, arg, downloadDir); ok {
					targets = append(targets, path)
				}
			}

			if *dir != "" {
				a.out.info("Scanning directory: %s", *dir)
				var files []string
				var err error
				if *recursive {
					files, err = filehandler.FilesInDirectory(*dir, filehandler.SupportedExtensions())
				} else {
					files, err = filehandler.GatherFiles(*dir)
				}
				if err != nil {
					return fmt.Errorf("failed to read directory: %w", err)
				}
				a.out.info("Found %d files to scan", len(files))
				targets = append(targets, files...)
			}

			var reports []*workbench.ScanReport
			for _, path := range targets {
				if err := ctx.Err(); err != nil {
					return err
				}
				a.out.info("Scanning %s", path)
				rep, err := a.workbench().Scan(ctx, path, *outDir)
				if err != nil {
					a.out.warning("Skipping %s: %v", path, err)
					continue
				}
				a.out.scan(rep)
				reports = append(reports, rep)
			}

			a.out.summary(reports)
			return nil
		},
	}
}

func (a *app) download(ctx context.Context, url, dir string) (string, bool) {
	a.out.info("Downloading from %s", url)
	path, err := filehandler.DownloadFromURL(ctx, url, dir)
	if err != nil {
		a.out.errorf("Failed to download from %s: %v", url, err)
		return "", false
	}
	a.out.success("Downloaded to %s", path)
	return path, true
}

func (a *app) formatsCommand() *ffcli.Command {
	fs := newFlagSet("formats")

	return &ffcli.Command{
		Name:       "formats",
		ShortUsage: appName + " formats",
		ShortHelp:  "List supported formats with their analyzers and extractors",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			a.out.formats(a.workbench())
			return nil
		},
	}
}

func (a *app) serveCommand() *ffcli.Command {
	fs := newFlagSet("serve")
	addr := fs.String("addr", "", "Listen address (default from config)")

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: appName + " serve [-addr :8080]",
		ShortHelp:  "Serve the panels over HTTP",
		FlagSet:    fs,
		Options:    envOptions(),
		Exec: func(ctx context.Context, args []string) error {
			if err := a.setup(true); err != nil {
				return err
			}
			if *addr != "" {
				a.conf.Server.Addr = *addr
			}
			return server.New(a.workbench(), a.conf.Server).Run(ctx)
		},
	}
}

func (a *app) configCommand() *ffcli.Command {
	fs := newFlagSet("config")
	write := fs.String("write", "", "Write the effective configuration to this file instead of stdout")

	return &ffcli.Command{
		Name:       "config",
		ShortUsage: appName + " config [-write <file>]",
		ShortHelp:  "Print the effective configuration as YAML",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			if *write != "" {
				if err := a.conf.Save(*write); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				a.out.success("Configuration written to %s", *write)
				return nil
			}
			data, err := yaml.Marshal(a.conf)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}
