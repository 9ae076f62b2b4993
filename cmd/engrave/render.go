package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/npillmayer/engrave/notation"
	"github.com/npillmayer/engrave/render"
	"github.com/npillmayer/engrave/score"
	"github.com/npillmayer/engrave/watch"
	"github.com/npillmayer/schuko"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a score document",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	flags := renderCmd.Flags()
	flags.StringP("output", "o", "", `output file; "-" for stdout (default: input name with backend extension)`)
	flags.String("renderer", "", "backend: svg | canvas")
	flags.Int("width", 0, "score width, if not declared")
	flags.Int("systems-per-line", 0, "systems per line, if not declared")
	flags.Bool("watch", false, "render again whenever the file changes")
	flags.Duration("timeout", 10*time.Second, "maximum time for assembling the score")
	_ = viper.BindPFlag("engrave.renderer", flags.Lookup("renderer"))
	_ = viper.BindPFlag("engrave.width", flags.Lookup("width"))
	_ = viper.BindPFlag("engrave.systemsPerLine", flags.Lookup("systems-per-line"))
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]
	output, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	watching, _ := cmd.Flags().GetBool("watch")
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	err := renderFile(ctx, conf, path, output, timeout, cmd.OutOrStdout())
	if !watching {
		return err
	}
	if err != nil {
		log.Error(err)
	}
	w, err := watch.New(path, 0)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()
	changes, err := w.Start()
	if err != nil {
		return err
	}
	log.WithField("file", path).Warn("watching for changes, interrupt to stop")
	for {
		select {
		case <-changes:
			if err := renderFile(ctx, conf, path, output, timeout, cmd.OutOrStdout()); err != nil {
				log.Error(err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// renderFile renders the score document at path and writes the result.
// Non-fatal errors are logged.
func renderFile(ctx context.Context, c schuko.Configuration, path, output string,
	timeout time.Duration, stdout io.Writer) error {
	//
	doc, err := loadDocument(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	s, err := score.Build(doc, score.WithConfig(c))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	rendering, err := s.Await(ctx)
	if rendering == nil {
		if errors.Is(err, score.ErrStalled) {
			log.Debugf("score state:\n%s", s)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	if err != nil {
		log.WithField("file", path).Warnf("%v", err)
	}
	return writeRendering(rendering, outputName(path, output, rendering.Backend), stdout)
}

// outputName derives the output file name from the input file name, if no
// output has been requested.
func outputName(path, output string, b render.Backend) string {
	if output != "" {
		return output
	}
	ext := ".svg"
	if b == render.Canvas {
		ext = ".png"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func writeRendering(r *notation.Rendering, output string, stdout io.Writer) error {
	if output == "-" {
		if f, ok := stdout.(*os.File); ok && r.Backend == render.Canvas && isatty.IsTerminal(f.Fd()) {
			return errors.New("refusing to write PNG data to a terminal")
		}
		_, err := stdout.Write(r.Data)
		return err
	}
	if err := os.WriteFile(output, r.Data, 0644); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":    output,
		"systems": r.Stats.Systems,
		"notes":   r.Stats.Notes,
	}).Infof("rendered %dx%d", r.Width, r.Height)
	return nil
}
