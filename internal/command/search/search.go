package search

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bornholm/gifparty/internal/command/common"
	"github.com/bornholm/gifparty/pkg/gif"
	"github.com/bornholm/gifparty/pkg/page"
	"github.com/bornholm/gifparty/pkg/party"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.yaml.in/yaml/v3"
)

const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

func Search() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:      "output",
			Value:     "",
			Aliases:   []string{"o"},
			EnvVars:   []string{"GIFPARTY_OUTPUT"},
			Usage:     "Output file, '-' for stdout, default to the slug of the search terms",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:    "format",
			Value:   FormatHTML,
			Aliases: []string{"f"},
			EnvVars: []string{"GIFPARTY_FORMAT"},
			Usage:   "Output format (html or markdown)",
		},
	}

	return &cli.Command{
		Name:      "search",
		Usage:     "Search a GIF for each given term and write the resulting party page",
		ArgsUsage: "TERM...",
		Flags:     append(flags, common.GiphyFlags()...),
		Action: func(cliCtx *cli.Context) error {
			output := cliCtx.String("output")
			format := cliCtx.String("format")

			if format != FormatHTML && format != FormatMarkdown {
				return errors.Errorf("unknown output format '%s'", format)
			}

			terms := make([]string, 0, cliCtx.NArg())
			for _, t := range cliCtx.Args().Slice() {
				if t = strings.TrimSpace(t); t != "" {
					terms = append(terms, t)
				}
			}

			if len(terms) == 0 {
				return errors.New("at least one search term is required")
			}

			client, err := common.NewGiphyClient(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			ctx := cliCtx.Context

			flowCh, flowCallback, closeFlow := party.FlowEventChannel()
			ctx = party.WithFlowTracking(ctx, flowCallback)

			logged := make(chan struct{})
			go func() {
				defer close(logged)
				logFlow(ctx, flowCh)
			}()

			p, err := Run(ctx, client, terms)

			closeFlow()
			<-logged

			if err != nil {
				return errors.Wrap(err, "search failed")
			}

			var buff bytes.Buffer
			if err := Write(&buff, p, format, terms, time.Now()); err != nil {
				return errors.WithStack(err)
			}

			if output == "-" {
				if _, err := io.Copy(os.Stdout, &buff); err != nil {
					return errors.WithStack(err)
				}

				return nil
			}

			if output == "" {
				output = slug.Make(strings.Join(terms, " ")) + extension(format)
			}

			if err := os.WriteFile(output, buff.Bytes(), 0644); err != nil {
				return errors.Wrap(err, "failed to write party page")
			}

			slog.InfoContext(ctx, "party page written", slog.String("output", output), slog.Int("images", len(p.Images())))

			return nil
		},
	}
}

// Run submits one search flow per term on a fresh page. Flows run concurrently
// and their images are appended in completion order.
func Run(ctx context.Context, fetcher gif.Fetcher, terms []string) (*page.Page, error) {
	p, err := page.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	renderer := party.NewRenderer(p)

	var wg sync.WaitGroup

	wg.Add(len(terms))

	for _, term := range terms {
		go func(term string) {
			defer wg.Done()

			controller := party.NewController(fetcher, renderer, party.NewTermInput(term))
			controller.Submit(ctx)
		}(term)
	}

	wg.Wait()

	return p, nil
}

// Write serializes the page in the given format.
func Write(w io.Writer, p *page.Page, format string, terms []string, now time.Time) error {
	switch format {
	case FormatHTML:
		return errors.WithStack(p.Render(w))

	case FormatMarkdown:
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return errors.WithStack(err)
		}

		metadata := struct {
			Terms     []string  `yaml:"terms"`
			Images    int       `yaml:"images"`
			Generated time.Time `yaml:"generated"`
		}{
			Terms:     terms,
			Images:    len(p.Images()),
			Generated: now,
		}

		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(metadata); err != nil {
			return errors.Wrapf(err, "failed write page metadata")
		}

		if err := encoder.Close(); err != nil {
			return errors.WithStack(err)
		}

		if _, err := io.WriteString(w, "---\n\n"); err != nil {
			return errors.WithStack(err)
		}

		markdown, err := p.Markdown()
		if err != nil {
			return errors.WithStack(err)
		}

		if _, err := io.WriteString(w, markdown+"\n"); err != nil {
			return errors.WithStack(err)
		}

		return nil

	default:
		return errors.Errorf("unknown output format '%s'", format)
	}
}

func extension(format string) string {
	if format == FormatMarkdown {
		return ".md"
	}

	return ".html"
}

// logFlow logs search flow transitions until the channel is closed
func logFlow(ctx context.Context, flowCh <-chan party.FlowEvent) {
	for event := range flowCh {
		attrs := []any{
			slog.String("term", event.Term),
			slog.String("state", string(event.State)),
			slog.Duration("elapsed", event.Elapsed.Round(time.Millisecond)),
		}

		if event.Outcome != nil {
			attrs = append(attrs, slog.String("outcome", event.Outcome.String()))
		}

		slog.InfoContext(ctx, "search flow", attrs...)
	}
}
