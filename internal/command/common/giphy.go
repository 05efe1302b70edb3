package common

import (
	"net/url"
	"strings"

	"github.com/bornholm/gifparty/pkg/gif/giphy"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	FlagGiphyAPIKey   = "api-key"
	FlagGiphyEndpoint = "endpoint"
	FlagGiphyLimit    = "limit"
)

func GiphyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagGiphyAPIKey,
			Aliases: []string{"k"},
			EnvVars: []string{"GIFPARTY_GIPHY_API_KEY"},
			Usage:   "Giphy API key",
		},
		&cli.StringFlag{
			Name:    FlagGiphyEndpoint,
			Value:   giphy.DefaultEndpoint,
			EnvVars: []string{"GIFPARTY_GIPHY_ENDPOINT"},
			Usage:   "Giphy search endpoint",
		},
		&cli.IntFlag{
			Name:    FlagGiphyLimit,
			Value:   giphy.DefaultLimit,
			EnvVars: []string{"GIFPARTY_GIPHY_LIMIT"},
			Usage:   "Maximum number of candidates to pick a GIF from",
		},
	}
}

type GiphyConfig struct {
	APIKey   string
	Endpoint string
	Limit    int
}

// Validate reports every configuration problem at once.
func (c GiphyConfig) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.APIKey) == "" {
		result = multierror.Append(result, errors.Errorf("missing giphy api key (--%s)", FlagGiphyAPIKey))
	}

	if endpoint, err := url.ParseRequestURI(c.Endpoint); err != nil {
		result = multierror.Append(result, errors.Wrapf(err, "invalid giphy endpoint '%s'", c.Endpoint))
	} else if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		result = multierror.Append(result, errors.Errorf("invalid giphy endpoint scheme '%s'", endpoint.Scheme))
	}

	if c.Limit <= 0 {
		result = multierror.Append(result, errors.Errorf("giphy limit must be positive, got %d", c.Limit))
	}

	return result.ErrorOrNil()
}

func GiphyConfigFromContext(ctx *cli.Context) GiphyConfig {
	return GiphyConfig{
		APIKey:   ctx.String(FlagGiphyAPIKey),
		Endpoint: ctx.String(FlagGiphyEndpoint),
		Limit:    ctx.Int(FlagGiphyLimit),
	}
}

func NewGiphyClient(ctx *cli.Context) (*giphy.Client, error) {
	conf := GiphyConfigFromContext(ctx)

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid giphy configuration")
	}

	client := giphy.NewClient(
		strings.TrimSpace(conf.APIKey),
		giphy.WithEndpoint(conf.Endpoint),
		giphy.WithLimit(conf.Limit),
	)

	return client, nil
}
