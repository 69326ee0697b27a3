// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"net"
	"strings"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

const appField = "warzish"

type Options struct {
	Level  string
	Format string // text or json
	Out    io.Writer

	// Optional shipping targets; empty disables them.
	LogstashAddr string
	ElasticURL   string
	ElasticIndex string
}

// Setup applies opts to the standard logrus logger and returns it. Shipping
// hooks that cannot connect are reported on the logger and skipped.
func Setup(opts Options) (*logrus.Logger, error) {
	logger := logrus.StandardLogger()
	if opts.Out != nil {
		logger.SetOutput(opts.Out)
	}

	level := logrus.WarnLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (use text or json)", opts.Format)
	}

	logger.ReplaceHooks(make(logrus.LevelHooks))
	if opts.LogstashAddr != "" {
		conn, err := net.Dial("udp", opts.LogstashAddr)
		if err != nil {
			logger.WithError(err).Warn("logstash hook disabled")
		} else {
			logger.AddHook(logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": appField})))
		}
	}
	if opts.ElasticURL != "" {
		if err := addElasticHook(logger, opts.ElasticURL, opts.ElasticIndex); err != nil {
			logger.WithError(err).Warn("elasticsearch hook disabled")
		}
	}
	return logger, nil
}

func addElasticHook(logger *logrus.Logger, url, index string) error {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return err
	}
	if index == "" {
		index = appField
	}
	hook, err := elogrus.NewAsyncElasticHook(client, appField, logrus.DebugLevel, index)
	if err != nil {
		return err
	}
	logger.AddHook(hook)
	return nil
}
