// Command expopush is a thin CLI over the push client: it builds one
// notification message from flags, sends it and prints the resulting ticket,
// or queries delivery receipts for previously issued ticket ids.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinywideclouds/go-expo-push/expopush"
	"github.com/tinywideclouds/go-expo-push/expopush/config"
	"github.com/tinywideclouds/go-expo-push/pkg/message"
	"github.com/tinywideclouds/go-expo-push/pkg/ticket"
)

//go:embed local.yaml
var configFile []byte

func main() {
	var (
		data       = flag.String("data", "", "JSON payload delivered alongside the notification")
		title      = flag.String("title", "", "title of the notification")
		body       = flag.String("body", "", "body of the notification")
		sound      = flag.Bool("sound", false, "play the device default sound")
		ttl        = flag.Uint("ttl", 0, "seconds the service may retain the message")
		expiration = flag.Uint("expiration", 0, "absolute expiration as unix timestamp seconds")
		priority   = flag.String("priority", "", "delivery priority: default, normal or high")
		badge      = flag.Uint("badge", 0, "unread count to set on the app icon (0 clears it)")
		auth       = flag.String("auth", "", "access token for enhanced push security")
		receipts   = flag.String("receipts", "", "comma-separated ticket ids to query receipts for instead of sending")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] TOKEN\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "TOKEN is an Expo push token, e.g. ExpoPushToken[xxx].")
		flag.PrintDefaults()
	}
	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	var logLevel slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug", "DEBUG":
		logLevel = slog.LevelDebug
	case "info", "INFO":
		logLevel = slog.LevelInfo
	case "warn", "WARN":
		logLevel = slog.LevelWarn
	case "error", "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})).With("service", "expopush-cli")
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Config Loading ---
	var yamlCfg config.YamlConfig
	if err := yaml.Unmarshal(configFile, &yamlCfg); err != nil {
		logger.Error("Failed to unmarshal embedded yaml config", "err", err)
		os.Exit(1)
	}
	baseCfg, err := config.FromYaml(&yamlCfg, logger)
	if err != nil {
		logger.Error("Config failed", "err", err)
		os.Exit(1)
	}
	cfg, err := config.ApplyEnvOverrides(ctx, baseCfg, logger)
	if err != nil {
		logger.Error("Config failed", "err", err)
		os.Exit(1)
	}
	if *auth != "" {
		cfg.AccessToken = *auth
	}

	client, err := expopush.New(*cfg, logger)
	if err != nil {
		logger.Error("Client creation failed", "err", err)
		os.Exit(1)
	}

	// --- Receipt query mode ---
	if *receipts != "" {
		var ids []ticket.ReceiptID
		for _, raw := range strings.Split(*receipts, ",") {
			if trimmed := strings.TrimSpace(raw); trimmed != "" {
				ids = append(ids, ticket.ReceiptID(trimmed))
			}
		}
		result, err := client.GetReceipts(ctx, ids)
		if err != nil {
			logger.Error("Receipt query failed", "err", err)
			os.Exit(1)
		}
		printJSON(logger, result)
		return
	}

	// --- Send mode ---
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	token, err := message.ParseToken(flag.Arg(0))
	if err != nil {
		logger.Error("Invalid push token", "err", err)
		os.Exit(1)
	}

	msg := message.NewMessage(token)
	if *data != "" {
		if !json.Valid([]byte(*data)) {
			logger.Error("Invalid -data payload, expected JSON")
			os.Exit(1)
		}
		msg.Data = json.RawMessage(*data)
	}
	msg.Title = *title
	msg.Body = *body
	if *sound {
		msg.Sound = message.SoundDefault
	}
	if setFlags["ttl"] {
		msg.TTL = message.Uint(*ttl)
	}
	if setFlags["expiration"] {
		msg.Expiration = message.Uint(*expiration)
	}
	if *priority != "" {
		p, err := message.ParsePriority(*priority)
		if err != nil {
			logger.Error("Invalid priority", "err", err)
			os.Exit(1)
		}
		msg.Priority = p
	}
	if setFlags["badge"] {
		msg.Badge = message.Uint(*badge)
	}

	result, err := client.SendMessage(ctx, *msg)
	if err != nil {
		logger.Error("Send failed", "err", err)
		os.Exit(1)
	}
	printJSON(logger, result)
}

func printJSON(logger *slog.Logger, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Error("Failed to render result", "err", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
