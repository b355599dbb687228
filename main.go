package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"SlideBoard/internal/config"
	bnet "SlideBoard/internal/net"
	"SlideBoard/internal/relay"
	"SlideBoard/internal/session"
	"SlideBoard/internal/ui"
)

const usage = `usage:
  slideboard relay
  slideboard display [relay-link]
  slideboard tablet  [relay-link]
  slideboard slideboard://host:port`

const browseTimeout = 3 * time.Second

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(os.Stdout, cfg.LogLevel)

	role, link := "tablet", cfg.RelayURL
	args := os.Args[1:]
	switch {
	case len(args) > 0 && strings.HasPrefix(args[0], bnet.LinkScheme):
		link = args[0]
	case len(args) > 0:
		role = args[0]
		if len(args) > 1 {
			link = args[1]
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch role {
	case "relay":
		err = runRelay(ctx, cfg, logger)
	case "display":
		err = runClient(ctx, session.RoleDisplay, link, cfg, logger)
	case "tablet":
		err = runClient(ctx, session.RoleTablet, link, cfg, logger)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("exiting", "role", role, "error", err)
		os.Exit(1)
	}
}

func runRelay(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting as relay", "addr", cfg.RelayAddr, "channel", cfg.RelayChannel)
	hub := relay.NewHub(logger)

	if cfg.RedisURL != "" {
		fanout, err := relay.NewRedisFanout(cfg.RedisURL, hub, logger)
		if err != nil {
			return fmt.Errorf("redis fan-out: %w", err)
		}
		hub.SetPublisher(fanout)
		go func() {
			if err := fanout.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("redis fan-out stopped", "error", err)
			}
		}()
	}

	ln, err := net.Listen("tcp", cfg.RelayAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.RelayAddr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	if cfg.MDNS {
		srv, err := bnet.Advertise(port)
		if err != nil {
			logger.Warn("mdns advertise failed, clients need the share link", "error", err)
		} else {
			defer srv.Shutdown()
		}
	}
	logger.Info("relay ready", "share_link", bnet.ShareLink(port))

	return relay.NewServer(hub, cfg.RelayChannel, logger).Serve(ctx, ln)
}

func runClient(ctx context.Context, role session.Role, link string, cfg config.Config, logger *slog.Logger) error {
	relayURL, err := resolveRelay(ctx, link, cfg, logger)
	if err != nil {
		return err
	}
	relayURL = withChannel(relayURL, cfg.RelayChannel)
	logger.Info("starting as "+role.String(), "relay", relayURL)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := bnet.NewClient(relayURL, logger)
	sess := session.New(role, client, logger)

	ui.Run(ctx, ui.Options{
		Title:   "SlideBoard " + role.String(),
		Role:    role,
		Session: sess,
		Relay:   relayURL,
		Start: func() {
			go client.Run(ctx)
			go sess.Run(ctx)
		},
	})
	return nil
}

// resolveRelay picks the relay from an explicit link, then mDNS, then the
// local relay address.
func resolveRelay(ctx context.Context, link string, cfg config.Config, logger *slog.Logger) (string, error) {
	if link != "" {
		return bnet.ParseLink(link)
	}
	if cfg.MDNS {
		found, err := bnet.Browse(ctx, browseTimeout)
		if err == nil {
			logger.Info("relay discovered", "relay", found)
			return found, nil
		}
		logger.Warn("no relay found on the network, trying this host", "error", err)
	}
	addr := cfg.RelayAddr
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	return bnet.ParseLink(addr)
}

func withChannel(relayURL, channel string) string {
	u, err := url.Parse(relayURL)
	if err != nil || channel == "" {
		return relayURL
	}
	q := u.Query()
	if q.Get("channel") == "" {
		q.Set("channel", channel)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
