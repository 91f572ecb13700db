package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	synchub "mangashelf/internal/sync"
)

const defaultBaseURL = "http://localhost:8080"

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var (
		baseURL string
		raw     bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream compare and ingest events from an API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := websocketURL(baseURL, "/ws")
			if err != nil {
				return fmt.Errorf("api url: %w", err)
			}
			for {
				err := watchOnce(cmd.Context(), wsURL, cmd.OutOrStdout(), raw)
				if cmd.Context().Err() != nil {
					return nil
				}
				logrus.WithError(err).Warn("[watch] disconnected, reconnecting")
				select {
				case <-cmd.Context().Done():
					return nil
				case <-time.After(time.Second):
				}
			}
		},
	}
	cmd.Flags().StringVar(&baseURL, "api", defaultBaseURL, "API base URL")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print events as received")
	return cmd
}

func watchOnce(ctx context.Context, wsURL string, w io.Writer, raw bool) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()
	logrus.Infof("[watch] connected to %s", wsURL)

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if raw {
			fmt.Fprintln(w, string(msg))
			continue
		}
		fmt.Fprintln(w, describeEvent(msg))
	}
}

// describeEvent renders known events as one line; anything else is printed
// as received.
func describeEvent(msg []byte) string {
	var env synchub.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return string(msg)
	}
	switch env.Type {
	case synchub.EventCompareCompleted:
		var ev synchub.CompareEvent
		if err := json.Unmarshal(msg, &ev); err == nil {
			return fmt.Sprintf("%s compare %s: %d matches (%s vs %s)",
				ev.At.Local().Format(time.TimeOnly), ev.RunID, ev.MatchCount, ev.LibrarySource, ev.ReferenceSource)
		}
	case synchub.EventIngestCompleted:
		var ev synchub.IngestEvent
		if err := json.Unmarshal(msg, &ev); err == nil {
			return fmt.Sprintf("%s ingest %s: %d entries appended to %s",
				ev.At.Local().Format(time.TimeOnly), ev.RunID, ev.Entries, ev.Library)
		}
	}
	return string(msg)
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}
