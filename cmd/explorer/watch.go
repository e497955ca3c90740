package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockandplay/explorer/pkg/client"
	"github.com/blockandplay/explorer/pkg/fetch"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

type watchOptions struct {
	baseURL  string
	interval time.Duration
	duration time.Duration
	page     int
	limit    int
}

// watchLine is one JSON line printed per settled fetch.
type watchLine struct {
	Resource  string    `json:"resource"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:       "watch [metrics|blocks|transactions|nfx]",
		Short:     "Poll an explorer resource and print every refresh as JSON",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"metrics", "blocks", "transactions", "nfx"},
		RunE: func(cmd *cobra.Command, args []string) error {
			resource := "metrics"
			if len(args) == 1 {
				resource = args[0]
			}

			c, err := client.New(client.DefaultConfig(opts.baseURL))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if opts.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.duration)
				defer cancel()
			}

			params := pagination.Params{Page: opts.page, Limit: opts.limit}
			out := cmd.OutOrStdout()

			switch resource {
			case "metrics":
				return watch(ctx, out, resource, func(ctx context.Context, _ pagination.Params) (model.NetworkMetrics, error) {
					return c.Metrics(ctx)
				}, params, opts.interval)
			case "blocks":
				return watch(ctx, out, resource, c.Blocks, params, opts.interval)
			case "transactions":
				return watch(ctx, out, resource, c.Transactions, params, opts.interval)
			case "nfx":
				return watch(ctx, out, resource, c.NFXList, params, opts.interval)
			default:
				return fmt.Errorf("unknown resource %q", resource)
			}
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "explorer API base URL")
	cmd.Flags().DurationVar(&opts.interval, "interval", 30*time.Second, "refresh interval (0 disables polling)")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page for list resources")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "limit for list resources")
	return cmd
}

// watch drives a fetch controller until ctx ends.
func watch[T any](ctx context.Context, out io.Writer, resource string, fn func(context.Context, pagination.Params) (T, error), params pagination.Params, interval time.Duration) error {
	opts := []fetch.Option{fetch.WithName(resource)}
	if interval > 0 {
		opts = append(opts, fetch.WithAutoRefresh(interval))
	}
	ctrl := fetch.New[pagination.Params, T](fn, params, opts...)

	enc := json.NewEncoder(out)
	ctrl.OnChange(func(s fetch.State[pagination.Params, T]) {
		if s.Loading || s.Status == fetch.StatusIdle {
			return
		}
		line := watchLine{Resource: resource, Status: string(s.Status)}
		if s.Err != nil {
			line.Error = s.Err.Error()
		} else {
			line.UpdatedAt = s.UpdatedAt
			line.Data = s.Data
		}
		_ = enc.Encode(line)
	})

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	ctrl.Close()
	return nil
}
