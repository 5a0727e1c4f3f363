package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
)

var (
	errNoSelector         = errors.New("one of --tag, --prefix, --expired or --all is required")
	errSnapshotUnreadable = errors.New("snapshot could not be loaded; refusing to overwrite it (use --all to replace it)")
)

func newPurgeCmd() *cobra.Command {
	var (
		name    string
		kind    string
		tag     string
		prefix  string
		expired bool
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove entries from a persisted cache and save it",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if tag == "" && prefix == "" && !expired && !all {
				return errNoSelector
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			ctx := a.context(cmd)
			defer func() { err = errors.Join(err, a.close(ctx)) }()

			c, err := a.openCache(ctx, name, kind)
			if err != nil {
				return err
			}
			before := c.Stats()
			if before.PersistFailures > 0 && !all {
				return fmt.Errorf("%w: %s", errSnapshotUnreadable, cache.RegistryKey(cache.Kind(kind), name))
			}

			removed := 0
			switch {
			case all:
				removed = before.TotalItems
				c.ClearSync(ctx)
			default:
				if tag != "" {
					removed += c.DeleteByTag(tag)
				}
				if prefix != "" {
					removed += c.DeleteByPrefix(prefix)
				}
				if expired {
					removed += c.Cleanup()
				}
				c.Flush(ctx)
			}

			if failures := c.Stats().PersistFailures - before.PersistFailures; failures > 0 {
				return fmt.Errorf("purged %d entries but failed to save %q", removed, name)
			}

			a.log.InfoContext(ctx, "cache purged",
				slog.String("cache", name),
				slog.Int("removed", removed),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries from %s\n", removed, cache.RegistryKey(cache.Kind(kind), name))
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "cache name")
	cmd.Flags().StringVar(&kind, "kind", string(cache.KindLocal), "cache kind (local, session, memory)")
	cmd.Flags().StringVar(&tag, "tag", "", "remove entries carrying this tag")
	cmd.Flags().StringVar(&prefix, "prefix", "", "remove entries whose key starts with this prefix")
	cmd.Flags().BoolVar(&expired, "expired", false, "run a cleanup sweep (expired entries, then eviction)")
	cmd.Flags().BoolVar(&all, "all", false, "remove every entry")
	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsMutuallyExclusive("all", "tag")
	cmd.MarkFlagsMutuallyExclusive("all", "prefix")
	cmd.MarkFlagsMutuallyExclusive("all", "expired")

	return cmd
}
