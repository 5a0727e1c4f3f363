package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
)

type inspectOutput struct {
	Name    string         `json:"name"`
	Kind    string         `json:"kind"`
	Stats   cache.Stats    `json:"stats"`
	Keys    []string       `json:"keys"`
	Entries []inspectEntry `json:"entries,omitempty"`
}

type inspectEntry struct {
	Key       string     `json:"key"`
	WrittenAt time.Time  `json:"writtenAt"`
	ExpireAt  *time.Time `json:"expireAt,omitempty"`
	Expired   bool       `json:"expired"`
	Tags      []string   `json:"tags,omitempty"`
	Value     any        `json:"value,omitempty"`
}

func newInspectCmd() *cobra.Command {
	var (
		name        string
		kind        string
		withEntries bool
		withValues  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print stats and keys of a persisted cache as JSON",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
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

			out := inspectOutput{
				Name:  name,
				Kind:  kind,
				Stats: c.Stats(),
				Keys:  c.Keys(),
			}
			if withEntries || withValues {
				now := time.Now()
				for _, k := range out.Keys {
					e, ok := c.Entry(k)
					if !ok {
						continue
					}
					out.Entries = append(out.Entries, describeEntry(e, now, withValues))
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "cache name")
	cmd.Flags().StringVar(&kind, "kind", string(cache.KindLocal), "cache kind (local, session, memory)")
	cmd.Flags().BoolVar(&withEntries, "entries", false, "include per-entry metadata")
	cmd.Flags().BoolVar(&withValues, "values", false, "include entry values (implies --entries)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func describeEntry(e cache.Entry[any], now time.Time, withValue bool) inspectEntry {
	out := inspectEntry{
		Key:       e.Key,
		WrittenAt: time.UnixMilli(e.WrittenAt).UTC(),
		Expired:   e.Expired(now),
		Tags:      e.Tags,
	}
	if e.ExpireAt != nil {
		t := time.UnixMilli(*e.ExpireAt).UTC()
		out.ExpireAt = &t
	}
	if withValue {
		out.Value = e.Value
	}
	return out
}
